package ledger

import (
	"database/sql"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/gcrypto"
	"github.com/kurumiimari/vendue/ledgerdb"
	"github.com/pkg/errors"
	"math"
	"time"
)

// Ledger is the view of ledger state available inside one unit of
// execution.
type Ledger struct {
	tx       ledgerdb.Transactor
	network  *chain.Network
	invoker  *chain.Address
	now      time.Time
	readOnly bool
}

// Now is fixed for the duration of the unit.
func (l *Ledger) Now() time.Time {
	return l.now
}

func (l *Ledger) Network() *chain.Network {
	return l.network
}

func (l *Ledger) Invoker() *chain.Address {
	return l.invoker
}

// Account returns the account at addr.
func (l *Ledger) Account(addr *chain.Address) (*ledgerdb.Account, error) {
	acc, err := ledgerdb.GetAccount(l.tx, addr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrAccountNotFound, "account %s", addr)
	}
	return acc, err
}

// Balance returns the native balance at addr. Missing accounts have a
// zero balance.
func (l *Ledger) Balance(addr *chain.Address) (uint64, error) {
	acc, err := l.Account(addr)
	if errors.Is(err, ErrAccountNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// ProgramAccounts lists every account owned by program.
func (l *Ledger) ProgramAccounts(program *chain.Address) ([]*ledgerdb.Account, error) {
	return ledgerdb.ListAccountsByOwner(l.tx, program)
}

// Airdrop credits amount of freshly created value to addr. Only
// networks with a faucet allow it.
func (l *Ledger) Airdrop(to *chain.Address, amount uint64) error {
	if err := l.writable(); err != nil {
		return err
	}
	if !l.network.Faucet {
		return errors.WithStack(ErrFaucetDisabled)
	}
	logger.Info("airdropping funds", "to", to, "amount", amount)
	return l.credit(to, amount)
}

// TransferValue moves amount of native value from one account to another.
// auth must authorize the source account.
func (l *Ledger) TransferValue(from, to *chain.Address, auth chain.Authority, amount uint64) error {
	if err := l.writable(); err != nil {
		return err
	}
	if err := l.authorize(auth, from); err != nil {
		return err
	}
	if err := l.debit(from, amount); err != nil {
		return err
	}
	if err := l.credit(to, amount); err != nil {
		return err
	}
	logger.Trace("transferred value", "from", from, "to", to, "amount", amount)
	return nil
}

// CreateAccount allocates a program account at record's address owned by
// the invoking program. payer funds the account deposit.
func (l *Ledger) CreateAccount(payer chain.Authority, record *chain.DerivedAuthority, data []byte) error {
	if err := l.writable(); err != nil {
		return err
	}
	if err := l.authorize(record, record.Address()); err != nil {
		return err
	}
	_, err := l.Account(record.Address())
	if err == nil {
		return errors.Wrapf(ErrAccountExists, "account %s", record.Address())
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return err
	}

	deposit := l.network.AccountDeposit
	if err := l.authorizePayer(payer); err != nil {
		return err
	}
	if err := l.debit(payer.Address(), deposit); err != nil {
		return errors.Wrap(err, "error funding account deposit")
	}
	return ledgerdb.InsertAccount(l.tx, &ledgerdb.Account{
		Address:   record.Address(),
		Balance:   deposit,
		Deposit:   deposit,
		Owner:     l.invoker,
		Data:      data,
		CreatedAt: l.now.Unix(),
	})
}

// ReadAccountData returns the data stored in the program account at addr.
func (l *Ledger) ReadAccountData(addr *chain.Address) ([]byte, error) {
	acc, err := l.Account(addr)
	if err != nil {
		return nil, err
	}
	return acc.Data, nil
}

// WriteAccountData replaces the account's data. Only the owning program
// may write.
func (l *Ledger) WriteAccountData(addr *chain.Address, data []byte) error {
	if err := l.writable(); err != nil {
		return err
	}
	acc, err := l.Account(addr)
	if err != nil {
		return err
	}
	if !l.ownedByInvoker(acc) {
		return errors.Wrapf(ErrUnauthorized, "account %s not owned by invoker", addr)
	}
	return ledgerdb.UpdateAccountData(l.tx, addr, data)
}

// CloseAccount moves the account's entire balance, deposit included, to
// refundTo and deletes the account.
func (l *Ledger) CloseAccount(addr *chain.Address, auth chain.Authority, refundTo *chain.Address) error {
	if err := l.writable(); err != nil {
		return err
	}
	if err := l.authorize(auth, addr); err != nil {
		return err
	}
	acc, err := l.Account(addr)
	if err != nil {
		return err
	}
	if acc.Owner != nil && !l.ownedByInvoker(acc) {
		return errors.Wrapf(ErrUnauthorized, "account %s not owned by invoker", addr)
	}
	if err := ledgerdb.DeleteAccount(l.tx, addr); err != nil {
		return err
	}
	return l.credit(refundTo, acc.Balance)
}

// ConsumeInstruction records a signed instruction so it can never be
// applied twice.
func (l *Ledger) ConsumeInstruction(digest gcrypto.Hash, signer *chain.Address, op string) error {
	if err := l.writable(); err != nil {
		return err
	}
	inserted, err := ledgerdb.InsertInstruction(l.tx, digest, signer, op, l.now.Unix())
	if err != nil {
		return err
	}
	if !inserted {
		return errors.Wrapf(ErrReplayedInstruction, "digest %s", digest)
	}
	return nil
}

func (l *Ledger) authorize(auth chain.Authority, owner *chain.Address) error {
	if auth == nil || !auth.Authorizes(owner) {
		return errors.Wrapf(ErrUnauthorized, "no authority over %s", owner)
	}
	if derived, ok := auth.(*chain.DerivedAuthority); ok && !derived.Program().Equal(l.invoker) {
		return errors.Wrapf(ErrUnauthorized, "derived authority %s belongs to another program", owner)
	}
	return nil
}

func (l *Ledger) authorizePayer(payer chain.Authority) error {
	if payer == nil {
		return errors.Wrap(ErrUnauthorized, "missing payer")
	}
	return l.authorize(payer, payer.Address())
}

func (l *Ledger) ownedByInvoker(acc *ledgerdb.Account) bool {
	return l.invoker != nil && acc.Owner.Equal(l.invoker)
}

func (l *Ledger) writable() error {
	if l.readOnly {
		return errors.WithStack(ErrReadOnly)
	}
	return nil
}

func (l *Ledger) debit(addr *chain.Address, amount uint64) error {
	acc, err := l.Account(addr)
	if errors.Is(err, ErrAccountNotFound) {
		return errors.Wrapf(ErrInsufficientFunds, "account %s has no funds", addr)
	}
	if err != nil {
		return err
	}
	spendable := acc.Balance - acc.Deposit
	if amount > spendable {
		return errors.Wrapf(ErrInsufficientFunds, "account %s has %d spendable, needs %d", addr, spendable, amount)
	}
	return ledgerdb.UpdateAccountBalance(l.tx, addr, acc.Balance-amount)
}

// credit adds amount to addr. Key hash addresses are created on first
// credit; derived addresses must be created by their program first.
func (l *Ledger) credit(addr *chain.Address, amount uint64) error {
	if amount > math.MaxInt64 {
		return errors.WithStack(ErrAmountOverflow)
	}
	acc, err := l.Account(addr)
	if errors.Is(err, ErrAccountNotFound) {
		if addr.IsDerived() {
			return err
		}
		return ledgerdb.InsertAccount(l.tx, &ledgerdb.Account{
			Address:   addr,
			Balance:   amount,
			CreatedAt: l.now.Unix(),
		})
	}
	if err != nil {
		return err
	}
	if acc.Balance > math.MaxInt64-amount {
		return errors.WithStack(ErrAmountOverflow)
	}
	return ledgerdb.UpdateAccountBalance(l.tx, addr, acc.Balance+amount)
}
