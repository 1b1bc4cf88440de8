package escrow

import (
	"bytes"
	"github.com/kurumiimari/vendue/bio"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/custody"
	"github.com/kurumiimari/vendue/ledger"
	"github.com/kurumiimari/vendue/ledgerdb"
	"github.com/kurumiimari/vendue/log"
	"github.com/pkg/errors"
	"io"
)

var (
	logger = log.ModuleLogger("escrow")

	ProgramID = chain.NewProgramID("vendue/escrow")
)

const (
	escrowTag uint8 = 0xe1
	shelfTag  uint8 = 0xe2
)

// Ledger is the host ledger as seen by the escrow program.
type Ledger interface {
	custody.Ledger
	AssetBalance(owner, asset *chain.Address) (uint64, error)
	OpenHolding(payer chain.Authority, owner, asset *chain.Address) (*chain.Address, error)
	TransferValue(from, to *chain.Address, auth chain.Authority, amount uint64) error
	CreateAccount(payer chain.Authority, record *chain.DerivedAuthority, data []byte) error
	ReadAccountData(addr *chain.Address) ([]byte, error)
	CloseAccount(addr *chain.Address, auth chain.Authority, refundTo *chain.Address) error
}

type Accounts interface {
	ProgramAccounts(program *chain.Address) ([]*ledgerdb.Account, error)
}

type record interface {
	io.WriterTo
	io.ReaderFrom
	authority() (*chain.DerivedAuthority, error)
	setAddress(addr *chain.Address)
}

func encode(rec record) []byte {
	buf := new(bytes.Buffer)
	if _, err := rec.WriteTo(buf); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func decode(addr *chain.Address, data []byte, rec record) error {
	rd := bytes.NewReader(data)
	if _, err := rec.ReadFrom(rd); err != nil {
		return err
	}
	if rd.Len() != 0 {
		return errors.Wrap(ErrMalformedRecord, "trailing bytes")
	}
	auth, err := rec.authority()
	if err != nil {
		return err
	}
	if !auth.Address().Equal(addr) {
		return errors.Wrap(ErrMalformedRecord, "record does not derive to its address")
	}
	rec.setAddress(addr)
	return nil
}

func load(l Ledger, addr *chain.Address, rec record) error {
	data, err := l.ReadAccountData(addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return errors.Wrapf(ErrListingClosed, "no listing at %s", addr)
	}
	if err != nil {
		return err
	}
	return decode(addr, data, rec)
}

// settle releases the vault's contents to dest and tears down the vault
// and record, returning both deposits to refundTo.
func settle(l Ledger, addr *chain.Address, auth *chain.DerivedAuthority, vault *custody.Vault, dest *chain.Address, amount uint64, refundTo *chain.Address) error {
	if err := vault.Release(l, auth, dest, amount); err != nil {
		return err
	}
	if err := vault.Close(l, auth, refundTo); err != nil {
		return err
	}
	if err := l.CloseAccount(addr, auth, refundTo); err != nil {
		return errors.Wrap(err, "error closing listing")
	}
	return nil
}

func derivationBytes(bump, vaultBump uint8) []byte {
	return []byte{bump, vaultBump}
}

func parseDerivation(b []byte) (uint8, uint8, error) {
	if len(b) != 2 {
		return 0, 0, errors.Wrap(ErrMalformedRecord, "bad authority derivation")
	}
	return b[0], b[1], nil
}

func readTag(r io.Reader, exp uint8) error {
	tag, err := bio.ReadByte(r)
	if err != nil {
		return errors.Wrap(ErrMalformedRecord, err.Error())
	}
	if tag != exp {
		return errors.Wrapf(ErrMalformedRecord, "unknown tag %x", tag)
	}
	return nil
}

func listTagged(l Accounts, tag uint8, build func(acc *ledgerdb.Account) error) error {
	accounts, err := l.ProgramAccounts(ProgramID)
	if err != nil {
		return err
	}
	for _, acc := range accounts {
		if len(acc.Data) == 0 || acc.Data[0] != tag {
			continue
		}
		if err := build(acc); err != nil {
			logger.Warning("skipping unreadable listing", "address", acc.Address, "err", err)
		}
	}
	return nil
}
