package escrow

import (
	"github.com/kurumiimari/vendue/bio"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/custody"
	"github.com/kurumiimari/vendue/ledgerdb"
	"github.com/pkg/errors"
	"io"
)

// Escrow is an offer to swap Deposit units of Offered for Receive units
// of Requested. The offered units sit in a vault owned by the record.
type Escrow struct {
	Address   *chain.Address `json:"address"`
	Seed      uint64         `json:"seed"`
	Maker     *chain.Address `json:"maker"`
	Offered   *chain.Address `json:"offered"`
	Requested *chain.Address `json:"requested"`
	Deposit   uint64         `json:"deposit"`
	Receive   uint64         `json:"receive"`
	Bump      uint8          `json:"bump"`
	VaultBump uint8          `json:"vault_bump"`
}

type MakeArgs struct {
	Seed      uint64
	Offered   *chain.Address
	Requested *chain.Address
	Deposit   uint64
	Receive   uint64
}

func escrowSeeds(maker *chain.Address, seed uint64) [][]byte {
	return [][]byte{
		[]byte("escrow"),
		maker.Hash,
		bio.Uint64LE(seed),
	}
}

func EscrowAddress(maker *chain.Address, seed uint64) (*chain.Address, uint8, error) {
	return chain.FindDerivedAddress(ProgramID, escrowSeeds(maker, seed)...)
}

func (e *Escrow) authority() (*chain.DerivedAuthority, error) {
	auth, err := chain.NewDerivedAuthority(ProgramID, e.Bump, escrowSeeds(e.Maker, e.Seed)...)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedRecord, err.Error())
	}
	return auth, nil
}

func (e *Escrow) setAddress(addr *chain.Address) {
	e.Address = addr
}

func (e *Escrow) vault() (*custody.Vault, error) {
	return custody.Load(ProgramID, e.Address, e.Offered, e.VaultBump)
}

func (e *Escrow) WriteTo(w io.Writer) (int64, error) {
	g := bio.NewGuardWriter(w)
	bio.WriteByte(g, escrowTag)
	bio.WriteUint64LE(g, e.Seed)
	e.Maker.WriteTo(g)
	e.Offered.WriteTo(g)
	e.Requested.WriteTo(g)
	bio.WriteUint64LE(g, e.Deposit)
	bio.WriteUint64LE(g, e.Receive)
	bio.WriteVarBytes(g, derivationBytes(e.Bump, e.VaultBump))
	return g.N, errors.Wrap(g.Err, "error writing escrow")
}

func (e *Escrow) ReadFrom(r io.Reader) (int64, error) {
	g := bio.NewGuardReader(r)
	if err := readTag(g, escrowTag); err != nil {
		return g.N, err
	}
	e.Seed, _ = bio.ReadUint64LE(g)
	e.Maker = new(chain.Address)
	e.Maker.ReadFrom(g)
	e.Offered = new(chain.Address)
	e.Offered.ReadFrom(g)
	e.Requested = new(chain.Address)
	e.Requested.ReadFrom(g)
	e.Deposit, _ = bio.ReadUint64LE(g)
	e.Receive, _ = bio.ReadUint64LE(g)
	derivation, _ := bio.ReadVarBytes(g)
	if g.Err != nil {
		return g.N, errors.Wrap(ErrMalformedRecord, g.Err.Error())
	}
	var err error
	e.Bump, e.VaultBump, err = parseDerivation(derivation)
	return g.N, err
}

// Make locks args.Deposit of the offered asset in a new escrow.
func Make(l Ledger, maker chain.Authority, args *MakeArgs) (*Escrow, error) {
	if args.Deposit == 0 || args.Receive == 0 {
		return nil, errors.WithStack(ErrInvalidAmount)
	}
	bal, err := l.AssetBalance(maker.Address(), args.Offered)
	if err != nil {
		return nil, err
	}
	if bal < args.Deposit {
		return nil, errors.WithStack(ErrNotAssetOwner)
	}

	addr, bump, err := EscrowAddress(maker.Address(), args.Seed)
	if err != nil {
		return nil, err
	}
	vault, err := custody.Find(ProgramID, addr, args.Offered)
	if err != nil {
		return nil, err
	}
	esc := &Escrow{
		Address:   addr,
		Seed:      args.Seed,
		Maker:     maker.Address(),
		Offered:   args.Offered,
		Requested: args.Requested,
		Deposit:   args.Deposit,
		Receive:   args.Receive,
		Bump:      bump,
		VaultBump: vault.Bump,
	}
	auth, err := esc.authority()
	if err != nil {
		return nil, err
	}

	// the maker's proceeds land here on take
	if _, err := l.OpenHolding(maker, maker.Address(), args.Requested); err != nil {
		return nil, err
	}
	if err := l.CreateAccount(maker, auth, encode(esc)); err != nil {
		return nil, errors.Wrap(err, "error creating escrow")
	}
	if err := vault.Open(l, maker); err != nil {
		return nil, err
	}
	makerHolding := chain.AssociatedHoldingAddress(maker.Address(), args.Offered)
	if err := vault.Deposit(l, makerHolding, maker, args.Deposit); err != nil {
		return nil, err
	}

	logger.Info("made escrow", "escrow", addr, "maker", esc.Maker, "deposit", esc.Deposit, "receive", esc.Receive)
	return esc, nil
}

func LoadEscrow(l Ledger, addr *chain.Address) (*Escrow, error) {
	esc := new(Escrow)
	if err := load(l, addr, esc); err != nil {
		return nil, err
	}
	return esc, nil
}

// Take pays the maker the requested asset and releases the escrowed
// deposit to the taker.
func Take(l Ledger, addr *chain.Address, taker chain.Authority) (*Escrow, error) {
	esc, err := LoadEscrow(l, addr)
	if err != nil {
		return nil, err
	}
	auth, err := esc.authority()
	if err != nil {
		return nil, err
	}
	vault, err := esc.vault()
	if err != nil {
		return nil, err
	}

	takerPays := chain.AssociatedHoldingAddress(taker.Address(), esc.Requested)
	makerReceives := chain.AssociatedHoldingAddress(esc.Maker, esc.Requested)
	if err := l.TransferAsset(takerPays, makerReceives, taker, esc.Receive); err != nil {
		return nil, errors.Wrap(err, "error paying maker")
	}
	takerReceives, err := l.OpenHolding(taker, taker.Address(), esc.Offered)
	if err != nil {
		return nil, err
	}
	if err := settle(l, addr, auth, vault, takerReceives, esc.Deposit, esc.Maker); err != nil {
		return nil, err
	}

	logger.Info("took escrow", "escrow", addr, "taker", taker.Address())
	return esc, nil
}

// Refund cancels the escrow and returns the deposit to the maker.
func Refund(l Ledger, addr *chain.Address, maker chain.Authority) (*Escrow, error) {
	esc, err := LoadEscrow(l, addr)
	if err != nil {
		return nil, err
	}
	if !maker.Authorizes(esc.Maker) {
		return nil, errors.WithStack(ErrNotMaker)
	}
	auth, err := esc.authority()
	if err != nil {
		return nil, err
	}
	vault, err := esc.vault()
	if err != nil {
		return nil, err
	}
	makerHolding := chain.AssociatedHoldingAddress(esc.Maker, esc.Offered)
	if err := settle(l, addr, auth, vault, makerHolding, esc.Deposit, esc.Maker); err != nil {
		return nil, err
	}

	logger.Info("refunded escrow", "escrow", addr)
	return esc, nil
}

func ListEscrows(l Accounts) ([]*Escrow, error) {
	var out []*Escrow
	err := listTagged(l, escrowTag, func(acc *ledgerdb.Account) error {
		esc := new(Escrow)
		if err := decode(acc.Address, acc.Data, esc); err != nil {
			return err
		}
		out = append(out, esc)
		return nil
	})
	return out, err
}
