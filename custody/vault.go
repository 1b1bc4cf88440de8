package custody

import (
	"github.com/kurumiimari/vendue/chain"
	"github.com/pkg/errors"
)

const vaultSeed = "vault"

// Ledger is the part of the host ledger a vault needs.
type Ledger interface {
	CreateCustodialRecord(payer chain.Authority, vault *chain.DerivedAuthority, owner, asset *chain.Address) error
	TransferAsset(from, to *chain.Address, auth chain.Authority, amount uint64) error
	CloseCustodialRecord(addr *chain.Address, auth chain.Authority, refundTo *chain.Address) error
}

// Vault is a holding whose spending authority is the derived identity of
// an owning program record. No private key exists for either.
type Vault struct {
	Program *chain.Address
	Owner   *chain.Address
	AssetID *chain.Address
	Address *chain.Address
	Bump    uint8
}

// Find derives the vault for owner, searching for a viable bump.
func Find(program, owner, asset *chain.Address) (*Vault, error) {
	addr, bump, err := chain.FindDerivedAddress(program, []byte(vaultSeed), owner.Hash)
	if err != nil {
		return nil, errors.Wrap(err, "error deriving vault address")
	}
	return &Vault{
		Program: program,
		Owner:   owner,
		AssetID: asset,
		Address: addr,
		Bump:    bump,
	}, nil
}

// Load rebuilds a vault from a bump stored in the owning record.
func Load(program, owner, asset *chain.Address, bump uint8) (*Vault, error) {
	addr, err := chain.CreateDerivedAddress(program, bump, []byte(vaultSeed), owner.Hash)
	if err != nil {
		return nil, errors.Wrap(err, "error deriving vault address")
	}
	return &Vault{
		Program: program,
		Owner:   owner,
		AssetID: asset,
		Address: addr,
		Bump:    bump,
	}, nil
}

// Open creates the vault's holding record. payer funds its deposit.
func (v *Vault) Open(l Ledger, payer chain.Authority) error {
	auth, err := chain.NewDerivedAuthority(v.Program, v.Bump, []byte(vaultSeed), v.Owner.Hash)
	if err != nil {
		return err
	}
	if err := l.CreateCustodialRecord(payer, auth, v.Owner, v.AssetID); err != nil {
		return errors.Wrap(err, "error opening vault")
	}
	return nil
}

// Deposit moves amount of the vault's asset in from a holding authorized
// by auth.
func (v *Vault) Deposit(l Ledger, from *chain.Address, auth chain.Authority, amount uint64) error {
	if err := l.TransferAsset(from, v.Address, auth, amount); err != nil {
		return errors.Wrap(err, "error depositing into vault")
	}
	return nil
}

// Release moves amount out of the vault. owner must be the owning
// record's derived authority.
func (v *Vault) Release(l Ledger, owner *chain.DerivedAuthority, to *chain.Address, amount uint64) error {
	if err := l.TransferAsset(v.Address, to, owner, amount); err != nil {
		return errors.Wrap(err, "error releasing vault")
	}
	return nil
}

// Close deletes the empty vault and returns its deposit to refundTo.
func (v *Vault) Close(l Ledger, owner *chain.DerivedAuthority, refundTo *chain.Address) error {
	if err := l.CloseCustodialRecord(v.Address, owner, refundTo); err != nil {
		return errors.Wrap(err, "error closing vault")
	}
	return nil
}
