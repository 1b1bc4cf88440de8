package ledger

import (
	"database/sql"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/ledgerdb"
	"github.com/pkg/errors"
	"math"
)

func (l *Ledger) Holding(addr *chain.Address) (*ledgerdb.Holding, error) {
	h, err := ledgerdb.GetHolding(l.tx, addr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrHoldingNotFound, "holding %s", addr)
	}
	return h, err
}

func (l *Ledger) Holdings(owner *chain.Address) ([]*ledgerdb.Holding, error) {
	return ledgerdb.ListHoldingsByOwner(l.tx, owner)
}

func (l *Ledger) Asset(id *chain.Address) (*ledgerdb.Asset, error) {
	asset, err := ledgerdb.GetAsset(l.tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrAssetNotFound, "asset %s", id)
	}
	return asset, err
}

// AssetBalance returns the amount of asset in owner's associated holding.
func (l *Ledger) AssetBalance(owner, asset *chain.Address) (uint64, error) {
	h, err := l.Holding(chain.AssociatedHoldingAddress(owner, asset))
	if errors.Is(err, ErrHoldingNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if !h.AssetID.Equal(asset) {
		return 0, errors.WithStack(ErrAssetMismatch)
	}
	return h.Amount, nil
}

// OpenHolding creates owner's associated holding for asset if it does not
// exist yet. payer funds the holding deposit.
func (l *Ledger) OpenHolding(payer chain.Authority, owner, asset *chain.Address) (*chain.Address, error) {
	if err := l.writable(); err != nil {
		return nil, err
	}
	addr := chain.AssociatedHoldingAddress(owner, asset)
	_, err := l.Holding(addr)
	if err == nil {
		return addr, nil
	}
	if !errors.Is(err, ErrHoldingNotFound) {
		return nil, err
	}
	if err := l.createHolding(payer, addr, owner, asset); err != nil {
		return nil, err
	}
	return addr, nil
}

// CreateCustodialRecord creates an empty holding at vault's address whose
// spending authority is owner. The vault address must be derived by the
// invoking program.
func (l *Ledger) CreateCustodialRecord(payer chain.Authority, vault *chain.DerivedAuthority, owner, asset *chain.Address) error {
	if err := l.writable(); err != nil {
		return err
	}
	if err := l.authorize(vault, vault.Address()); err != nil {
		return err
	}
	_, err := l.Holding(vault.Address())
	if err == nil {
		return errors.Wrapf(ErrAccountExists, "holding %s", vault.Address())
	}
	if !errors.Is(err, ErrHoldingNotFound) {
		return err
	}
	return l.createHolding(payer, vault.Address(), owner, asset)
}

// CloseCustodialRecord deletes an empty custodial holding and returns its
// deposit to refundTo. auth must authorize the holding's owner.
func (l *Ledger) CloseCustodialRecord(addr *chain.Address, auth chain.Authority, refundTo *chain.Address) error {
	if err := l.writable(); err != nil {
		return err
	}
	h, err := l.Holding(addr)
	if err != nil {
		return err
	}
	if !h.Owner.IsDerived() {
		return errors.Wrapf(ErrUnauthorized, "holding %s is not custodial", addr)
	}
	if err := l.authorize(auth, h.Owner); err != nil {
		return err
	}
	if h.Amount != 0 {
		return errors.Wrapf(ErrHoldingNotEmpty, "holding %s has %d remaining", addr, h.Amount)
	}
	if err := ledgerdb.DeleteHolding(l.tx, addr); err != nil {
		return err
	}
	return l.credit(refundTo, h.Deposit)
}

// TransferAsset moves amount of an asset between two holdings of the same
// asset. auth must authorize the source holding's owner.
func (l *Ledger) TransferAsset(from, to *chain.Address, auth chain.Authority, amount uint64) error {
	if err := l.writable(); err != nil {
		return err
	}
	src, err := l.Holding(from)
	if err != nil {
		return err
	}
	if err := l.authorize(auth, src.Owner); err != nil {
		return err
	}
	dst, err := l.Holding(to)
	if err != nil {
		return err
	}
	if !src.AssetID.Equal(dst.AssetID) {
		return errors.Wrapf(ErrAssetMismatch, "cannot move %s into a %s holding", src.AssetID, dst.AssetID)
	}
	if amount > src.Amount {
		return errors.Wrapf(ErrInsufficientFunds, "holding %s has %d, needs %d", from, src.Amount, amount)
	}
	if from.Equal(to) {
		return nil
	}
	if dst.Amount > math.MaxInt64-amount {
		return errors.WithStack(ErrAmountOverflow)
	}
	if err := ledgerdb.UpdateHoldingAmount(l.tx, from, src.Amount-amount); err != nil {
		return err
	}
	if err := ledgerdb.UpdateHoldingAmount(l.tx, to, dst.Amount+amount); err != nil {
		return err
	}
	logger.Trace("transferred asset", "asset", src.AssetID, "from", from, "to", to, "amount", amount)
	return nil
}

// MintAsset registers a new asset issued by issuer and credits the whole
// supply to the issuer's associated holding.
func (l *Ledger) MintAsset(issuer chain.Authority, label string, supply uint64) (*chain.Address, error) {
	if err := l.writable(); err != nil {
		return nil, err
	}
	if err := l.authorizePayer(issuer); err != nil {
		return nil, err
	}
	if supply == 0 || supply > math.MaxInt64 {
		return nil, errors.Wrap(ErrAmountOverflow, "supply must be between 1 and 2^63-1")
	}
	id, err := chain.AssetID(issuer.Address(), label)
	if err != nil {
		return nil, err
	}
	_, err = l.Asset(id)
	if err == nil {
		return nil, errors.Wrapf(ErrAssetExists, "asset %s", label)
	}
	if !errors.Is(err, ErrAssetNotFound) {
		return nil, err
	}
	err = ledgerdb.InsertAsset(l.tx, &ledgerdb.Asset{
		ID:        id,
		Issuer:    issuer.Address(),
		Label:     label,
		Supply:    supply,
		CreatedAt: l.now.Unix(),
	})
	if err != nil {
		return nil, err
	}
	holding, err := l.OpenHolding(issuer, issuer.Address(), id)
	if err != nil {
		return nil, err
	}
	if err := ledgerdb.UpdateHoldingAmount(l.tx, holding, supply); err != nil {
		return nil, err
	}
	logger.Info("minted asset", "id", id, "issuer", issuer.Address(), "label", label, "supply", supply)
	return id, nil
}

func (l *Ledger) createHolding(payer chain.Authority, addr, owner, asset *chain.Address) error {
	if _, err := l.Asset(asset); err != nil {
		return err
	}
	if err := l.authorizePayer(payer); err != nil {
		return err
	}
	deposit := l.network.HoldingDeposit
	if err := l.debit(payer.Address(), deposit); err != nil {
		return errors.Wrap(err, "error funding holding deposit")
	}
	return ledgerdb.InsertHolding(l.tx, &ledgerdb.Holding{
		Address: addr,
		Owner:   owner,
		AssetID: asset,
		Deposit: deposit,
	})
}
