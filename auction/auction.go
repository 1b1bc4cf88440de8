package auction

import (
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/custody"
	"github.com/kurumiimari/vendue/ledger"
	"github.com/kurumiimari/vendue/ledgerdb"
	"github.com/kurumiimari/vendue/log"
	"github.com/pkg/errors"
	"time"
)

var (
	logger = log.ModuleLogger("auction")

	ProgramID = chain.NewProgramID("vendue/auction")
)

// Ledger is the host ledger as seen by the auction program. Every call
// made during one operation belongs to the same atomic unit.
type Ledger interface {
	custody.Ledger
	Now() time.Time
	AssetBalance(owner, asset *chain.Address) (uint64, error)
	TransferValue(from, to *chain.Address, auth chain.Authority, amount uint64) error
	CreateAccount(payer chain.Authority, record *chain.DerivedAuthority, data []byte) error
	ReadAccountData(addr *chain.Address) ([]byte, error)
	WriteAccountData(addr *chain.Address, data []byte) error
	CloseAccount(addr *chain.Address, auth chain.Authority, refundTo *chain.Address) error
}

type CreateArgs struct {
	AuctionID   uint64
	AssetID     *chain.Address
	StartingBid uint64
	Duration    time.Duration
	Cooldown    time.Duration
}

type FinalizeArgs struct {
	Auction *chain.Address
	Winner  *chain.Address
	Seller  *chain.Address
}

// Settlement describes how a finalized auction was resolved.
type Settlement struct {
	Auction  *chain.Address `json:"auction"`
	AssetID  *chain.Address `json:"asset_id"`
	Seller   *chain.Address `json:"seller"`
	Winner   *chain.Address `json:"winner"`
	Proceeds uint64         `json:"proceeds"`
}

// Create lists one unit of an asset held by seller. The asset moves from
// the seller's associated holding into a vault owned by the new record.
func Create(l Ledger, seller chain.Authority, args *CreateArgs) (*Record, error) {
	if args.Duration < 0 || args.Cooldown < 0 {
		return nil, errors.WithStack(ErrInvalidTiming)
	}

	bal, err := l.AssetBalance(seller.Address(), args.AssetID)
	if err != nil {
		return nil, err
	}
	if bal < 1 {
		return nil, errors.WithStack(ErrNotAssetOwner)
	}

	addr, bump, err := RecordAddress(seller.Address(), args.AssetID, args.AuctionID)
	if err != nil {
		return nil, err
	}
	vault, err := custody.Find(ProgramID, addr, args.AssetID)
	if err != nil {
		return nil, err
	}

	now := l.Now().Unix()
	rec := &Record{
		Address:    addr,
		AuctionID:  args.AuctionID,
		Seller:     seller.Address(),
		AssetID:    args.AssetID,
		HighestBid: args.StartingBid,
		StartTime:  now,
		EndTime:    now + int64(args.Duration/time.Second),
		Cooldown:   int64(args.Cooldown / time.Second),
		IsActive:   true,
		Bump:       bump,
		VaultBump:  vault.Bump,
	}
	auth, err := rec.authority()
	if err != nil {
		return nil, err
	}

	if err := l.CreateAccount(seller, auth, rec.Bytes()); err != nil {
		return nil, errors.Wrap(err, "error creating auction record")
	}
	if err := vault.Open(l, seller); err != nil {
		return nil, err
	}
	sellerHolding := chain.AssociatedHoldingAddress(seller.Address(), args.AssetID)
	if err := vault.Deposit(l, sellerHolding, seller, 1); err != nil {
		return nil, err
	}

	logger.Info(
		"created auction",
		"auction", addr,
		"seller", rec.Seller,
		"asset", rec.AssetID,
		"starting_bid", rec.HighestBid,
		"end_time", rec.EndTime,
	)
	return rec, nil
}

// Load reads the record at addr. A missing record is an inactive auction.
func Load(l Ledger, addr *chain.Address) (*Record, error) {
	data, err := l.ReadAccountData(addr)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, errors.Wrapf(ErrAuctionInactive, "no auction at %s", addr)
	}
	if err != nil {
		return nil, err
	}
	return DecodeRecord(addr, data)
}

// PlaceBid moves amount from bidder into the auction record and refunds
// the previous highest bid in the same unit.
func PlaceBid(l Ledger, addr *chain.Address, bidder chain.Authority, amount uint64, prev PreviousBidder) (*Record, error) {
	rec, err := Load(l, addr)
	if err != nil {
		return nil, err
	}

	prevBid := rec.HighestBid
	prevBidder := rec.HighestBidder
	isActive := rec.IsActive
	endTime := rec.EndTime
	cooldown := rec.Cooldown
	now := l.Now().Unix()

	if !isActive {
		return nil, errors.WithStack(ErrAuctionInactive)
	}
	if now >= endTime {
		return nil, errors.WithStack(ErrAuctionEnded)
	}
	if amount <= prevBid {
		return nil, errors.Wrapf(ErrBidTooLow, "highest bid is %d", prevBid)
	}

	if err := l.TransferValue(bidder.Address(), addr, bidder, amount); err != nil {
		return nil, errors.Wrap(err, "error escrowing bid")
	}

	if prevBidder != nil && prevBid > 0 {
		refundable, ok := prev.(Refundable)
		if !ok || !refundable.Address.Equal(prevBidder) {
			return nil, errors.WithStack(ErrInvalidPreviousBidder)
		}
		auth, err := rec.authority()
		if err != nil {
			return nil, err
		}
		if err := l.TransferValue(addr, prevBidder, auth, prevBid); err != nil {
			return nil, errors.Wrap(err, "error refunding previous bidder")
		}
	}

	rec.HighestBid = amount
	rec.HighestBidder = bidder.Address()
	if rec.EndTime < now+cooldown {
		rec.EndTime = now + cooldown
	}
	if err := l.WriteAccountData(addr, rec.Bytes()); err != nil {
		return nil, err
	}

	logger.Info(
		"placed bid",
		"auction", addr,
		"bidder", rec.HighestBidder,
		"amount", amount,
		"end_time", rec.EndTime,
	)
	return rec, nil
}

// Finalize resolves an ended auction and closes its vault and record.
// Anyone may call it. The asset returns to the seller when there is no
// winner; otherwise it goes to the winner and the winning bid to the
// seller.
func Finalize(l Ledger, args *FinalizeArgs) (*Settlement, error) {
	rec, err := Load(l, args.Auction)
	if err != nil {
		return nil, err
	}
	if !rec.IsActive {
		return nil, errors.WithStack(ErrAuctionInactive)
	}
	if l.Now().Unix() < rec.EndTime {
		return nil, errors.WithStack(ErrAuctionNotEnded)
	}
	if !rec.Seller.Equal(args.Seller) {
		return nil, errors.WithStack(ErrInvalidSellerAccount)
	}

	rec.IsActive = false
	if err := l.WriteAccountData(rec.Address, rec.Bytes()); err != nil {
		return nil, err
	}

	auth, err := rec.authority()
	if err != nil {
		return nil, err
	}
	vault, err := rec.vault()
	if err != nil {
		return nil, err
	}

	settlement := &Settlement{
		Auction: rec.Address,
		AssetID: rec.AssetID,
		Seller:  rec.Seller,
	}
	if !rec.HasBidder() || rec.HighestBid == 0 {
		sellerHolding := chain.AssociatedHoldingAddress(rec.Seller, rec.AssetID)
		if err := vault.Release(l, auth, sellerHolding, 1); err != nil {
			return nil, err
		}
	} else {
		if !rec.HighestBidder.Equal(args.Winner) {
			return nil, errors.WithStack(ErrInvalidWinnerAccount)
		}
		winnerHolding := chain.AssociatedHoldingAddress(rec.HighestBidder, rec.AssetID)
		if err := vault.Release(l, auth, winnerHolding, 1); err != nil {
			return nil, err
		}
		if err := l.TransferValue(rec.Address, rec.Seller, auth, rec.HighestBid); err != nil {
			return nil, errors.Wrap(err, "error paying seller")
		}
		settlement.Winner = rec.HighestBidder
		settlement.Proceeds = rec.HighestBid
	}

	if err := vault.Close(l, auth, rec.Seller); err != nil {
		return nil, err
	}
	if err := l.CloseAccount(rec.Address, auth, rec.Seller); err != nil {
		return nil, errors.Wrap(err, "error closing auction record")
	}

	logger.Info(
		"finalized auction",
		"auction", rec.Address,
		"winner", settlement.Winner,
		"proceeds", settlement.Proceeds,
	)
	return settlement, nil
}

// Accounts lists program accounts. It is satisfied by the host ledger.
type Accounts interface {
	ProgramAccounts(program *chain.Address) ([]*ledgerdb.Account, error)
}

// List returns every live auction record, optionally only active ones.
func List(l Accounts, activeOnly bool) ([]*Record, error) {
	accounts, err := l.ProgramAccounts(ProgramID)
	if err != nil {
		return nil, err
	}
	var out []*Record
	for _, acc := range accounts {
		rec, err := DecodeRecord(acc.Address, acc.Data)
		if err != nil {
			logger.Warning("skipping unreadable auction record", "address", acc.Address, "err", err)
			continue
		}
		if activeOnly && !rec.IsActive {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
