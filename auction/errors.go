package auction

import "github.com/pkg/errors"

var (
	ErrNotAssetOwner         = errors.New("seller does not hold the asset")
	ErrAuctionInactive       = errors.New("auction is not active")
	ErrAuctionEnded          = errors.New("auction has ended")
	ErrAuctionNotEnded       = errors.New("auction has not ended")
	ErrBidTooLow             = errors.New("bid must exceed the highest bid")
	ErrInvalidPreviousBidder = errors.New("previous bidder does not match the highest bidder")
	ErrInvalidWinnerAccount  = errors.New("winner does not match the highest bidder")
	ErrInvalidSellerAccount  = errors.New("seller does not match the auction seller")
	ErrInvalidTiming         = errors.New("invalid auction duration or cooldown")
	ErrMalformedRecord       = errors.New("mal-formed auction record")
)
