package auction

import "github.com/kurumiimari/vendue/chain"

// PreviousBidder names the refund target of a bid. It is either
// NoPreviousBidder or Refundable.
type PreviousBidder interface {
	previousBidder()
}

type NoPreviousBidder struct{}

func (NoPreviousBidder) previousBidder() {}

// Refundable is the address the current highest bid is returned to.
type Refundable struct {
	Address *chain.Address
}

func (Refundable) previousBidder() {}

// PreviousBidderFor returns the refund target a caller must supply to
// outbid the current highest bidder of rec.
func PreviousBidderFor(rec *Record) PreviousBidder {
	if !rec.HasBidder() {
		return NoPreviousBidder{}
	}
	return Refundable{Address: rec.HighestBidder}
}
