package api

import (
	"encoding/json"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/gjson"
)

// SignedRequest is the body of every mutating call. Args is signed
// byte-for-byte, so it must reach the server exactly as the client
// serialized it.
type SignedRequest struct {
	Signer    gjson.ByteString `json:"signer"`
	Nonce     string           `json:"nonce"`
	Args      json.RawMessage  `json:"args"`
	Signature gjson.ByteString `json:"signature"`
}

// Instruction rebuilds the signed envelope for the route's op.
func (s *SignedRequest) Instruction(op string) *chain.Instruction {
	return &chain.Instruction{
		Op:     op,
		Args:   s.Args,
		Signer: s.Signer,
		Nonce:  s.Nonce,
	}
}

type AirdropReq struct {
	Amount uint64 `json:"amount"`
}

type TransferReq struct {
	To     *chain.Address `json:"to"`
	Amount uint64         `json:"amount"`
}

type MintAssetReq struct {
	Label  string `json:"label"`
	Supply uint64 `json:"supply"`
}

type MintAssetRes struct {
	AssetID *chain.Address `json:"asset_id"`
}

type CreateAuctionReq struct {
	AuctionID    uint64         `json:"auction_id"`
	AssetID      *chain.Address `json:"asset_id"`
	StartingBid  uint64         `json:"starting_bid"`
	DurationSecs int64          `json:"duration_secs"`
	CooldownSecs int64          `json:"cooldown_secs"`
}

// BidReq names the auction it targets so that a signature for one
// auction cannot be replayed against another. PreviousBidder is the
// refund target and may be omitted on a first bid.
//
// A bidder without a holding for the auctioned asset is also charged the
// network's HoldingDeposit on their first bid, on top of Amount.
type BidReq struct {
	Auction        *chain.Address `json:"auction"`
	Amount         uint64         `json:"amount"`
	PreviousBidder *chain.Address `json:"previous_bidder"`
}

type FinalizeReq struct {
	Winner *chain.Address `json:"winner"`
	Seller *chain.Address `json:"seller"`
}

type MakeEscrowReq struct {
	Seed      uint64         `json:"seed"`
	Offered   *chain.Address `json:"offered"`
	Requested *chain.Address `json:"requested"`
	Deposit   uint64         `json:"deposit"`
	Receive   uint64         `json:"receive"`
}

type EscrowActionReq struct {
	Escrow *chain.Address `json:"escrow"`
}

type ListShelfItemReq struct {
	Seed    uint64         `json:"seed"`
	AssetID *chain.Address `json:"asset_id"`
	Price   uint64         `json:"price"`
}

type ShelfActionReq struct {
	Item *chain.Address `json:"item"`
}
