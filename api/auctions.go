package api

import (
	"github.com/kurumiimari/vendue/auction"
	"github.com/kurumiimari/vendue/node"
	"github.com/pkg/errors"
	"net/http"
)

func (a *API) HandleAuctionsGET(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	recs, err := a.node.ListAuctions(GetBoolFromQuery(query, "active", false))
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	start, end := pageBounds(query, len(recs))
	MarshalResponseJSON(w, recs[start:end])
}

func (a *API) HandleAuctionsPOST(w http.ResponseWriter, r *http.Request) {
	req := new(CreateAuctionReq)
	signed, ok := readSigned(w, r, node.OpCreateAuction, req)
	if !ok {
		return
	}
	if req.AssetID == nil {
		MarshalErrorJSON(w, errors.New("must define an asset"), 400)
		return
	}
	duration, err := secondsDuration(req.DurationSecs)
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	cooldown, err := secondsDuration(req.CooldownSecs)
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	rec, err := a.node.CreateAuction(signed, &auction.CreateArgs{
		AuctionID:   req.AuctionID,
		AssetID:     req.AssetID,
		StartingBid: req.StartingBid,
		Duration:    duration,
		Cooldown:    cooldown,
	})
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	MarshalResponseJSON(w, rec)
}

func (a *API) HandleAuctionGET(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressVar(w, r)
	if !ok {
		return
	}
	rec, err := a.node.GetAuction(addr)
	if errors.Is(err, auction.ErrAuctionInactive) {
		MarshalErrorJSON(w, err, 404)
		return
	}
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	MarshalResponseJSON(w, rec)
}

func (a *API) HandleBidPOST(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressVar(w, r)
	if !ok {
		return
	}
	req := new(BidReq)
	signed, ok := readSigned(w, r, node.OpPlaceBid, req)
	if !ok {
		return
	}
	if !requireTarget(w, req.Auction, addr) {
		return
	}

	var prev auction.PreviousBidder = auction.NoPreviousBidder{}
	if req.PreviousBidder != nil {
		prev = auction.Refundable{Address: req.PreviousBidder}
	}
	rec, err := a.node.PlaceBid(signed, addr, req.Amount, prev)
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	MarshalResponseJSON(w, rec)
}

// HandleFinalizePOST is unsigned. Anyone may settle an ended auction.
func (a *API) HandleFinalizePOST(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressVar(w, r)
	if !ok {
		return
	}
	req := new(FinalizeReq)
	if !UnmarshalRequestJSON(w, r, req) {
		return
	}
	if req.Seller == nil {
		MarshalErrorJSON(w, errors.New("must define the seller"), 400)
		return
	}
	settlement, err := a.node.FinalizeAuction(nil, &auction.FinalizeArgs{
		Auction: addr,
		Winner:  req.Winner,
		Seller:  req.Seller,
	})
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	MarshalResponseJSON(w, settlement)
}
