package api

import (
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/escrow"
	"github.com/kurumiimari/vendue/node"
	"github.com/pkg/errors"
	"net/http"
)

func (a *API) HandleEscrowsGET(w http.ResponseWriter, r *http.Request) {
	escrows, err := a.node.ListEscrows()
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	start, end := pageBounds(r.URL.Query(), len(escrows))
	MarshalResponseJSON(w, escrows[start:end])
}

func (a *API) HandleEscrowsPOST(w http.ResponseWriter, r *http.Request) {
	req := new(MakeEscrowReq)
	signed, ok := readSigned(w, r, node.OpMakeEscrow, req)
	if !ok {
		return
	}
	if req.Offered == nil || req.Requested == nil {
		MarshalErrorJSON(w, errors.New("must define offered and requested assets"), 400)
		return
	}
	esc, err := a.node.MakeEscrow(signed, &escrow.MakeArgs{
		Seed:      req.Seed,
		Offered:   req.Offered,
		Requested: req.Requested,
		Deposit:   req.Deposit,
		Receive:   req.Receive,
	})
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	MarshalResponseJSON(w, esc)
}

func (a *API) HandleEscrowGET(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressVar(w, r)
	if !ok {
		return
	}
	esc, err := a.node.GetEscrow(addr)
	if errors.Is(err, escrow.ErrListingClosed) {
		MarshalErrorJSON(w, err, 404)
		return
	}
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	MarshalResponseJSON(w, esc)
}

func (a *API) HandleEscrowTakePOST(w http.ResponseWriter, r *http.Request) {
	a.handleEscrowAction(w, r, node.OpTakeEscrow, a.node.TakeEscrow)
}

func (a *API) HandleEscrowRefundPOST(w http.ResponseWriter, r *http.Request) {
	a.handleEscrowAction(w, r, node.OpRefundEscrow, a.node.RefundEscrow)
}

func (a *API) handleEscrowAction(w http.ResponseWriter, r *http.Request, op string, action func(*node.Signed, *chain.Address) (*escrow.Escrow, error)) {
	addr, ok := addressVar(w, r)
	if !ok {
		return
	}
	req := new(EscrowActionReq)
	signed, ok := readSigned(w, r, op, req)
	if !ok {
		return
	}
	if !requireTarget(w, req.Escrow, addr) {
		return
	}
	esc, err := action(signed, addr)
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	MarshalResponseJSON(w, esc)
}

func (a *API) HandleShelfGET(w http.ResponseWriter, r *http.Request) {
	items, err := a.node.ListShelfItems()
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	start, end := pageBounds(r.URL.Query(), len(items))
	MarshalResponseJSON(w, items[start:end])
}

func (a *API) HandleShelfPOST(w http.ResponseWriter, r *http.Request) {
	req := new(ListShelfItemReq)
	signed, ok := readSigned(w, r, node.OpListShelfItem, req)
	if !ok {
		return
	}
	if req.AssetID == nil {
		MarshalErrorJSON(w, errors.New("must define an asset"), 400)
		return
	}
	item, err := a.node.ListShelfItem(signed, &escrow.ListArgs{
		Seed:    req.Seed,
		AssetID: req.AssetID,
		Price:   req.Price,
	})
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	MarshalResponseJSON(w, item)
}

func (a *API) HandleShelfItemGET(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressVar(w, r)
	if !ok {
		return
	}
	item, err := a.node.GetShelfItem(addr)
	if errors.Is(err, escrow.ErrListingClosed) {
		MarshalErrorJSON(w, err, 404)
		return
	}
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	MarshalResponseJSON(w, item)
}

func (a *API) HandleShelfBuyPOST(w http.ResponseWriter, r *http.Request) {
	a.handleShelfAction(w, r, node.OpBuyShelfItem, a.node.BuyShelfItem)
}

func (a *API) HandleShelfDelistPOST(w http.ResponseWriter, r *http.Request) {
	a.handleShelfAction(w, r, node.OpDelistShelfItem, a.node.DelistShelfItem)
}

func (a *API) handleShelfAction(w http.ResponseWriter, r *http.Request, op string, action func(*node.Signed, *chain.Address) (*escrow.ShelfItem, error)) {
	addr, ok := addressVar(w, r)
	if !ok {
		return
	}
	req := new(ShelfActionReq)
	signed, ok := readSigned(w, r, op, req)
	if !ok {
		return
	}
	if !requireTarget(w, req.Item, addr) {
		return
	}
	item, err := action(signed, addr)
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	MarshalResponseJSON(w, item)
}
