package api

import (
	"github.com/kurumiimari/vendue/node"
	"github.com/pkg/errors"
	"net/http"
)

func (a *API) HandleAccountGET(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressVar(w, r)
	if !ok {
		return
	}
	info, err := a.node.Account(addr)
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	MarshalResponseJSON(w, info)
}

func (a *API) HandleAirdropPOST(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressVar(w, r)
	if !ok {
		return
	}
	req := new(AirdropReq)
	if !UnmarshalRequestJSON(w, r, req) {
		return
	}
	if err := a.node.Airdrop(addr, req.Amount); err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	w.WriteHeader(204)
}

func (a *API) HandleTransferPOST(w http.ResponseWriter, r *http.Request) {
	req := new(TransferReq)
	signed, ok := readSigned(w, r, node.OpTransfer, req)
	if !ok {
		return
	}
	if req.To == nil {
		MarshalErrorJSON(w, errors.New("must define a recipient"), 400)
		return
	}
	if err := a.node.Transfer(signed, req.To, req.Amount); err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	w.WriteHeader(204)
}

func (a *API) HandleMintAssetPOST(w http.ResponseWriter, r *http.Request) {
	req := new(MintAssetReq)
	signed, ok := readSigned(w, r, node.OpMintAsset, req)
	if !ok {
		return
	}
	if req.Label == "" {
		MarshalErrorJSON(w, errors.New("must define a label"), 400)
		return
	}
	id, err := a.node.MintAsset(signed, req.Label, req.Supply)
	if err != nil {
		MarshalDomainErrorJSON(w, err)
		return
	}
	MarshalResponseJSON(w, &MintAssetRes{AssetID: id})
}
