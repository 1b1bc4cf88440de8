package api

import (
	"encoding/json"
	"fmt"
	"github.com/btcsuite/btcd/btcec"
	"github.com/google/uuid"
	"github.com/kurumiimari/vendue/auction"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/escrow"
	"github.com/kurumiimari/vendue/ghttp"
	"github.com/kurumiimari/vendue/node"
	"github.com/pkg/errors"
	"strconv"
)

type Client struct {
	url    string
	apiKey string
	http   *ghttp.HTTPClient
}

func NewClient(url, apiKey string) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		http:   ghttp.DefaultClient,
	}
}

// SignRequest serializes args and signs them for op under a fresh nonce.
func SignRequest(priv *btcec.PrivateKey, op string, args interface{}) (*SignedRequest, error) {
	argsJ, err := json.Marshal(args)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	ins := &chain.Instruction{
		Op:     op,
		Args:   argsJ,
		Signer: priv.PubKey().SerializeCompressed(),
		Nonce:  uuid.NewString(),
	}
	sig, err := ins.Sign(priv)
	if err != nil {
		return nil, err
	}
	return &SignedRequest{
		Signer:    ins.Signer,
		Nonce:     ins.Nonce,
		Args:      argsJ,
		Signature: sig,
	}, nil
}

func (c *Client) Status() (*node.NodeStatus, error) {
	res := new(node.NodeStatus)
	if err := c.doGet("status", res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Account(addr *chain.Address) (*node.AccountInfo, error) {
	res := new(node.AccountInfo)
	if err := c.doGet(fmt.Sprintf("accounts/%s", addr), res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) Airdrop(addr *chain.Address, amount uint64) error {
	return c.doPost(fmt.Sprintf("accounts/%s/airdrop", addr), &AirdropReq{Amount: amount}, nil)
}

func (c *Client) Transfer(priv *btcec.PrivateKey, to *chain.Address, amount uint64) error {
	return c.PostSigned("transfers", priv, node.OpTransfer, &TransferReq{
		To:     to,
		Amount: amount,
	}, nil)
}

func (c *Client) MintAsset(priv *btcec.PrivateKey, label string, supply uint64) (*chain.Address, error) {
	res := new(MintAssetRes)
	err := c.PostSigned("assets", priv, node.OpMintAsset, &MintAssetReq{
		Label:  label,
		Supply: supply,
	}, res)
	if err != nil {
		return nil, err
	}
	return res.AssetID, nil
}

func (c *Client) CreateAuction(priv *btcec.PrivateKey, req *CreateAuctionReq) (*auction.Record, error) {
	res := new(auction.Record)
	if err := c.PostSigned("auctions", priv, node.OpCreateAuction, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) PlaceBid(priv *btcec.PrivateKey, req *BidReq) (*auction.Record, error) {
	res := new(auction.Record)
	if err := c.PostSigned(fmt.Sprintf("auctions/%s/bids", req.Auction), priv, node.OpPlaceBid, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) FinalizeAuction(addr *chain.Address, req *FinalizeReq) (*auction.Settlement, error) {
	res := new(auction.Settlement)
	if err := c.doPost(fmt.Sprintf("auctions/%s/finalize", addr), req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetAuction(addr *chain.Address) (*auction.Record, error) {
	res := new(auction.Record)
	if err := c.doGet(fmt.Sprintf("auctions/%s", addr), res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ListAuctions(activeOnly bool, count, offset int) ([]*auction.Record, error) {
	query := PaginationQuery(count, offset)
	query.Set("active", strconv.FormatBool(activeOnly))
	var res []*auction.Record
	if err := c.doGet(fmt.Sprintf("auctions?%s", query.Encode()), &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) MakeEscrow(priv *btcec.PrivateKey, req *MakeEscrowReq) (*escrow.Escrow, error) {
	res := new(escrow.Escrow)
	if err := c.PostSigned("escrows", priv, node.OpMakeEscrow, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) TakeEscrow(priv *btcec.PrivateKey, addr *chain.Address) (*escrow.Escrow, error) {
	res := new(escrow.Escrow)
	err := c.PostSigned(fmt.Sprintf("escrows/%s/take", addr), priv, node.OpTakeEscrow, &EscrowActionReq{Escrow: addr}, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) RefundEscrow(priv *btcec.PrivateKey, addr *chain.Address) (*escrow.Escrow, error) {
	res := new(escrow.Escrow)
	err := c.PostSigned(fmt.Sprintf("escrows/%s/refund", addr), priv, node.OpRefundEscrow, &EscrowActionReq{Escrow: addr}, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetEscrow(addr *chain.Address) (*escrow.Escrow, error) {
	res := new(escrow.Escrow)
	if err := c.doGet(fmt.Sprintf("escrows/%s", addr), res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ListEscrows(count, offset int) ([]*escrow.Escrow, error) {
	var res []*escrow.Escrow
	if err := c.doGet(fmt.Sprintf("escrows?%s", PaginationQuery(count, offset).Encode()), &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ListShelfItem(priv *btcec.PrivateKey, req *ListShelfItemReq) (*escrow.ShelfItem, error) {
	res := new(escrow.ShelfItem)
	if err := c.PostSigned("shelf", priv, node.OpListShelfItem, req, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) BuyShelfItem(priv *btcec.PrivateKey, addr *chain.Address) (*escrow.ShelfItem, error) {
	res := new(escrow.ShelfItem)
	err := c.PostSigned(fmt.Sprintf("shelf/%s/buy", addr), priv, node.OpBuyShelfItem, &ShelfActionReq{Item: addr}, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) DelistShelfItem(priv *btcec.PrivateKey, addr *chain.Address) (*escrow.ShelfItem, error) {
	res := new(escrow.ShelfItem)
	err := c.PostSigned(fmt.Sprintf("shelf/%s/delist", addr), priv, node.OpDelistShelfItem, &ShelfActionReq{Item: addr}, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) GetShelfItem(addr *chain.Address) (*escrow.ShelfItem, error) {
	res := new(escrow.ShelfItem)
	if err := c.doGet(fmt.Sprintf("shelf/%s", addr), res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) ListShelfItems(count, offset int) ([]*escrow.ShelfItem, error) {
	var res []*escrow.ShelfItem
	if err := c.doGet(fmt.Sprintf("shelf?%s", PaginationQuery(count, offset).Encode()), &res); err != nil {
		return nil, err
	}
	return res, nil
}

// PostSigned signs body for op and posts it to path.
func (c *Client) PostSigned(path string, priv *btcec.PrivateKey, op string, body interface{}, res interface{}) error {
	req, err := SignRequest(priv, op, body)
	if err != nil {
		return err
	}
	return c.doPost(path, req, res)
}

func (c *Client) doGet(path string, res interface{}) error {
	return c.http.DoGetJSON(
		c.endpoint(path),
		res,
		ghttp.WithHeader(APIKeyHeader, c.apiKey),
	)
}

func (c *Client) doPost(path string, body interface{}, res interface{}) error {
	return c.http.DoPostJSON(
		c.endpoint(path),
		body,
		res,
		ghttp.WithHeader(APIKeyHeader, c.apiKey),
	)
}

func (c *Client) endpoint(path string) string {
	return fmt.Sprintf("%s/api/v1/%s", c.url, path)
}
