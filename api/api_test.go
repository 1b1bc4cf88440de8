package api

import (
	"fmt"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/ghttp"
	"github.com/kurumiimari/vendue/node"
	"github.com/kurumiimari/vendue/testutil"
	"github.com/stretchr/testify/require"
	"gopkg.in/tomb.v2"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type testServer struct {
	client *Client
	clock  *testutil.FakeClock
	url    string
}

func newTestServer(t *testing.T, apiKey string) *testServer {
	clock := testutil.NewFakeClock()
	n := node.NewNode(new(tomb.Tomb), chain.NetworkRegtest, testutil.NewEngine(t), clock.Now)
	srv := httptest.NewServer(NewAPI(chain.NetworkRegtest, n, apiKey))
	t.Cleanup(srv.Close)
	return &testServer{
		client: NewClient(srv.URL, apiKey),
		clock:  clock,
		url:    srv.URL,
	}
}

func requireStatus(t *testing.T, err error, code int) {
	require.Error(t, err)
	httpErr, ok := err.(*ghttp.Error)
	require.True(t, ok, "expected an HTTP error, got %v", err)
	require.Equal(t, code, httpErr.StatusCode, httpErr.Message())
}

func TestAPI_Status(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "")
	status, err := ts.client.Status()
	require.NoError(t, err)
	require.Equal(t, "OK", status.Status)
	require.Equal(t, chain.NetworkRegtest.Name, status.Network)
	require.Equal(t, node.Version, status.Version)
}

func TestAPI_RequestID(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "")
	res, err := http.Get(ts.url + "/api/v1/status")
	require.NoError(t, err)
	res.Body.Close()
	require.NotEmpty(t, res.Header.Get(RequestIDHeader))

	req, err := http.NewRequest("GET", ts.url+"/api/v1/status", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, "abc", res.Header.Get(RequestIDHeader))
}

func TestAPI_APIKey(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "secret")
	_, err := ts.client.Status()
	require.NoError(t, err)

	_, err = NewClient(ts.url, "wrong").Status()
	requireStatus(t, err, 401)
	_, err = NewClient(ts.url, "").Status()
	requireStatus(t, err, 401)
}

func TestAPI_Metrics(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "")
	res, err := http.Get(ts.url + "/metrics")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, 200, res.StatusCode)
}

func TestAPI_Airdrop(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "")
	alice := testutil.NewSigner(t)
	require.NoError(t, ts.client.Airdrop(alice.Address(), 500))

	info, err := ts.client.Account(alice.Address())
	require.NoError(t, err)
	require.EqualValues(t, 500, info.Balance)
	require.True(t, info.Address.Equal(alice.Address()))

	res, err := http.Get(ts.url + "/api/v1/accounts/not-an-address")
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, 400, res.StatusCode)
}

func TestAPI_SignedRequests(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "")
	alice := testutil.NewSigner(t)
	bob := testutil.NewSigner(t)
	require.NoError(t, ts.client.Airdrop(alice.Address(), 1000))

	tests := []struct {
		name   string
		mutate func(req *SignedRequest)
		code   int
	}{
		{
			"tampered args",
			func(req *SignedRequest) {
				req.Args = []byte(fmt.Sprintf(`{"to":"%s","amount":999}`, bob.Address()))
			},
			401,
		},
		{
			"truncated signature",
			func(req *SignedRequest) {
				req.Signature = req.Signature[:10]
			},
			401,
		},
		{
			"tampered nonce",
			func(req *SignedRequest) {
				req.Nonce = "other"
			},
			401,
		},
		{
			"mal-formed signer",
			func(req *SignedRequest) {
				req.Signer = []byte{0x02, 0x01}
			},
			401,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d-%s", i, tt.name), func(t *testing.T) {
			req, err := SignRequest(alice.Priv, node.OpTransfer, &TransferReq{To: bob.Address(), Amount: 10})
			require.NoError(t, err)
			tt.mutate(req)
			requireStatus(t, ts.client.doPost("transfers", req, nil), tt.code)
		})
	}

	req, err := SignRequest(alice.Priv, node.OpTransfer, &TransferReq{To: bob.Address(), Amount: 10})
	require.NoError(t, err)
	require.NoError(t, ts.client.doPost("transfers", req, nil))
	requireStatus(t, ts.client.doPost("transfers", req, nil), 409)

	// signed for a different route
	req, err = SignRequest(alice.Priv, node.OpMintAsset, &TransferReq{To: bob.Address(), Amount: 10})
	require.NoError(t, err)
	requireStatus(t, ts.client.doPost("transfers", req, nil), 401)

	info, err := ts.client.Account(bob.Address())
	require.NoError(t, err)
	require.EqualValues(t, 10, info.Balance)
}

func TestAPI_AuctionFlow(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "")
	c := ts.client
	seller := testutil.NewSigner(t)
	bob := testutil.NewSigner(t)
	carol := testutil.NewSigner(t)
	for _, s := range []*testutil.Signer{seller, bob, carol} {
		require.NoError(t, c.Airdrop(s.Address(), 10_000))
	}

	assetID, err := c.MintAsset(seller.Priv, "painting", 1)
	require.NoError(t, err)

	sellerBefore, err := c.Account(seller.Address())
	require.NoError(t, err)

	// durations that would wrap time.Duration are refused before the
	// asset moves
	for _, req := range []*CreateAuctionReq{
		{AuctionID: 1, AssetID: assetID, StartingBid: 50, DurationSecs: 18446744074},
		{AuctionID: 1, AssetID: assetID, StartingBid: 50, DurationSecs: 3600, CooldownSecs: math.MaxInt64},
	} {
		_, err := c.CreateAuction(seller.Priv, req)
		requireStatus(t, err, 400)
	}

	rec, err := c.CreateAuction(seller.Priv, &CreateAuctionReq{
		AuctionID:    1,
		AssetID:      assetID,
		StartingBid:  50,
		DurationSecs: 3600,
		CooldownSecs: 60,
	})
	require.NoError(t, err)
	require.True(t, rec.IsActive)

	_, err = c.PlaceBid(bob.Priv, &BidReq{Auction: rec.Address, Amount: 50})
	requireStatus(t, err, 400)

	_, err = c.PlaceBid(bob.Priv, &BidReq{Auction: rec.Address, Amount: 100})
	require.NoError(t, err)

	_, err = c.PlaceBid(carol.Priv, &BidReq{Auction: rec.Address, Amount: 150, PreviousBidder: seller.Address()})
	requireStatus(t, err, 400)

	rec, err = c.PlaceBid(carol.Priv, &BidReq{Auction: rec.Address, Amount: 150, PreviousBidder: bob.Address()})
	require.NoError(t, err)
	require.True(t, rec.HighestBidder.Equal(carol.Address()))
	require.EqualValues(t, 150, rec.HighestBid)

	// signed for one auction, posted to another
	other, _, err := chain.FindDerivedAddress(chain.NewProgramID("other"), []byte("x"))
	require.NoError(t, err)
	req, err := SignRequest(bob.Priv, node.OpPlaceBid, &BidReq{Auction: other, Amount: 500})
	require.NoError(t, err)
	requireStatus(t, c.doPost(fmt.Sprintf("auctions/%s/bids", rec.Address), req, nil), 400)

	list, err := c.ListAuctions(true, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	list, err = c.ListAuctions(false, math.MaxInt64, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	list, err = c.ListAuctions(false, math.MaxInt64, 1)
	require.NoError(t, err)
	require.Len(t, list, 0)

	_, err = c.FinalizeAuction(rec.Address, &FinalizeReq{Winner: carol.Address(), Seller: seller.Address()})
	requireStatus(t, err, 409)

	ts.clock.Advance(time.Hour)
	_, err = c.PlaceBid(bob.Priv, &BidReq{Auction: rec.Address, Amount: 500, PreviousBidder: carol.Address()})
	requireStatus(t, err, 409)

	settlement, err := c.FinalizeAuction(rec.Address, &FinalizeReq{Winner: carol.Address(), Seller: seller.Address()})
	require.NoError(t, err)
	require.EqualValues(t, 150, settlement.Proceeds)
	require.True(t, settlement.Winner.Equal(carol.Address()))

	_, err = c.GetAuction(rec.Address)
	requireStatus(t, err, 404)

	sellerAfter, err := c.Account(seller.Address())
	require.NoError(t, err)
	require.Equal(t, sellerBefore.Balance+150, sellerAfter.Balance)

	carolInfo, err := c.Account(carol.Address())
	require.NoError(t, err)
	require.Len(t, carolInfo.Holdings, 1)
	require.EqualValues(t, 1, carolInfo.Holdings[0].Amount)
	require.Equal(t, "painting", carolInfo.Holdings[0].Label)

	bobInfo, err := c.Account(bob.Address())
	require.NoError(t, err)
	require.Equal(t, 10_000-chain.NetworkRegtest.HoldingDeposit, bobInfo.Balance)
}

func TestAPI_EscrowAndShelf(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "")
	c := ts.client
	maker := testutil.NewSigner(t)
	taker := testutil.NewSigner(t)
	for _, s := range []*testutil.Signer{maker, taker} {
		require.NoError(t, c.Airdrop(s.Address(), 10_000))
	}

	gold, err := c.MintAsset(maker.Priv, "gold", 100)
	require.NoError(t, err)
	silver, err := c.MintAsset(taker.Priv, "silver", 100)
	require.NoError(t, err)

	esc, err := c.MakeEscrow(maker.Priv, &MakeEscrowReq{
		Seed:      1,
		Offered:   gold,
		Requested: silver,
		Deposit:   10,
		Receive:   20,
	})
	require.NoError(t, err)

	_, err = c.RefundEscrow(taker.Priv, esc.Address)
	requireStatus(t, err, 403)

	_, err = c.TakeEscrow(taker.Priv, esc.Address)
	require.NoError(t, err)
	_, err = c.GetEscrow(esc.Address)
	requireStatus(t, err, 404)

	item, err := c.ListShelfItem(maker.Priv, &ListShelfItemReq{Seed: 2, AssetID: gold, Price: 300})
	require.NoError(t, err)

	items, err := c.ListShelfItems(10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = c.DelistShelfItem(taker.Priv, item.Address)
	requireStatus(t, err, 403)

	_, err = c.BuyShelfItem(taker.Priv, item.Address)
	require.NoError(t, err)
	_, err = c.BuyShelfItem(taker.Priv, item.Address)
	requireStatus(t, err, 409)
}

func TestAPI_FaucetRateLimit(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "")
	alice := testutil.NewSigner(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, ts.client.Airdrop(alice.Address(), 1))
	}
	requireStatus(t, ts.client.Airdrop(alice.Address(), 1), 429)
}
