package itest

import (
	"github.com/btcsuite/btcd/btcec"
	"github.com/kurumiimari/vendue/api"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/ghttp"
	"github.com/kurumiimari/vendue/node"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"testing"
	"time"
)

type DaemonSuite struct {
	suite.Suite
	client  *api.Client
	cleanup func()
	seller  *btcec.PrivateKey
	bidder  *btcec.PrivateKey
	asset   *chain.Address
}

func (s *DaemonSuite) SetupTest() {
	t := s.T()
	s.client, s.cleanup = startDaemon(t)
	keys := importKeys(t, 2)
	s.seller, s.bidder = keys[0], keys[1]

	for _, k := range keys {
		require.NoError(t, s.client.Airdrop(addr(k), 100_000))
	}
	var err error
	s.asset, err = s.client.MintAsset(s.seller, "sculpture", 1)
	require.NoError(t, err)
}

func (s *DaemonSuite) TearDownTest() {
	s.cleanup()
}

func (s *DaemonSuite) TestStatus() {
	t := s.T()
	status, err := s.client.Status()
	require.NoError(t, err)
	require.Equal(t, "OK", status.Status)
	require.Equal(t, chain.NetworkRegtest.Name, status.Network)
	require.Equal(t, node.Version, status.Version)
}

func (s *DaemonSuite) TestKeeperFinalizesEndedAuction() {
	t := s.T()
	rec, err := s.client.CreateAuction(s.seller, &api.CreateAuctionReq{
		AuctionID:    7,
		AssetID:      s.asset,
		StartingBid:  10,
		DurationSecs: 2,
	})
	require.NoError(t, err)
	_, err = s.client.PlaceBid(s.bidder, &api.BidReq{
		Auction: rec.Address,
		Amount:  25,
	})
	require.NoError(t, err)

	deadline := time.Now().Add(5 * chain.NetworkRegtest.KeeperInterval)
	for {
		_, err = s.client.GetAuction(rec.Address)
		if httpErr, ok := err.(*ghttp.Error); ok && httpErr.StatusCode == 404 {
			break
		}
		require.True(t, time.Now().Before(deadline), "keeper did not finalize the auction")
		time.Sleep(200 * time.Millisecond)
	}

	info, err := s.client.Account(addr(s.bidder))
	require.NoError(t, err)
	require.Len(t, info.Holdings, 1)
	require.True(t, info.Holdings[0].AssetID.Equal(s.asset))
	require.EqualValues(t, 1, info.Holdings[0].Amount)
	require.EqualValues(t, 100_000-25-chain.NetworkRegtest.HoldingDeposit, info.Balance)
}

func (s *DaemonSuite) TestShelfSale() {
	t := s.T()
	item, err := s.client.ListShelfItem(s.seller, &api.ListShelfItemReq{
		Seed:    1,
		AssetID: s.asset,
		Price:   500,
	})
	require.NoError(t, err)

	before, err := s.client.Account(addr(s.seller))
	require.NoError(t, err)
	_, err = s.client.BuyShelfItem(s.bidder, item.Address)
	require.NoError(t, err)
	after, err := s.client.Account(addr(s.seller))
	require.NoError(t, err)
	require.Greater(t, after.Balance, before.Balance+499)
}

func TestDaemonSuite(t *testing.T) {
	suite.Run(t, new(DaemonSuite))
}
