package escrow

import (
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/ledger"
	"github.com/kurumiimari/vendue/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"testing"
)

const startingFunds = 10_000

type EscrowSuite struct {
	suite.Suite
	host      *ledger.Host
	maker     *testutil.Signer
	taker     *testutil.Signer
	offered   *chain.Address
	requested *chain.Address
}

func (s *EscrowSuite) SetupTest() {
	t := s.T()
	s.host = ledger.NewHost(testutil.NewEngine(t), chain.NetworkRegtest, testutil.NewFakeClock().Now)
	s.maker = testutil.NewSigner(t)
	s.taker = testutil.NewSigner(t)

	require.NoError(t, s.host.Execute(nil, func(l *ledger.Ledger) error {
		require.NoError(t, l.Airdrop(s.maker.Address(), startingFunds))
		require.NoError(t, l.Airdrop(s.taker.Address(), startingFunds))
		var err error
		s.offered, err = l.MintAsset(s.maker.Authority(t), "gold", 100)
		require.NoError(t, err)
		s.requested, err = l.MintAsset(s.taker.Authority(t), "silver", 100)
		require.NoError(t, err)
		return nil
	}))
}

func (s *EscrowSuite) exec(cb func(l *ledger.Ledger) error) error {
	return s.host.Execute(ProgramID, cb)
}

func (s *EscrowSuite) assetBalance(owner, asset *chain.Address) uint64 {
	var bal uint64
	require.NoError(s.T(), s.host.View(func(l *ledger.Ledger) error {
		var err error
		bal, err = l.AssetBalance(owner, asset)
		return err
	}))
	return bal
}

func (s *EscrowSuite) balance(addr *chain.Address) uint64 {
	var bal uint64
	require.NoError(s.T(), s.host.View(func(l *ledger.Ledger) error {
		var err error
		bal, err = l.Balance(addr)
		return err
	}))
	return bal
}

func (s *EscrowSuite) make(deposit, receive uint64) (*Escrow, error) {
	var esc *Escrow
	err := s.exec(func(l *ledger.Ledger) error {
		var err error
		esc, err = Make(l, s.maker.Authority(s.T()), &MakeArgs{
			Seed:      1,
			Offered:   s.offered,
			Requested: s.requested,
			Deposit:   deposit,
			Receive:   receive,
		})
		return err
	})
	return esc, err
}

func (s *EscrowSuite) TestMake_Validation() {
	t := s.T()
	_, err := s.make(0, 10)
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = s.make(10, 0)
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = s.make(101, 10)
	require.ErrorIs(t, err, ErrNotAssetOwner)
}

func (s *EscrowSuite) TestTake() {
	t := s.T()
	esc, err := s.make(30, 20)
	require.NoError(t, err)
	require.EqualValues(t, 70, s.assetBalance(s.maker.Address(), s.offered))

	require.NoError(t, s.exec(func(l *ledger.Ledger) error {
		_, err := Take(l, esc.Address, s.taker.Authority(t))
		return err
	}))

	require.EqualValues(t, 20, s.assetBalance(s.maker.Address(), s.requested))
	require.EqualValues(t, 80, s.assetBalance(s.taker.Address(), s.requested))
	require.EqualValues(t, 30, s.assetBalance(s.taker.Address(), s.offered))

	err = s.exec(func(l *ledger.Ledger) error {
		_, err := Take(l, esc.Address, s.taker.Authority(t))
		return err
	})
	require.ErrorIs(t, err, ErrListingClosed)
}

func (s *EscrowSuite) TestTake_InsufficientRequested() {
	t := s.T()
	esc, err := s.make(30, 200)
	require.NoError(t, err)

	err = s.exec(func(l *ledger.Ledger) error {
		_, err := Take(l, esc.Address, s.taker.Authority(t))
		return err
	})
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	require.Zero(t, s.assetBalance(s.taker.Address(), s.offered))
}

func (s *EscrowSuite) TestRefund() {
	t := s.T()
	before := s.balance(s.maker.Address())
	esc, err := s.make(30, 20)
	require.NoError(t, err)

	err = s.exec(func(l *ledger.Ledger) error {
		_, err := Refund(l, esc.Address, s.taker.Authority(t))
		return err
	})
	require.ErrorIs(t, err, ErrNotMaker)

	require.NoError(t, s.exec(func(l *ledger.Ledger) error {
		_, err := Refund(l, esc.Address, s.maker.Authority(t))
		return err
	}))
	require.EqualValues(t, 100, s.assetBalance(s.maker.Address(), s.offered))
	// only the requested-asset holding opened at make remains paid for
	require.Equal(t, before-chain.NetworkRegtest.HoldingDeposit, s.balance(s.maker.Address()))
}

func (s *EscrowSuite) list(price uint64) (*ShelfItem, error) {
	var item *ShelfItem
	err := s.exec(func(l *ledger.Ledger) error {
		var err error
		item, err = List(l, s.maker.Authority(s.T()), &ListArgs{
			Seed:    9,
			AssetID: s.offered,
			Price:   price,
		})
		return err
	})
	return item, err
}

func (s *EscrowSuite) TestShelf_Buy() {
	t := s.T()
	_, err := s.list(0)
	require.ErrorIs(t, err, ErrInvalidAmount)

	makerBefore := s.balance(s.maker.Address())
	item, err := s.list(250)
	require.NoError(t, err)

	require.NoError(t, s.exec(func(l *ledger.Ledger) error {
		_, err := Buy(l, item.Address, s.taker.Authority(t))
		return err
	}))
	require.EqualValues(t, 1, s.assetBalance(s.taker.Address(), s.offered))
	require.Equal(t, makerBefore+250, s.balance(s.maker.Address()))

	network := chain.NetworkRegtest
	require.EqualValues(t, startingFunds-network.HoldingDeposit-250-network.HoldingDeposit, s.balance(s.taker.Address()))
}

func (s *EscrowSuite) TestShelf_Delist() {
	t := s.T()
	item, err := s.list(250)
	require.NoError(t, err)

	err = s.exec(func(l *ledger.Ledger) error {
		_, err := Delist(l, item.Address, s.taker.Authority(t))
		return err
	})
	require.ErrorIs(t, err, ErrNotSeller)

	require.NoError(t, s.exec(func(l *ledger.Ledger) error {
		_, err := Delist(l, item.Address, s.maker.Authority(t))
		return err
	}))
	require.EqualValues(t, 100, s.assetBalance(s.maker.Address(), s.offered))
}

func (s *EscrowSuite) TestListings() {
	t := s.T()
	esc, err := s.make(30, 20)
	require.NoError(t, err)
	item, err := s.list(250)
	require.NoError(t, err)

	require.NoError(t, s.host.View(func(l *ledger.Ledger) error {
		escrows, err := ListEscrows(l)
		require.NoError(t, err)
		require.Len(t, escrows, 1)
		require.Equal(t, esc, escrows[0])

		items, err := ListShelfItems(l)
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, item, items[0])

		_, err = LoadShelfItem(l, esc.Address)
		require.ErrorIs(t, err, ErrMalformedRecord)
		return nil
	}))
}

func TestEscrowSuite(t *testing.T) {
	suite.Run(t, new(EscrowSuite))
}
