package custody

import (
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/ledger"
	"github.com/kurumiimari/vendue/testutil"
	"github.com/stretchr/testify/require"
	"testing"
)

var testProgram = chain.NewProgramID("vendue/custody-test")

func TestVault_Lifecycle(t *testing.T) {
	t.Parallel()

	network := chain.NetworkRegtest
	host := ledger.NewHost(testutil.NewEngine(t), network, testutil.NewFakeClock().Now)
	seller := testutil.NewSigner(t)
	buyer := testutil.NewSigner(t)

	ownerAddr, ownerBump, err := chain.FindDerivedAddress(testProgram, []byte("listing"))
	require.NoError(t, err)
	owner, err := chain.NewDerivedAuthority(testProgram, ownerBump, []byte("listing"))
	require.NoError(t, err)

	var asset *chain.Address
	require.NoError(t, host.Execute(nil, func(l *ledger.Ledger) error {
		require.NoError(t, l.Airdrop(seller.Address(), 10_000))
		require.NoError(t, l.Airdrop(buyer.Address(), 10_000))
		asset, err = l.MintAsset(seller.Authority(t), "painting", 1)
		return err
	}))

	vault, err := Find(testProgram, ownerAddr, asset)
	require.NoError(t, err)
	loaded, err := Load(testProgram, ownerAddr, asset, vault.Bump)
	require.NoError(t, err)
	require.True(t, vault.Address.Equal(loaded.Address))

	require.NoError(t, host.Execute(testProgram, func(l *ledger.Ledger) error {
		require.NoError(t, vault.Open(l, seller.Authority(t)))
		return vault.Deposit(l, chain.AssociatedHoldingAddress(seller.Address(), asset), seller.Authority(t), 1)
	}))

	require.NoError(t, host.Execute(testProgram, func(l *ledger.Ledger) error {
		to, err := l.OpenHolding(buyer.Authority(t), buyer.Address(), asset)
		require.NoError(t, err)
		require.NoError(t, vault.Release(l, owner, to, 1))
		return vault.Close(l, owner, seller.Address())
	}))

	require.NoError(t, host.View(func(l *ledger.Ledger) error {
		bal, err := l.AssetBalance(buyer.Address(), asset)
		require.NoError(t, err)
		require.EqualValues(t, 1, bal)
		_, err = l.Holding(vault.Address)
		require.ErrorIs(t, err, ledger.ErrHoldingNotFound)
		sellerBal, err := l.Balance(seller.Address())
		require.NoError(t, err)
		require.Equal(t, 10_000-network.HoldingDeposit, sellerBal)
		return nil
	}))
}

func TestVault_ReleaseRequiresOwnerAuthority(t *testing.T) {
	t.Parallel()

	host := ledger.NewHost(testutil.NewEngine(t), chain.NetworkRegtest, testutil.NewFakeClock().Now)
	seller := testutil.NewSigner(t)
	ownerAddr, _, err := chain.FindDerivedAddress(testProgram, []byte("listing"))
	require.NoError(t, err)
	_, strangerBump, err := chain.FindDerivedAddress(testProgram, []byte("stranger"))
	require.NoError(t, err)
	stranger, err := chain.NewDerivedAuthority(testProgram, strangerBump, []byte("stranger"))
	require.NoError(t, err)

	var asset *chain.Address
	require.NoError(t, host.Execute(nil, func(l *ledger.Ledger) error {
		require.NoError(t, l.Airdrop(seller.Address(), 10_000))
		asset, err = l.MintAsset(seller.Authority(t), "painting", 1)
		return err
	}))
	vault, err := Find(testProgram, ownerAddr, asset)
	require.NoError(t, err)
	sellerHolding := chain.AssociatedHoldingAddress(seller.Address(), asset)

	require.NoError(t, host.Execute(testProgram, func(l *ledger.Ledger) error {
		require.NoError(t, vault.Open(l, seller.Authority(t)))
		return vault.Deposit(l, sellerHolding, seller.Authority(t), 1)
	}))
	err = host.Execute(testProgram, func(l *ledger.Ledger) error {
		return vault.Release(l, stranger, sellerHolding, 1)
	})
	require.ErrorIs(t, err, ledger.ErrUnauthorized)
}
