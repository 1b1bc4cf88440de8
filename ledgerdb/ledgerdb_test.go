package ledgerdb

import (
	"database/sql"
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/gcrypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"testing"
)

func newTestEngine(t *testing.T) *Engine {
	engine, err := NewEngine(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, MigrateDB(engine))
	t.Cleanup(func() {
		engine.Close()
	})
	return engine
}

func TestMigrateDB_Idempotent(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	require.NoError(t, MigrateDB(engine))

	var count int
	require.NoError(t, engine.Transaction(func(tx Transactor) error {
		return tx.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count)
	}))
	require.Equal(t, len(Migrations), count)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	addr := chain.NewAddressFromHash(make([]byte, 20))
	boom := errors.New("boom")

	err := engine.Transaction(func(tx Transactor) error {
		require.NoError(t, InsertAccount(tx, &Account{
			Address: addr,
			Balance: 100,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = engine.Transaction(func(tx Transactor) error {
		_, err := GetAccount(tx, addr)
		return err
	})
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAccounts(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	program := chain.NewProgramID("vendue/test")
	record, _, err := chain.FindDerivedAddress(program, []byte("record"))
	require.NoError(t, err)
	system := chain.NewAddressFromHash(make([]byte, 20))

	require.NoError(t, engine.Transaction(func(tx Transactor) error {
		require.NoError(t, InsertAccount(tx, &Account{
			Address: system,
			Balance: 10,
		}))
		require.NoError(t, InsertAccount(tx, &Account{
			Address: record,
			Balance: 50,
			Deposit: 50,
			Owner:   program,
			Data:    []byte{0x01, 0x02},
		}))
		require.Error(t, InsertAccount(tx, &Account{Address: system}))

		acc, err := GetAccount(tx, system)
		require.NoError(t, err)
		require.Nil(t, acc.Owner)
		require.EqualValues(t, 10, acc.Balance)
		require.Empty(t, acc.Data)

		require.NoError(t, UpdateAccountBalance(tx, record, 75))
		require.NoError(t, UpdateAccountData(tx, record, []byte{0x03}))
		owned, err := ListAccountsByOwner(tx, program)
		require.NoError(t, err)
		require.Len(t, owned, 1)
		require.True(t, owned[0].Address.Equal(record))
		require.True(t, owned[0].Owner.Equal(program))
		require.EqualValues(t, 75, owned[0].Balance)
		require.Equal(t, []byte{0x03}, owned[0].Data)

		require.NoError(t, DeleteAccount(tx, record))
		require.ErrorIs(t, DeleteAccount(tx, record), sql.ErrNoRows)
		require.ErrorIs(t, UpdateAccountBalance(tx, record, 1), sql.ErrNoRows)
		return nil
	}))
}

func TestHoldingsAndAssets(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	issuer := chain.NewAddressFromHash(make([]byte, 20))
	assetID, err := chain.AssetID(issuer, "painting")
	require.NoError(t, err)
	holdingAddr := chain.AssociatedHoldingAddress(issuer, assetID)

	require.NoError(t, engine.Transaction(func(tx Transactor) error {
		require.NoError(t, InsertAsset(tx, &Asset{
			ID:     assetID,
			Issuer: issuer,
			Label:  "painting",
			Supply: 1,
		}))
		asset, err := GetAsset(tx, assetID)
		require.NoError(t, err)
		require.Equal(t, "painting", asset.Label)
		require.True(t, asset.Issuer.Equal(issuer))

		require.NoError(t, InsertHolding(tx, &Holding{
			Address: holdingAddr,
			Owner:   issuer,
			AssetID: assetID,
			Amount:  1,
			Deposit: 500,
		}))
		require.NoError(t, UpdateHoldingAmount(tx, holdingAddr, 0))
		h, err := GetHolding(tx, holdingAddr)
		require.NoError(t, err)
		require.Zero(t, h.Amount)
		require.EqualValues(t, 500, h.Deposit)
		require.True(t, h.AssetID.Equal(assetID))

		list, err := ListHoldingsByOwner(tx, issuer)
		require.NoError(t, err)
		require.Len(t, list, 1)

		require.NoError(t, DeleteHolding(tx, holdingAddr))
		_, err = GetHolding(tx, holdingAddr)
		require.ErrorIs(t, err, sql.ErrNoRows)
		return nil
	}))
}

func TestInsertInstruction(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	signer := chain.NewAddressFromHash(make([]byte, 20))
	digest := gcrypto.Blake256([]byte("instruction"))

	require.NoError(t, engine.Transaction(func(tx Transactor) error {
		inserted, err := InsertInstruction(tx, digest, signer, "auction.bid", 1)
		require.NoError(t, err)
		require.True(t, inserted)

		inserted, err = InsertInstruction(tx, digest, signer, "auction.bid", 2)
		require.NoError(t, err)
		require.False(t, inserted)
		return nil
	}))
}
