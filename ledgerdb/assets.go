package ledgerdb

import (
	"github.com/kurumiimari/vendue/chain"
	"github.com/pkg/errors"
)

type Asset struct {
	ID        *chain.Address
	Issuer    *chain.Address
	Label     string
	Supply    uint64
	CreatedAt int64
}

func InsertAsset(tx Transactor, asset *Asset) error {
	_, err := tx.Exec(
		"INSERT INTO assets (id, issuer, label, supply, created_at) VALUES (?, ?, ?, ?, ?)",
		asset.ID,
		asset.Issuer,
		asset.Label,
		asset.Supply,
		asset.CreatedAt,
	)
	return errors.WithStack(err)
}

func GetAsset(q Querier, id *chain.Address) (*Asset, error) {
	row := q.QueryRow("SELECT id, issuer, label, supply, created_at FROM assets WHERE id = ?", id)
	if row.Err() != nil {
		return nil, errors.WithStack(row.Err())
	}
	asset := &Asset{
		ID:     new(chain.Address),
		Issuer: new(chain.Address),
	}
	err := row.Scan(
		asset.ID,
		asset.Issuer,
		&asset.Label,
		&asset.Supply,
		&asset.CreatedAt,
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return asset, nil
}
