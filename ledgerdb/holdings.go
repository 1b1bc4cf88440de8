package ledgerdb

import (
	"github.com/kurumiimari/vendue/chain"
	"github.com/pkg/errors"
)

const holdingSelect = `
SELECT address, owner, asset_id, amount, deposit FROM holdings
`

type Holding struct {
	Address *chain.Address
	Owner   *chain.Address
	AssetID *chain.Address
	Amount  uint64
	Deposit uint64
}

func InsertHolding(tx Transactor, h *Holding) error {
	_, err := tx.Exec(
		"INSERT INTO holdings (address, owner, asset_id, amount, deposit) VALUES (?, ?, ?, ?, ?)",
		h.Address,
		h.Owner,
		h.AssetID,
		h.Amount,
		h.Deposit,
	)
	return errors.WithStack(err)
}

func GetHolding(q Querier, addr *chain.Address) (*Holding, error) {
	row := q.QueryRow(holdingSelect+"WHERE address = ?", addr)
	if row.Err() != nil {
		return nil, errors.WithStack(row.Err())
	}
	return scanHolding(row)
}

func ListHoldingsByOwner(q Querier, owner *chain.Address) ([]*Holding, error) {
	rows, err := q.Query(holdingSelect+"WHERE owner = ? ORDER BY address", owner)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()
	var out []*Holding
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, errors.WithStack(rows.Err())
}

func UpdateHoldingAmount(tx Transactor, addr *chain.Address, amount uint64) error {
	res, err := tx.Exec("UPDATE holdings SET amount = ? WHERE address = ?", amount, addr)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(mustAffectOne(res))
}

func DeleteHolding(tx Transactor, addr *chain.Address) error {
	res, err := tx.Exec("DELETE FROM holdings WHERE address = ?", addr)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(mustAffectOne(res))
}

func scanHolding(row Scanner) (*Holding, error) {
	h := &Holding{
		Address: new(chain.Address),
		Owner:   new(chain.Address),
		AssetID: new(chain.Address),
	}
	err := row.Scan(
		h.Address,
		h.Owner,
		h.AssetID,
		&h.Amount,
		&h.Deposit,
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return h, nil
}
