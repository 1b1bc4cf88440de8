package ledgerdb

import (
	"database/sql"
	"github.com/kurumiimari/vendue/chain"
)

func scanNullAddress(key sql.NullString) (*chain.Address, error) {
	if !key.Valid || key.String == "" {
		return nil, nil
	}
	return chain.ParseAddressKey(key.String)
}

func mustAffectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
