package ledgerdb

import (
	"database/sql"
	"github.com/kurumiimari/vendue/chain"
	"github.com/pkg/errors"
)

const accountSelect = `
SELECT address, balance, deposit, owner, data, created_at FROM accounts
`

type Account struct {
	Address   *chain.Address
	Balance   uint64
	Deposit   uint64
	Owner     *chain.Address
	Data      []byte
	CreatedAt int64
}

func InsertAccount(tx Transactor, acc *Account) error {
	data := acc.Data
	if data == nil {
		data = []byte{}
	}
	_, err := tx.Exec(
		"INSERT INTO accounts (address, balance, deposit, owner, data, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		acc.Address,
		acc.Balance,
		acc.Deposit,
		acc.Owner,
		data,
		acc.CreatedAt,
	)
	return errors.WithStack(err)
}

func GetAccount(q Querier, addr *chain.Address) (*Account, error) {
	row := q.QueryRow(accountSelect+"WHERE address = ?", addr)
	if row.Err() != nil {
		return nil, errors.WithStack(row.Err())
	}
	return scanAccount(row)
}

func ListAccountsByOwner(q Querier, owner *chain.Address) ([]*Account, error) {
	rows, err := q.Query(accountSelect+"WHERE owner = ? ORDER BY created_at, address", owner)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer rows.Close()
	var out []*Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, errors.WithStack(rows.Err())
}

func UpdateAccountBalance(tx Transactor, addr *chain.Address, balance uint64) error {
	res, err := tx.Exec("UPDATE accounts SET balance = ? WHERE address = ?", balance, addr)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(mustAffectOne(res))
}

func UpdateAccountData(tx Transactor, addr *chain.Address, data []byte) error {
	res, err := tx.Exec("UPDATE accounts SET data = ? WHERE address = ?", data, addr)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(mustAffectOne(res))
}

func DeleteAccount(tx Transactor, addr *chain.Address) error {
	res, err := tx.Exec("DELETE FROM accounts WHERE address = ?", addr)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(mustAffectOne(res))
}

func scanAccount(row Scanner) (*Account, error) {
	acc := new(Account)
	acc.Address = new(chain.Address)
	var owner sql.NullString
	err := row.Scan(
		acc.Address,
		&acc.Balance,
		&acc.Deposit,
		&owner,
		&acc.Data,
		&acc.CreatedAt,
	)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	acc.Owner, err = scanNullAddress(owner)
	if err != nil {
		return nil, err
	}
	return acc, nil
}
