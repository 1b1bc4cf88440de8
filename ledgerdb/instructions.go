package ledgerdb

import (
	"github.com/kurumiimari/vendue/chain"
	"github.com/kurumiimari/vendue/gcrypto"
	"github.com/pkg/errors"
)

// InsertInstruction records a signed instruction digest. It returns false
// if the digest was already recorded.
func InsertInstruction(tx Transactor, digest gcrypto.Hash, signer *chain.Address, op string, appliedAt int64) (bool, error) {
	res, err := tx.Exec(`
INSERT INTO instructions (digest, signer, op, applied_at)
VALUES (?, ?, ?, ?) ON CONFLICT (digest) DO NOTHING
`,
		digest,
		signer,
		op,
		appliedAt,
	)
	if err != nil {
		return false, errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.WithStack(err)
	}
	return n == 1, nil
}
