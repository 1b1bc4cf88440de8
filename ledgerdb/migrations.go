package ledgerdb

import (
	"github.com/kurumiimari/vendue/log"
	"github.com/pkg/errors"
	"time"
)

var logger = log.ModuleLogger("migrations")

const CreateMigrationsQuery = `
CREATE TABLE IF NOT EXISTS migrations (
	id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	name VARCHAR NOT NULL,
	applied_at INTEGER NOT NULL
);
`

type Migration struct {
	Query string
	Name  string
}

var Migrations = []*Migration{
	{
		Query: `
CREATE TABLE accounts (
	address VARCHAR NOT NULL PRIMARY KEY,
	balance INTEGER NOT NULL DEFAULT 0,
	deposit INTEGER NOT NULL DEFAULT 0,
	owner VARCHAR,
	data BLOB NOT NULL DEFAULT x'',
	created_at INTEGER NOT NULL
);

CREATE INDEX idx_accounts_owner ON accounts(owner);
`,
		Name: "create_accounts",
	},
	{
		Query: `
CREATE TABLE assets (
	id VARCHAR NOT NULL PRIMARY KEY,
	issuer VARCHAR NOT NULL,
	label VARCHAR NOT NULL,
	supply INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE UNIQUE INDEX idx_uniq_assets_issuer_label ON assets(issuer, label);
`,
		Name: "create_assets",
	},
	{
		Query: `
CREATE TABLE holdings (
	address VARCHAR NOT NULL PRIMARY KEY,
	owner VARCHAR NOT NULL,
	asset_id VARCHAR NOT NULL,
	amount INTEGER NOT NULL DEFAULT 0,
	deposit INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (asset_id) REFERENCES assets(id)
);

CREATE INDEX idx_holdings_owner ON holdings(owner);
`,
		Name: "create_holdings",
	},
	{
		Query: `
CREATE TABLE instructions (
	digest VARCHAR(64) NOT NULL PRIMARY KEY,
	signer VARCHAR NOT NULL,
	op VARCHAR NOT NULL,
	applied_at INTEGER NOT NULL
);
`,
		Name: "create_instructions",
	},
}

func MigrateDB(engine *Engine) error {
	return engine.Transaction(func(tx Transactor) error {
		logger.Debug("creating migrations table")
		_, err := tx.Exec(CreateMigrationsQuery)
		if err != nil {
			return errors.WithStack(err)
		}

		migRow := tx.QueryRow("SELECT COALESCE(MAX(id), 0) FROM migrations")
		if migRow.Err() != nil {
			return errors.WithStack(migRow.Err())
		}
		var latestMigID int
		if err := migRow.Scan(&latestMigID); err != nil {
			return errors.WithStack(err)
		}

		if latestMigID == len(Migrations) {
			logger.Info("migrations up to date")
			return nil
		}

		logger.Info("running migrations")
		for i := latestMigID; i < len(Migrations); i++ {
			mig := Migrations[i]
			logger.Debug("executing migration", "name", mig.Name, "version", i)
			if err := ExecMigration(tx, mig); err != nil {
				return err
			}
		}
		logger.Info("successfully migrated database")
		return nil
	})
}

func ExecMigration(tx Transactor, migration *Migration) error {
	if _, err := tx.Exec(migration.Query); err != nil {
		return errors.Wrapf(err, "error executing migration %s", migration.Name)
	}
	_, err := tx.Exec(
		"INSERT INTO migrations (name, applied_at) VALUES (?, ?)",
		migration.Name,
		time.Now().Unix(),
	)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}
