package repositories

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/lohszeying/api-task-assignment/config"
	"github.com/lohszeying/api-task-assignment/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open connects to the relational store and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", driver)
	}

	if driver == config.DriverSQLite {
		// SQLite serialises writers; one connection keeps transactions and in-memory databases consistent.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to ping %s database", driver)
	}
	return db, nil
}

// Migrate applies the embedded schema and reference data migrations.
func Migrate(db *sqlx.DB, dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "failed to load embedded migrations")
	}

	var m *migrate.Migrate
	switch db.DriverName() {
	case config.DriverPostgres:
		// The postgres driver closes the instance it migrates, so it gets its own connection.
		m, err = migrate.NewWithSourceInstance("iofs", src, dsn)
		if err != nil {
			return errors.Wrap(err, "failed to create postgres migrator")
		}
		defer m.Close()
	case config.DriverSQLite:
		driver, derr := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
		if derr != nil {
			return errors.Wrap(derr, "failed to create sqlite migration driver")
		}
		m, err = migrate.NewWithInstance("iofs", src, "sqlite", driver)
		if err != nil {
			return errors.Wrap(err, "failed to create sqlite migrator")
		}
		defer src.Close()
	default:
		return fmt.Errorf("unsupported database driver %q", db.DriverName())
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "failed to apply migrations")
	}

	version, dirty, verr := m.Version()
	if verr == nil {
		logging.Logger.Infof("Event ID: DB_MIGRATED, Description: Schema at version %d (dirty=%t)", version, dirty)
	}
	return nil
}

// RunInTx runs fn inside one transaction, rolling back on error or panic.
func RunInTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logging.Logger.Errorf("Event ID: TX_ROLLBACK_FAILED, Description: Rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// Now returns the database server time, used by the health check.
func Now(ctx context.Context, db *sqlx.DB) (string, error) {
	var now string
	query := "SELECT CURRENT_TIMESTAMP"
	if db.DriverName() == config.DriverPostgres {
		query = "SELECT to_char(NOW() AT TIME ZONE 'UTC', 'YYYY-MM-DD\"T\"HH24:MI:SS.MS\"Z\"')"
	}
	if err := db.GetContext(ctx, &now, query); err != nil {
		return "", errors.Wrap(err, "failed to query database time")
	}
	return now, nil
}
