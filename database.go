package auth

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const migrationsDir = "data/sql/migrations"

//go:embed data/sql/migrations
var migrationsFS embed.FS

// MigrationsFS exposes the embedded schema for external migration tools
func MigrationsFS() fs.FS {
	return migrationsFS
}

// OpenDB opens a sqlite backed bun.DB for dsn
func OpenDB(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open database")
	}

	// an in-memory database only lives as long as its connection
	if strings.Contains(dsn, ":memory:") {
		sqldb.SetMaxOpenConns(1)
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Migrate applies every pending embedded up migration and records the
// schema version in the schema_migrations table.
func Migrate(ctx context.Context, db *bun.DB) error {
	return runMigrations(ctx, db, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// Rollback reverts every applied migration
func Rollback(ctx context.Context, db *bun.DB) error {
	return runMigrations(ctx, db, func(m *migrate.Migrate) error {
		return m.Down()
	})
}

func runMigrations(ctx context.Context, db *bun.DB, step func(*migrate.Migrate) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	source, err := iofs.New(migrationsFS, migrationsDir)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migrations")
	}
	// m.Close would also close db, which the caller owns
	defer source.Close()

	driver, err := sqlitemigrate.WithInstance(db.DB, &sqlitemigrate.Config{})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to prepare migrations")
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to prepare migrations")
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to apply migrations")
	}

	return nil
}

// SchemaVersion returns the last applied migration version and whether
// it was left dirty by a failed run.
func SchemaVersion(db *bun.DB) (uint, bool, error) {
	driver, err := sqlitemigrate.WithInstance(db.DB, &sqlitemigrate.Config{})
	if err != nil {
		return 0, false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read schema version")
	}

	version, dirty, err := driver.Version()
	if err != nil {
		return 0, false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read schema version")
	}

	if version < 0 {
		return 0, dirty, nil
	}
	return uint(version), dirty, nil
}
