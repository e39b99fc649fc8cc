package db

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"milestone-escrow/db/migrations"
)

// Migrate applies all up migrations for PostgreSQL found in the embedded
// migrations directory.
func Migrate(addr string) error {
	return apply(migrations.PostgresDir, addr)
}

// MigrateSQLite applies the SQLite migrations to the database file at path.
func MigrateSQLite(path string) error {
	return apply(migrations.SQLiteDir, "sqlite://"+path)
}

func apply(dir, url string) error {
	driver, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return err
	}
	defer driver.Close()

	mg, err := migrate.NewWithSourceInstance("iofs", driver, url)
	if err != nil {
		return err
	}
	defer mg.Close()

	_, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}

	if dirty {
		return errors.New("database is in dirty state")
	}

	if err = mg.Migrate(migrations.Version); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
