package database

import (
	"database/sql"
	"embed"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Panel is the shared connection pool used by dbhelper.
var Panel *sql.DB

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	maxOpenConns    = 20
	maxIdleConns    = 10
	connMaxLifetime = 30 * time.Minute
)

func ConnectAndMigrate(url string) error {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		return err
	}

	Panel = db
	return migrateUp(db)
}

func migrateUp(db *sql.DB) error {
	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func Shutdown() error {
	if Panel == nil {
		return nil
	}
	return Panel.Close()
}

// Tx runs fn inside a transaction, rolling back on any error so the
// statements either commit together or fail together.
func Tx(fn func(tx *sql.Tx) error) error {
	tx, err := Panel.Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.Errorf("failed to rollback transaction, error: %v", rbErr)
		}
		return err
	}

	return tx.Commit()
}
