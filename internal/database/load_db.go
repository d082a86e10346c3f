package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed profiles.sql
var profilesSchema string

// LoadDB opens the profile database. driver is "pgx" for the hosted
// Postgres database or "mysql".
func LoadDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case "pgx", "mysql":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	dsn, err := DSN(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot connect to db: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// DSN adjusts dsn for driver. MySQL is switched to report matched rows, so an
// UPDATE that leaves a row unchanged still counts it.
func DSN(driver, dsn string) (string, error) {
	if driver != "mysql" {
		return dsn, nil
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, profilesSchema); err != nil {
		return fmt.Errorf("failed to create profiles table: %w", err)
	}
	return nil
}
