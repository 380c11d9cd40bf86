package db

import (
	"database/sql"
	"fmt"
	"net/url"

	"github.com/crucial707/secure-notes/internal/config"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Connect opens the configured database, applies the pool limits and pings it.
func Connect(cfg config.Config) (*sql.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, err
	}

	if cfg.DBDriver == DriverSQLite {
		// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		if cfg.DBMaxOpenConns > 0 {
			db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		}
		if cfg.DBMaxIdleConns > 0 {
			db.SetMaxIdleConns(cfg.DBMaxIdleConns)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// DSN returns the database/sql data source name for cfg.
func DSN(cfg config.Config) (string, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass, cfg.DBSSLMode,
		), nil
	case DriverSQLite:
		return "file:" + cfg.DBPath + "?_foreign_keys=on&_busy_timeout=5000", nil
	default:
		return "", fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}

// MigrationURL returns the URL golang-migrate expects for cfg.
func MigrationURL(cfg config.Config) (string, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.DBUser, cfg.DBPass),
			Host:     cfg.DBHost + ":" + cfg.DBPort,
			Path:     "/" + cfg.DBName,
			RawQuery: "sslmode=" + url.QueryEscape(cfg.DBSSLMode),
		}
		return u.String(), nil
	case DriverSQLite:
		return "sqlite3://" + cfg.DBPath + "?_foreign_keys=on", nil
	default:
		return "", fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}
