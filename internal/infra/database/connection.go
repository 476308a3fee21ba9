package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// DB pairs a pool with the SQL dialect spoken by its driver.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open picks the driver from the URL scheme, configures the pool and pings.
// Accepted forms: postgres://..., postgresql://..., sqlite://path, sqlite:///abs/path, file:..., :memory:.
func Open(ctx context.Context, url string) (*DB, error) {
	driver, dsn, dialect, err := parseURL(url)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	if dialect == SQLite {
		// one writer; keeps in-memory databases alive for the pool lifetime
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	if dialect == SQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure sqlite: %w", err)
		}
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

func parseURL(url string) (driver, dsn string, dialect Dialect, err error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres", url, Postgres, nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		// sqlite:///./x.db and sqlite:////abs/x.db
		if strings.HasPrefix(path, "/./") || strings.HasPrefix(path, "//") {
			path = path[1:]
		}
		if path == "" {
			return "", "", 0, fmt.Errorf("sqlite url %q has no path", url)
		}
		return "sqlite", path, SQLite, nil
	case strings.HasPrefix(url, "file:"), url == ":memory:":
		return "sqlite", url, SQLite, nil
	case url == "":
		return "", "", 0, fmt.Errorf("database url is required")
	}
	return "", "", 0, fmt.Errorf("unsupported database url %q", url)
}
