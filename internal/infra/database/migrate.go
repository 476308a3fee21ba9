package database

import (
	"context"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS prospects (
		id            VARCHAR(36) PRIMARY KEY,
		company_name  VARCHAR(200) NOT NULL,
		contact_name  VARCHAR(200) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		phone         VARCHAR(50),
		industry      VARCHAR(100),
		company_size  VARCHAR(50),
		website       VARCHAR(255),
		notes         TEXT,
		tags          TEXT NOT NULL DEFAULT '[]',
		status        VARCHAR(20) NOT NULL DEFAULT 'new',
		priority      VARCHAR(20) NOT NULL DEFAULT 'medium',
		score         DOUBLE PRECISION,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL,
		last_contact  TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ix_prospects_email ON prospects (email)`,
	`CREATE INDEX IF NOT EXISTS ix_prospects_status ON prospects (status)`,
	`CREATE INDEX IF NOT EXISTS ix_prospects_priority ON prospects (priority)`,
	`CREATE INDEX IF NOT EXISTS ix_prospects_industry ON prospects (industry)`,
	`CREATE INDEX IF NOT EXISTS ix_prospects_company_name ON prospects (company_name)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id               VARCHAR(36) PRIMARY KEY,
		prospect_id      VARCHAR(36) NOT NULL,
		interaction_type VARCHAR(50) NOT NULL,
		content          TEXT NOT NULL,
		metadata         TEXT NOT NULL DEFAULT '{}',
		created_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_interactions_prospect_id ON interactions (prospect_id)`,
}

// sqlite keeps timestamps as fixed-width UTC text.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS prospects (
		id            TEXT PRIMARY KEY,
		company_name  TEXT NOT NULL,
		contact_name  TEXT NOT NULL,
		email         TEXT NOT NULL,
		phone         TEXT,
		industry      TEXT,
		company_size  TEXT,
		website       TEXT,
		notes         TEXT,
		tags          TEXT NOT NULL DEFAULT '[]',
		status        TEXT NOT NULL DEFAULT 'new',
		priority      TEXT NOT NULL DEFAULT 'medium',
		score         REAL,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		last_contact  TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ix_prospects_email ON prospects (email)`,
	`CREATE INDEX IF NOT EXISTS ix_prospects_status ON prospects (status)`,
	`CREATE INDEX IF NOT EXISTS ix_prospects_priority ON prospects (priority)`,
	`CREATE INDEX IF NOT EXISTS ix_prospects_industry ON prospects (industry)`,
	`CREATE INDEX IF NOT EXISTS ix_prospects_company_name ON prospects (company_name)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id               TEXT PRIMARY KEY,
		prospect_id      TEXT NOT NULL,
		interaction_type TEXT NOT NULL,
		content          TEXT NOT NULL,
		metadata         TEXT NOT NULL DEFAULT '{}',
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_interactions_prospect_id ON interactions (prospect_id)`,
}

// Migrate creates tables and indexes. Safe to run on every start.
func Migrate(ctx context.Context, db *DB) error {
	stmts := postgresSchema
	if db.Dialect == SQLite {
		stmts = sqliteSchema
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
