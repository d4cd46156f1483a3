package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
// Statements are idempotent so the list can run on every startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT     PRIMARY KEY,
		name          TEXT     NOT NULL,
		email         TEXT     NOT NULL UNIQUE,
		password_hash TEXT     NOT NULL,
		role          TEXT     NOT NULL CHECK (role IN ('owner', 'tenant')),
		phone         TEXT     NOT NULL DEFAULT '',
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id           TEXT     PRIMARY KEY,
		owner_id     TEXT     NOT NULL REFERENCES users(id),
		title        TEXT     NOT NULL,
		description  TEXT     NOT NULL,
		location     TEXT     NOT NULL,
		rent         INTEGER  NOT NULL CHECK (rent >= 0),
		rooms        INTEGER  NOT NULL CHECK (rooms >= 1),
		bathrooms    INTEGER  NOT NULL DEFAULT 1 CHECK (bathrooms >= 1),
		area         INTEGER  CHECK (area IS NULL OR area > 0),
		images       TEXT     NOT NULL DEFAULT '[]',
		availability INTEGER  NOT NULL DEFAULT 1,
		amenities    TEXT     NOT NULL DEFAULT '[]',
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS requests (
		id           TEXT     PRIMARY KEY,
		property_id  TEXT     NOT NULL REFERENCES properties(id),
		tenant_id    TEXT     NOT NULL REFERENCES users(id),
		owner_id     TEXT     NOT NULL REFERENCES users(id),
		status       TEXT     NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'approved', 'rejected')),
		message      TEXT     NOT NULL DEFAULT '',
		move_in_date DATETIME NOT NULL,
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		responded_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id                TEXT     PRIMARY KEY,
		tenant_id         TEXT     NOT NULL REFERENCES users(id),
		property_id       TEXT     NOT NULL REFERENCES properties(id),
		owner_id          TEXT     NOT NULL REFERENCES users(id),
		amount            INTEGER  NOT NULL CHECK (amount >= 0),
		payment_intent_id TEXT     NOT NULL,
		status            TEXT     NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'completed', 'failed', 'refunded')),
		payment_date      DATETIME DEFAULT CURRENT_TIMESTAMP,
		due_date          DATETIME NOT NULL,
		month             TEXT     NOT NULL,
		year              INTEGER  NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_owner ON properties(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_tenant ON requests(tenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_requests_owner ON requests(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_intent ON payments(payment_intent_id)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
