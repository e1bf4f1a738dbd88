package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'student' CHECK (role IN ('admin', 'donor', 'student')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS students (
    id               INTEGER PRIMARY KEY,
    matric_no        TEXT NOT NULL UNIQUE,
    email            TEXT NOT NULL,
    name             TEXT NOT NULL,
    school           TEXT NOT NULL DEFAULT '',
    household_income INTEGER NOT NULL CHECK (household_income >= 0)
);

CREATE TABLE IF NOT EXISTS inventory (
    id             INTEGER PRIMARY KEY,
    item_name      TEXT NOT NULL,
    category       TEXT NOT NULL,
    campus         TEXT NOT NULL,
    unit           TEXT NOT NULL DEFAULT '',
    quantity       INTEGER NOT NULL CHECK (quantity >= 0),
    low_threshold  INTEGER NOT NULL CHECK (low_threshold >= 0),
    high_threshold INTEGER NOT NULL CHECK (high_threshold > low_threshold),
    stock_level    TEXT NOT NULL CHECK (stock_level IN ('Low', 'Medium', 'High')),
    updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (item_name, campus)
);

CREATE TABLE IF NOT EXISTS inventory_batches (
    id           INTEGER PRIMARY KEY,
    inventory_id INTEGER NOT NULL REFERENCES inventory(id) ON DELETE CASCADE,
    expiry_date  TEXT NOT NULL,
    stock        INTEGER NOT NULL CHECK (stock > 0),
    UNIQUE (inventory_id, expiry_date)
);

CREATE TABLE IF NOT EXISTS collections (
    id           INTEGER PRIMARY KEY,
    ref          TEXT NOT NULL UNIQUE,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    user_name    TEXT NOT NULL,
    item_name    TEXT NOT NULL,
    category     TEXT NOT NULL,
    num_item     INTEGER NOT NULL CHECK (num_item > 0),
    status       TEXT NOT NULL CHECK (status IN ('Pending', 'Ready to collect', 'Collected')),
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    collected_at DATETIME
);

CREATE TABLE IF NOT EXISTS donations (
    id               INTEGER PRIMARY KEY,
    donor_id         INTEGER NOT NULL REFERENCES users(id),
    donor_name       TEXT NOT NULL,
    category         TEXT NOT NULL,
    item_type        TEXT NOT NULL,
    number_of_items  INTEGER NOT NULL CHECK (number_of_items > 0),
    dropoff_location TEXT NOT NULL,
    delivery_date    TEXT,
    notes            TEXT,
    photo            BLOB,
    photo_mime       TEXT,
    status           TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending', 'Approved', 'Rejected')),
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    reviewed_at      DATETIME,
    reviewed_by      INTEGER REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS recipient_requests (
    id           INTEGER PRIMARY KEY,
    user_id      INTEGER NOT NULL REFERENCES users(id),
    user_email   TEXT NOT NULL,
    category     TEXT NOT NULL,
    product_name TEXT NOT NULL,
    details      TEXT,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS weekly_items (
    id         INTEGER PRIMARY KEY,
    campus     TEXT NOT NULL,
    item_name  TEXT NOT NULL,
    category   TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (campus, item_name)
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
