// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a
// single file. No separate database server to install, configure, or
// manage. The site runs on one box; a client/server database would add an
// outage mode (store unreachable) without buying anything at this scale.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: the driver's init() registers itself with
	// database/sql under the name "sqlite".
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out the per-entity
// repositories. The server owns it: New at startup, Close on shutdown.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/specia.db" → file-based database (persistent)
//   - ":memory:"       → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	// Pragmas go in the DSN, not a one-off Exec: database/sql is a POOL of
	// connections, and an Exec'd PRAGMA only configures whichever connection
	// served it. DSN pragmas apply to every connection the pool opens.
	//
	// - journal_mode(WAL): allows concurrent reads while a write is in
	//   progress — the default journal mode locks the whole file.
	// - foreign_keys(1): OFF by default in SQLite (backwards compatibility),
	//   but the service/dc tables reference users(id) with ON DELETE CASCADE.
	// - busy_timeout(5000): wait up to 5s on a locked database instead of
	//   failing immediately.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection — a second pooled
	// connection would see an empty schema. Pin the pool to one.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// Ping verifies the connection actually works. Without this, a bad
	// path or permissions issue would only surface on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserRepo { return &UserRepo{conn: db.conn} }

// Services returns the contracted-service repository.
func (db *DB) Services() *ServiceRecordRepo { return &ServiceRecordRepo{conn: db.conn} }

// DCs returns the discount-record repository.
func (db *DB) DCs() *DCRecordRepo { return &DCRecordRepo{conn: db.conn} }

// Inquiries returns the contact-inquiry repository.
func (db *DB) Inquiries() *InquiryRepo { return &InquiryRepo{conn: db.conn} }

// Content returns the singleton-content repository.
func (db *DB) Content() *ContentRepo { return &ContentRepo{conn: db.conn} }

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every startup.
//
// Email uniqueness is enforced case-insensitively at the schema level
// (COLLATE NOCASE) — two inserts differing only in case conflict even if a
// caller forgets to lowercase.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			email           TEXT NOT NULL UNIQUE COLLATE NOCASE,
			phone           TEXT NOT NULL DEFAULT '',
			company_name    TEXT NOT NULL DEFAULT '',
			memo            TEXT NOT NULL DEFAULT '',
			password_hash   TEXT NOT NULL DEFAULT '',
			social_provider TEXT NOT NULL DEFAULT '',
			social_id       TEXT NOT NULL DEFAULT '',
			role            TEXT NOT NULL DEFAULT 'user',
			created_at      DATETIME NOT NULL,
			updated_at      DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS service_records (
			id                TEXT PRIMARY KEY,
			user_id           TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			service_type      TEXT NOT NULL,
			status            TEXT NOT NULL DEFAULT 'progress',
			contract_date     DATETIME NOT NULL,
			company_name      TEXT NOT NULL,
			manager_name      TEXT NOT NULL DEFAULT '',
			project_name      TEXT NOT NULL DEFAULT '',
			total_amount      REAL NOT NULL DEFAULT 0,
			modification_list TEXT NOT NULL DEFAULT '',
			subscription_type TEXT NOT NULL DEFAULT '',
			modification_memo TEXT NOT NULL DEFAULT '',
			created_at        DATETIME NOT NULL,
			updated_at        DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_service_records_user_type
			ON service_records(user_id, service_type);
	`)
	if err != nil {
		return fmt.Errorf("creating service_records table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS dc_records (
			id                       TEXT PRIMARY KEY,
			user_id                  TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			recommended_company_name TEXT NOT NULL DEFAULT '',
			manager_name             TEXT NOT NULL DEFAULT '',
			meeting_status           TEXT NOT NULL DEFAULT '',
			contract_status          TEXT NOT NULL DEFAULT '',
			contract_name            TEXT NOT NULL DEFAULT '',
			discount_rate            REAL NOT NULL DEFAULT 0,
			cumulative_discount_rate REAL NOT NULL DEFAULT 0,
			created_at               DATETIME NOT NULL,
			updated_at               DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_dc_records_user ON dc_records(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating dc_records table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS inquiries (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			phone      TEXT NOT NULL DEFAULT '',
			subject    TEXT NOT NULL,
			message    TEXT NOT NULL,
			category   TEXT NOT NULL DEFAULT 'general',
			status     TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_inquiries_created_at ON inquiries(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating inquiries table: %w", err)
	}

	// Singleton content rows. The CHECK (id = 1) constraint makes "there is
	// exactly one company profile" a schema fact instead of a convention —
	// concurrent first-time saves collapse into one row via upsert.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS company_profile (
			id           INTEGER PRIMARY KEY CHECK (id = 1),
			company_name TEXT NOT NULL,
			description  TEXT NOT NULL,
			vision       TEXT NOT NULL DEFAULT '',
			address      TEXT NOT NULL DEFAULT '',
			phone        TEXT NOT NULL DEFAULT '',
			email        TEXT NOT NULL DEFAULT '',
			website      TEXT NOT NULL DEFAULT '',
			vals         TEXT NOT NULL DEFAULT '',
			created_at   DATETIME NOT NULL,
			updated_at   DATETIME NOT NULL
		);
		CREATE TABLE IF NOT EXISTS service_catalog (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			items      TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating content tables: %w", err)
	}

	return nil
}
