// Package store keeps session state in a local SQLite database so that a
// later invocation resumes the backend session of the previous one.
package store

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store is the on-disk session database.
type Store struct {
	db   *sql.DB
	path string
}

// CookieRecord is a persisted cookie together with the URL it was set from.
type CookieRecord struct {
	Origin   string
	Name     string
	Value    string
	Domain   string
	Path     string
	HostOnly bool
	Secure   bool
	HTTPOnly bool
}

// Open opens (creating if needed) the state database in dataDir and runs
// pending migrations.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, "state.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// SaveCookies replaces the persisted cookie set with records.
func (s *Store) SaveCookies(records []CookieRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cookies`); err != nil {
		return fmt.Errorf("clearing cookies: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO cookies (name, domain, path, origin, value, host_only, secure, http_only)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Name, r.Domain, r.Path, r.Origin, r.Value, r.HostOnly, r.Secure, r.HTTPOnly); err != nil {
			return fmt.Errorf("saving cookie %s: %w", r.Name, err)
		}
	}

	return tx.Commit()
}

// LoadCookies returns every persisted cookie.
func (s *Store) LoadCookies() ([]CookieRecord, error) {
	rows, err := s.db.Query(`
		SELECT name, domain, path, origin, value, host_only, secure, http_only
		FROM cookies ORDER BY domain, path, name`)
	if err != nil {
		return nil, fmt.Errorf("querying cookies: %w", err)
	}
	defer rows.Close()

	var records []CookieRecord
	for rows.Next() {
		var r CookieRecord
		if err := rows.Scan(&r.Name, &r.Domain, &r.Path, &r.Origin, &r.Value, &r.HostOnly, &r.Secure, &r.HTTPOnly); err != nil {
			return nil, fmt.Errorf("scanning cookie: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
