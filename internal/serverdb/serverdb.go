// Package serverdb is the account service's SQLite store: users, auth events
// and rate limit events.
package serverdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultDriver is the pure-Go SQLite driver. "sqlite3" (cgo) is accepted
// when the binary is built with cgo.
const DefaultDriver = "sqlite"

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
}

type ServerDB struct {
	conn   *sql.DB
	driver string
}

func Open(dbPath string) (*ServerDB, error) {
	return OpenWithDriver(DefaultDriver, dbPath)
}

// OpenWithDriver opens (creating if needed) the database at dbPath and
// migrates it to ServerSchemaVersion.
func OpenWithDriver(driver, dbPath string) (*ServerDB, error) {
	if driver == "" {
		driver = DefaultDriver
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	conn, err := sql.Open(driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open server db: %w", err)
	}
	// one connection keeps :memory: databases alive and serializes writers
	conn.SetMaxOpenConns(1)

	db := &ServerDB{conn: conn, driver: driver}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *ServerDB) init() error {
	for _, p := range pragmas {
		if _, err := db.conn.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	if _, err := db.RunMigrations(); err != nil {
		return fmt.Errorf("migrate server db: %w", err)
	}
	return nil
}

// Driver returns the database/sql driver name in use
func (db *ServerDB) Driver() string {
	return db.driver
}

func (db *ServerDB) Ping() error {
	return db.conn.Ping()
}

// Close checkpoints the WAL and closes the database.
func (db *ServerDB) Close() error {
	db.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return db.conn.Close()
}

// RunMigrations applies every step newer than the stored schema version,
// each in its own transaction, and returns how many ran.
func (db *ServerDB) RunMigrations() (int, error) {
	current, err := db.schemaVersion()
	if err != nil {
		return 0, err
	}
	ran := 0
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := db.apply(m); err != nil {
			return ran, fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		ran++
	}
	return ran, nil
}

func (db *ServerDB) apply(m migration) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, stmt := range m.stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	// PRAGMA does not take bind parameters
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return err
	}
	return tx.Commit()
}

func (db *ServerDB) schemaVersion() (int, error) {
	var v int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
