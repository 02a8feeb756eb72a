package db

import (
	"fmt"
)

// GetSchemaVersion reads the schema version kept in PRAGMA user_version
func (db *DB) GetSchemaVersion() (int, error) {
	var v int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

func (db *DB) tableExists(table string) (bool, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
	return n > 0, err
}

// RunMigrations brings the schema up to SchemaVersion and reports how many
// steps ran. Steps run under the state lock, so concurrent processes
// opening the same workspace apply each step once.
func (db *DB) RunMigrations() (int, error) {
	if v, err := db.GetSchemaVersion(); err == nil && v >= SchemaVersion {
		return 0, nil
	}
	ran := 0
	err := db.withWriteLock(func() error {
		// another process may have migrated while we waited for the lock
		v, err := db.GetSchemaVersion()
		if err != nil {
			return err
		}
		for ; v < SchemaVersion; v++ {
			if err := db.step(v); err != nil {
				return fmt.Errorf("schema step %d: %w", v+1, err)
			}
			ran++
		}
		return nil
	})
	return ran, err
}

// step applies schemaSteps[from] and records version from+1 atomically
func (db *DB) step(from int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, stmt := range schemaSteps[from] {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", from+1)); err != nil {
		return err
	}
	return tx.Commit()
}
