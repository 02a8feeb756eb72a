package db

import (
	"fmt"
	"strings"
	"time"
)

// RecordQuery appends a chat or modal query to the search history. Blank
// queries are ignored.
func (db *DB) RecordQuery(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`INSERT INTO search_history (query, searched_at) VALUES (?, ?)`,
			query, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("record query: %w", err)
		}
		return nil
	})
}

// RecentQueries returns up to limit distinct queries, most recent first
func (db *DB) RecentQueries(limit int) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT query FROM search_history
		GROUP BY query
		ORDER BY MAX(id) DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent queries: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// ClearHistory forgets every recorded query
func (db *DB) ClearHistory() error {
	return db.withWriteLock(func() error {
		_, err := db.conn.Exec(`DELETE FROM search_history`)
		return err
	})
}
