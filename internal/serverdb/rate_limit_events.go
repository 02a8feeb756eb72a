package serverdb

import (
	"database/sql"
	"fmt"
	"time"
)

// RateLimitEvent is one request turned away by the rate limiter
type RateLimitEvent struct {
	ID            int64  `json:"id"`
	IP            string `json:"ip"`
	EndpointClass string `json:"endpoint_class"` // "auth"
	CreatedAt     string `json:"created_at"`
}

func (db *ServerDB) InsertRateLimitEvent(ip, endpointClass string) error {
	_, err := db.conn.Exec(
		`INSERT INTO rate_limit_events (ip, endpoint_class, created_at) VALUES (?, ?, ?)`,
		ip, endpointClass, timestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("insert rate limit event: %w", err)
	}
	return nil
}

// QueryRateLimitEvents returns events newest first, for one ip when set
func (db *ServerDB) QueryRateLimitEvents(ip string, f EventFilter) ([]RateLimitEvent, error) {
	var q eventQuery
	if ip != "" {
		q.add("ip = ?", ip)
	}
	return queryEvents(db, "rate_limit_events", "id, ip, endpoint_class, created_at", q, f,
		func(rows *sql.Rows, e *RateLimitEvent) error {
			return rows.Scan(&e.ID, &e.IP, &e.EndpointClass, &e.CreatedAt)
		})
}

func (db *ServerDB) CleanupRateLimitEvents(olderThan time.Duration) (int64, error) {
	return db.cleanupEvents("rate_limit_events", olderThan)
}
