package serverdb

import (
	"database/sql"
	"fmt"
	"time"
)

type AuthEvent struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	EventType string `json:"event_type"`
	IP        string `json:"ip"`
	CreatedAt string `json:"created_at"`
}

// Values of AuthEvent.EventType
const (
	AuthEventRegistered     = "registered"
	AuthEventRegisterFailed = "register_failed"
	AuthEventLoginOK        = "login_ok"
	AuthEventLoginFailed    = "login_failed"
)

func (db *ServerDB) InsertAuthEvent(email, eventType, ip string) error {
	_, err := db.conn.Exec(
		`INSERT INTO auth_events (email, event_type, ip, created_at) VALUES (?, ?, ?, ?)`,
		email, eventType, ip, timestamp(time.Now()))
	if err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

// QueryAuthEvents returns auth events newest first. eventType matches
// exactly; email matches as a substring.
func (db *ServerDB) QueryAuthEvents(eventType, email string, f EventFilter) ([]AuthEvent, error) {
	var q eventQuery
	if eventType != "" {
		q.add("event_type = ?", eventType)
	}
	if email != "" {
		q.add("email LIKE ?", "%"+email+"%")
	}
	return queryEvents(db, "auth_events", "id, email, event_type, ip, created_at", q, f,
		func(rows *sql.Rows, e *AuthEvent) error {
			return rows.Scan(&e.ID, &e.Email, &e.EventType, &e.IP, &e.CreatedAt)
		})
}

// CleanupAuthEvents deletes events older than olderThan
func (db *ServerDB) CleanupAuthEvents(olderThan time.Duration) (int64, error) {
	return db.cleanupEvents("auth_events", olderThan)
}
