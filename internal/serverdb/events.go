package serverdb

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// EventFilter narrows event queries. Zero values disable a filter.
type EventFilter struct {
	From  time.Time
	To    time.Time
	Limit int
}

const defaultEventLimit = 100

// timeLayout is fixed width so created_at compares correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func timestamp(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// eventQuery accumulates WHERE conditions for one event table
type eventQuery struct {
	conds []string
	args  []any
}

func (q *eventQuery) add(cond string, arg any) {
	q.conds = append(q.conds, cond)
	q.args = append(q.args, arg)
}

// build renders the full SELECT, newest first, with f's range and limit.
func (q *eventQuery) build(table, cols string, f EventFilter) (string, []any) {
	if !f.From.IsZero() {
		q.add("created_at >= ?", timestamp(f.From))
	}
	if !f.To.IsZero() {
		q.add("created_at <= ?", timestamp(f.To))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, table)
	if len(q.conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(q.conds, " AND "))
	}
	b.WriteString(" ORDER BY id DESC LIMIT ?")

	limit := f.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	return b.String(), append(q.args, limit)
}

// queryEvents runs q against table and scans each row with scan
func queryEvents[T any](db *ServerDB, table, cols string, q eventQuery, f EventFilter, scan func(*sql.Rows, *T) error) ([]T, error) {
	stmt, args := q.build(table, cols, f)
	rows, err := db.conn.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var e T
		if err := scan(rows, &e); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// cleanupEvents deletes rows of table older than olderThan and returns how
// many went.
func (db *ServerDB) cleanupEvents(table string, olderThan time.Duration) (int64, error) {
	cutoff := timestamp(time.Now().Add(-olderThan))
	res, err := db.conn.Exec(`DELETE FROM `+table+` WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup %s: %w", table, err)
	}
	return res.RowsAffected()
}
