package serverdb

// migration is one step of the server schema. Version N is recorded in
// PRAGMA user_version once step N commits.
type migration struct {
	version int
	name    string
	stmts   []string
}

var migrations = []migration{
	{1, "accounts and event logs", []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
			password_hash TEXT NOT NULL,
			oauth         INTEGER NOT NULL DEFAULT 0,
			depart        TEXT NOT NULL DEFAULT '',
			phone         TEXT NOT NULL DEFAULT '',
			level         TEXT NOT NULL DEFAULT '',
			joined_at     TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS auth_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			email      TEXT NOT NULL,
			event_type TEXT NOT NULL,
			ip         TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rate_limit_events (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			ip             TEXT NOT NULL,
			endpoint_class TEXT NOT NULL,
			created_at     TEXT NOT NULL
		)`,
	}},
	{2, "event indexes", []string{
		`CREATE INDEX IF NOT EXISTS idx_auth_events_email ON auth_events(email)`,
		`CREATE INDEX IF NOT EXISTS idx_auth_events_created ON auth_events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_rate_limit_events_created ON rate_limit_events(created_at)`,
	}},
}

// ServerSchemaVersion is the version a freshly opened database ends up at
var ServerSchemaVersion = migrations[len(migrations)-1].version
