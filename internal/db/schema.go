package db

// schemaSteps[i] brings the schema from version i to version i+1
var schemaSteps = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS local_storage (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		`CREATE TABLE IF NOT EXISTS search_history (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			query       TEXT NOT NULL,
			searched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_search_history_query ON search_history(query)`,
	},
}

// SchemaVersion is the schema version Open migrates to
var SchemaVersion = len(schemaSteps)
