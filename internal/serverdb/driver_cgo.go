//go:build cgo

package serverdb

// Registers the "sqlite3" driver for SS_DB_DRIVER=sqlite3.
import _ "github.com/mattn/go-sqlite3"
