package db

import (
	"fmt"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestOpenCreatesSchema(t *testing.T) {
	database := openTestDB(t)

	v, err := database.GetSchemaVersion()
	if err != nil {
		t.Fatalf("GetSchemaVersion: %v", err)
	}
	if v != SchemaVersion {
		t.Errorf("schema version = %d, want %d", v, SchemaVersion)
	}
	for _, table := range []string{"local_storage", "search_history"} {
		ok, err := database.tableExists(table)
		if err != nil || !ok {
			t.Errorf("table %s missing (err=%v)", table, err)
		}
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	first, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Set("k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	first.Close()

	second, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	n, err := second.RunMigrations()
	if err != nil || n != 0 {
		t.Errorf("RunMigrations on current schema = %d, %v; want 0, nil", n, err)
	}
	v, ok, err := second.Get("k")
	if err != nil || !ok || v != "v" {
		t.Errorf("Get after reopen = %q, %v, %v", v, ok, err)
	}
	if second.BaseDir() != dir {
		t.Errorf("BaseDir = %q, want %q", second.BaseDir(), dir)
	}
}

func TestKeyValue(t *testing.T) {
	database := openTestDB(t)

	if _, ok, err := database.Get("drive:selected"); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v, err %v", ok, err)
	}

	if err := database.Set("drive:selected", `["reports"]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := database.Set("drive:selected", `["hr"]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := database.Set("darkMode", "true"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok, err := database.Get("drive:selected")
	if err != nil || !ok || v != `["hr"]` {
		t.Errorf("Get = %q, %v, %v", v, ok, err)
	}

	keys, err := database.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if fmt.Sprint(keys) != "[darkMode drive:selected]" {
		t.Errorf("Keys = %v", keys)
	}

	if err := database.Delete("darkMode"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := database.Delete("missing"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
	if _, ok, _ := database.Get("darkMode"); ok {
		t.Error("darkMode should be gone")
	}

	if err := database.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	keys, _ = database.Keys()
	if len(keys) != 0 {
		t.Errorf("Keys after Clear = %v", keys)
	}
}

func TestSearchHistory(t *testing.T) {
	database := openTestDB(t)

	for _, q := range []string{"마케팅", "  ", "보고서", "마케팅", "pdf"} {
		if err := database.RecordQuery(q); err != nil {
			t.Fatalf("RecordQuery(%q): %v", q, err)
		}
	}

	got, err := database.RecentQueries(10)
	if err != nil {
		t.Fatalf("RecentQueries: %v", err)
	}
	if fmt.Sprint(got) != "[pdf 마케팅 보고서]" {
		t.Errorf("RecentQueries = %v", got)
	}

	got, _ = database.RecentQueries(1)
	if len(got) != 1 || got[0] != "pdf" {
		t.Errorf("RecentQueries(1) = %v", got)
	}

	if err := database.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	got, _ = database.RecentQueries(10)
	if len(got) != 0 {
		t.Errorf("history after clear = %v", got)
	}
}

func TestMigratesFromOlderVersion(t *testing.T) {
	database := openTestDB(t)
	if _, err := database.conn.Exec(`DROP TABLE search_history`); err != nil {
		t.Fatal(err)
	}
	if _, err := database.conn.Exec(`PRAGMA user_version = 1`); err != nil {
		t.Fatal(err)
	}

	n, err := database.RunMigrations()
	if err != nil || n != 1 {
		t.Fatalf("RunMigrations = %d, %v; want 1, nil", n, err)
	}
	if ok, _ := database.tableExists("search_history"); !ok {
		t.Error("search_history not recreated")
	}
	if v, _ := database.GetSchemaVersion(); v != SchemaVersion {
		t.Errorf("version = %d, want %d", v, SchemaVersion)
	}
}
