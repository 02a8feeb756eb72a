package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smhrd/smartsearch/internal/serverdb"
)

func TestAdminCreateAndListUsers(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "server.db")
	var out, errOut bytes.Buffer

	code := runAdmin([]string{"create-user", "-db", dbPath, "-name", "홍길동", "-email", "Hong@Example.com", "-password", "pw1234"}, &out, &errOut)
	if code != 0 {
		t.Fatalf("create-user exit %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "created Hong@Example.com") {
		t.Errorf("create-user output = %q", out.String())
	}

	out.Reset()
	if code := runAdmin([]string{"users", "-db", dbPath}, &out, &errOut); code != 0 {
		t.Fatalf("users exit %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "Hong@Example.com") || !strings.Contains(out.String(), "홍길동") {
		t.Errorf("users output = %q", out.String())
	}
}

func TestAdminCreateDuplicateFails(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "server.db")
	var out, errOut bytes.Buffer
	args := []string{"create-user", "-db", dbPath, "-name", "a", "-email", "a@b.c", "-password", "x"}
	if code := runAdmin(args, &out, &errOut); code != 0 {
		t.Fatalf("first create exit %d: %s", code, errOut.String())
	}
	if code := runAdmin(args, &out, &errOut); code != 1 {
		t.Fatalf("duplicate create exit %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "already registered") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestAdminEvents(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "server.db")
	store, err := serverdb.Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.InsertAuthEvent("a@b.c", serverdb.AuthEventLoginFailed, "10.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if err := store.InsertAuthEvent("x@y.z", serverdb.AuthEventLoginOK, "10.0.0.2"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	var out, errOut bytes.Buffer
	if code := runAdmin([]string{"events", "-db", dbPath, "-type", "login_failed", "-since", "1d"}, &out, &errOut); code != 0 {
		t.Fatalf("events exit %d: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "10.0.0.1") || strings.Contains(out.String(), "10.0.0.2") {
		t.Errorf("events output = %q", out.String())
	}
}

func TestAdminUnknownCommand(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := runAdmin([]string{"bogus"}, &out, &errOut); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "unknown admin command") {
		t.Errorf("stderr = %q", errOut.String())
	}
	if code := runAdmin(nil, &out, &errOut); code != 1 {
		t.Fatalf("empty args exit %d, want 1", code)
	}
}

func TestAdminEventsBadSince(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "server.db")
	var out, errOut bytes.Buffer
	if code := runAdmin([]string{"events", "-db", dbPath, "-since", "someday"}, &out, &errOut); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "unrecognized date format") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestNewHandlerLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, "TEXT", "warn"))
	log.Info("hidden")
	log.Warn("shown", "k", "v")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "k=v") {
		t.Errorf("text/warn output = %q", buf.String())
	}

	buf.Reset()
	log = slog.New(newHandler(&buf, "", "bogus"))
	log.Debug("hidden")
	log.Info("shown")
	if !strings.HasPrefix(buf.String(), "{") || strings.Contains(buf.String(), "hidden") {
		t.Errorf("json/default output = %q", buf.String())
	}
}
