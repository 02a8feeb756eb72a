package keymap

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyToString(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, "tab"},
		{tea.KeyMsg{Type: tea.KeyEnter}, "enter"},
		{tea.KeyMsg{Type: tea.KeySpace}, "space"},
		{runeKey(" "), "space"},
		{tea.KeyMsg{Type: tea.KeyCtrlF}, "ctrl+f"},
		{tea.KeyMsg{Type: tea.KeyEsc}, "esc"},
		{runeKey("G"), "G"},
		{runeKey("?"), "?"},
	}
	for _, tc := range tests {
		if got := KeyToString(tc.msg); got != tc.want {
			t.Errorf("KeyToString(%v) = %q, want %q", tc.msg, got, tc.want)
		}
	}
}

func TestIsPrintable(t *testing.T) {
	if !IsPrintable(runeKey("가")) {
		t.Error("hangul should be printable")
	}
	if !IsPrintable(tea.KeyMsg{Type: tea.KeySpace}) {
		t.Error("space should be printable")
	}
	if IsPrintable(tea.KeyMsg{Type: tea.KeyCtrlF}) {
		t.Error("ctrl+f should not be printable")
	}
	if IsPrintable(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true}) {
		t.Error("alt+x should not be printable")
	}
}

func TestLookupContextThenGlobal(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	cmd, ok := r.Lookup(tea.KeyMsg{Type: tea.KeySpace}, ContextSidebar)
	if !ok || cmd != CmdToggleSelect {
		t.Fatalf("sidebar space = %q %v", cmd, ok)
	}
	cmd, ok = r.Lookup(tea.KeyMsg{Type: tea.KeyEnter}, ContextInput)
	if !ok || cmd != CmdSend {
		t.Fatalf("input enter = %q %v", cmd, ok)
	}
	cmd, ok = r.Lookup(tea.KeyMsg{Type: tea.KeyCtrlF}, ContextSettings)
	if !ok || cmd != CmdOpenFiles {
		t.Fatalf("global fallback = %q %v", cmd, ok)
	}
	if _, ok := r.Lookup(runeKey("z"), ContextSidebar); ok {
		t.Fatal("unbound key matched")
	}
}

func TestLookupSequence(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	if _, ok := r.Lookup(runeKey("g"), ContextSidebar); ok {
		t.Fatal("first key of sequence should not resolve")
	}
	if r.PendingKey() != "g" {
		t.Fatalf("pending = %q", r.PendingKey())
	}
	cmd, ok := r.Lookup(runeKey("g"), ContextSidebar)
	if !ok || cmd != CmdCursorTop {
		t.Fatalf("g g = %q %v", cmd, ok)
	}

	// Expired chord falls back to a single key
	now := time.Now()
	r.now = func() time.Time { return now }
	r.Lookup(runeKey("g"), ContextSidebar)
	now = now.Add(time.Second)
	if r.PendingKey() != "" {
		t.Fatalf("expired chord still pending: %q", r.PendingKey())
	}
	cmd, ok = r.Lookup(runeKey("j"), ContextSidebar)
	if !ok || cmd != CmdCursorDown {
		t.Fatalf("after timeout j = %q %v", cmd, ok)
	}
}

func TestUserOverridesWin(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)
	r.SetUserOverride(ContextSidebar, "space", CmdToggleExpand)
	r.SetUserOverride(ContextGlobal, "ctrl+q", CmdQuit)

	if cmd, _ := r.Lookup(tea.KeyMsg{Type: tea.KeySpace}, ContextSidebar); cmd != CmdToggleExpand {
		t.Fatalf("override = %q", cmd)
	}
	if cmd, _ := r.Lookup(tea.KeyMsg{Type: tea.KeyCtrlQ}, ContextFiles); cmd != CmdQuit {
		t.Fatalf("global override = %q", cmd)
	}
	keys := r.KeysFor(ContextSidebar, CmdToggleExpand)
	if keys[0] != "space" || !slices.Contains(keys, "enter") {
		t.Fatalf("KeysFor = %v", keys)
	}
}

func TestHintsAndFooter(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	hints := r.Hints(ContextSidebar)
	if hints[0].Keys != "j / down" {
		t.Fatalf("first hint = %+v", hints[0])
	}
	footer := r.Footer(ContextSidebar, 30)
	if footer == "" || strings.Contains(footer, "전체 선택") {
		t.Fatalf("footer not truncated: %q", footer)
	}
	if !strings.Contains(r.Footer(ContextSidebar, 0), "space 폴더 선택") {
		t.Fatalf("full footer: %q", r.Footer(ContextSidebar, 0))
	}
	md := r.Markdown(ContextHome, ContextSettings)
	if !strings.Contains(md, "## home") || !strings.Contains(md, "| `t` | 다크 모드 |") {
		t.Fatalf("markdown:\n%s", md)
	}
	if !slices.Contains(r.Contexts(), ContextPreview) {
		t.Fatal("preview context missing")
	}
}

func TestConfigRoundTripAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := ConfigPath(dir)
	if filepath.Base(filepath.Dir(path)) != ".smartsearch" {
		t.Fatalf("path = %s", path)
	}

	cfg, err := LoadConfig(path)
	if err != nil || len(cfg.Bindings) != 0 {
		t.Fatalf("missing file: %v %v", cfg, err)
	}

	cfg.Bindings["sidebar:s"] = string(CmdToggleSelect)
	cfg.Bindings["ctrl+q"] = string(CmdQuit)
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}

	r, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cmd, _ := r.Lookup(runeKey("s"), ContextSidebar); cmd != CmdToggleSelect {
		t.Fatalf("sidebar:s = %q", cmd)
	}
	if cmd, _ := r.Lookup(tea.KeyMsg{Type: tea.KeyCtrlQ}, ContextHome); cmd != CmdQuit {
		t.Fatalf("bare key override = %q", cmd)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	path := ConfigPath(dir)
	SaveConfig(path, &Config{})
	if err := writeFile(path, "{nope"); err != nil {
		t.Fatal(err)
	}
	r, err := Load(dir)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if r == nil || len(r.BindingsForContext(ContextGlobal)) == 0 {
		t.Fatal("defaults should still be registered")
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
