// Package keymap provides user-configurable key bindings for the chat TUI,
// loaded from .smartsearch/keymap.json.
package keymap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Config is the on-disk override file. Keys are "context:key", or a bare
// key for the global context:
//
//	{"bindings": {"sidebar:s": "toggle-select", "ctrl+q": "quit"}}
type Config struct {
	Bindings map[string]string `json:"bindings"`
}

func ConfigPath(baseDir string) string {
	return filepath.Join(baseDir, ".smartsearch", "keymap.json")
}

// LoadConfig reads path. A missing file is an empty config.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if cfg.Bindings == nil {
		cfg.Bindings = make(map[string]string)
	}
	return cfg, nil
}

// SaveConfig writes cfg atomically, creating the directory as needed
func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ApplyConfig installs cfg's entries as user overrides. Empty keys are ignored.
func ApplyConfig(r *Registry, cfg *Config) {
	for spec, cmd := range cfg.Bindings {
		ctx, key := ContextGlobal, spec
		if c, k, ok := strings.Cut(spec, ":"); ok && c != "" {
			ctx, key = Context(c), k
		}
		if key != "" {
			r.SetUserOverride(ctx, key, Command(cmd))
		}
	}
}

// Load returns the default bindings plus the overrides under baseDir. On a
// bad override file the defaults are still returned with the error.
func Load(baseDir string) (*Registry, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	cfg, err := LoadConfig(ConfigPath(baseDir))
	if err != nil {
		return r, err
	}
	ApplyConfig(r, cfg)
	return r, nil
}
