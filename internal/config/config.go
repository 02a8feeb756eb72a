// Package config reads and writes the local workspace configuration at
// .smartsearch/config.json.
package config

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/smhrd/smartsearch/internal/fslock"
	"github.com/smhrd/smartsearch/internal/models"
)

const (
	configFile = ".smartsearch/config.json"
	lockFile   = ".smartsearch/config.json.lock"

	// lockWait bounds how long Update waits on another writer
	lockWait = 2 * time.Second
)

const (
	// DefaultServerURL is the auth server used when none is configured
	DefaultServerURL = "http://localhost:8080"

	// ServerURLEnv overrides the configured server URL
	ServerURLEnv = "SMARTSEARCH_SERVER_URL"
)

// Load reads the config under baseDir. A missing file is an empty config.
func Load(baseDir string) (*models.Config, error) {
	cfg := &models.Config{}
	data, err := os.ReadFile(filepath.Join(baseDir, configFile))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	return cfg, nil
}

// Save replaces config.json atomically. Use Update for read-modify-write.
func Save(baseDir string, cfg *models.Config) error {
	path := filepath.Join(baseDir, configFile)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "config-*.json.tmp")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Update applies fn to the stored config while holding the config lock.
func Update(baseDir string, fn func(*models.Config)) error {
	path := filepath.Join(baseDir, lockFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := fslock.Lock(f, lockWait); err != nil {
		return fmt.Errorf("lock config: %w", err)
	}
	defer fslock.Unlock(f)

	cfg, err := Load(baseDir)
	if err != nil {
		return err
	}
	fn(cfg)
	return Save(baseDir, cfg)
}

// ServerURL resolves the auth server: environment, then config, then default
func ServerURL(baseDir string) (string, error) {
	if v := os.Getenv(ServerURLEnv); v != "" {
		return v, nil
	}
	cfg, err := Load(baseDir)
	if err != nil {
		return "", err
	}
	return cmp.Or(cfg.ServerURL, DefaultServerURL), nil
}

func SetServerURL(baseDir, url string) error {
	return Update(baseDir, func(c *models.Config) { c.ServerURL = url })
}

// SetCatalogPath stores the user catalog path; empty restores the built-in one
func SetCatalogPath(baseDir, path string) error {
	return Update(baseDir, func(c *models.Config) { c.CatalogPath = path })
}

// SetWatchCatalog toggles hot reload of the user catalog
func SetWatchCatalog(baseDir string, watch bool) error {
	return Update(baseDir, func(c *models.Config) { c.WatchCatalog = watch })
}

// SetSession stores the signed-in email and token. An empty token signs out
// but keeps the last email for the login form.
func SetSession(baseDir, email, token string) error {
	return Update(baseDir, func(c *models.Config) {
		if email != "" {
			c.LastEmail = email
		}
		c.AuthToken = token
	})
}

func SetOnboardingComplete(baseDir string, done bool) error {
	return Update(baseDir, func(c *models.Config) { c.OnboardingComplete = done })
}

// CatalogPath returns the configured catalog path, relative paths resolved
// against baseDir. Empty means the built-in catalog.
func CatalogPath(baseDir string) (string, error) {
	cfg, err := Load(baseDir)
	if err != nil {
		return "", err
	}
	p := cfg.CatalogPath
	if p != "" && !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	return p, nil
}
