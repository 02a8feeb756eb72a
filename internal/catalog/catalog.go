// Package catalog loads the drive catalog: the fixed folder definitions,
// the flat file list and the registered API keys.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/smhrd/smartsearch/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrDuplicateID is returned when two entries of the same kind share an ID
var ErrDuplicateID = errors.New("duplicate id")

// Catalog is the decoded catalog document
type Catalog struct {
	Folders []models.FolderDef  `yaml:"folders"`
	Files   []models.FileRecord `yaml:"files"`
	APIKeys []models.APIKey     `yaml:"api_keys"`
}

// Default returns the embedded catalog
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads the catalog at path. An empty path or a missing file falls back
// to the embedded default; a file that exists but does not parse is an error.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Files))
	for _, f := range c.Files {
		if f.ID == "" {
			return fmt.Errorf("file %q: missing id", f.Name)
		}
		if seen[f.ID] {
			return fmt.Errorf("file %s: %w", f.ID, ErrDuplicateID)
		}
		seen[f.ID] = true
	}

	top := make(map[string]bool, len(c.Folders))
	for _, d := range c.Folders {
		if d.ID == "" {
			return fmt.Errorf("folder %q: missing id", d.Name)
		}
		if top[d.ID] {
			return fmt.Errorf("folder %s: %w", d.ID, ErrDuplicateID)
		}
		top[d.ID] = true
	}

	keys := make(map[string]bool, len(c.APIKeys))
	for _, k := range c.APIKeys {
		if keys[k.ID] {
			return fmt.Errorf("api key %s: %w", k.ID, ErrDuplicateID)
		}
		keys[k.ID] = true
	}
	return nil
}

// Clone returns a deep copy so callers can mutate files and keys freely
func (c *Catalog) Clone() *Catalog {
	out := &Catalog{
		Folders: cloneDefs(c.Folders),
		Files:   append([]models.FileRecord(nil), c.Files...),
		APIKeys: append([]models.APIKey(nil), c.APIKeys...),
	}
	return out
}

func cloneDefs(defs []models.FolderDef) []models.FolderDef {
	if defs == nil {
		return nil
	}
	out := make([]models.FolderDef, len(defs))
	for i, d := range defs {
		out[i] = d
		out[i].SubFolders = cloneDefs(d.SubFolders)
	}
	return out
}
