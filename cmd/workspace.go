package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smhrd/smartsearch/internal/apikeys"
	"github.com/smhrd/smartsearch/internal/catalog"
	"github.com/smhrd/smartsearch/internal/config"
	"github.com/smhrd/smartsearch/internal/db"
	"github.com/smhrd/smartsearch/internal/drive"
	"github.com/smhrd/smartsearch/internal/files"
	"github.com/smhrd/smartsearch/internal/suggest"
	"github.com/smhrd/smartsearch/internal/theme"
)

var errUnknownFolder = errors.New("unknown folder")

// workspace bundles the local state every command reads: the state database
// and the stores layered over the catalog
type workspace struct {
	db      *db.DB
	catalog *catalog.Catalog
	files   *files.Store
	keys    *apikeys.Store
	drive   *drive.Store
	theme   *theme.Store
}

// openWorkspace opens the state database in baseDir and builds the stores
// from the configured catalog
func openWorkspace(baseDir string) (*workspace, error) {
	path, err := config.CatalogPath(baseDir)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	database, err := db.Open(baseDir)
	if err != nil {
		return nil, err
	}

	keys := apikeys.NewStore(cat.APIKeys, database)
	fileStore := files.NewStore(cat.Files, database)
	driveStore := drive.NewStore(cat.Folders, fileStore.Files(), database)
	driveStore.Rebuild(keys.Token(), fileStore.Files())

	return &workspace{
		db:      database,
		catalog: cat,
		files:   fileStore,
		keys:    keys,
		drive:   driveStore,
		theme:   theme.New(database, nil),
	}, nil
}

func (w *workspace) Close() error {
	return w.db.Close()
}

// rebuild refreshes the folder tree after files or connections change
func (w *workspace) rebuild() {
	w.drive.Rebuild(w.keys.Token(), w.files.Files())
}

// folderIDs validates ids against the current tree. Unknown IDs fail with
// the closest known IDs as suggestions.
func (w *workspace) folderIDs(ids []string) error {
	known := drive.AllIDs(w.drive.Tree())
	for _, id := range ids {
		if drive.Find(w.drive.Tree(), id) != nil {
			continue
		}
		if hints := suggest.Closest(id, known); len(hints) > 0 {
			return fmt.Errorf("%w: %q (did you mean %s?)", errUnknownFolder, id, strings.Join(hints, ", "))
		}
		return fmt.Errorf("%w: %q", errUnknownFolder, id)
	}
	return nil
}

// fileID checks id against the file list the same way
func (w *workspace) fileID(id string) error {
	if _, err := w.files.Get(id); err == nil {
		return nil
	}
	var known []string
	for _, f := range w.files.Files() {
		known = append(known, f.ID)
	}
	if hints := suggest.Closest(id, known); len(hints) > 0 {
		return fmt.Errorf("%w: %q (did you mean %s?)", files.ErrNotFound, id, strings.Join(hints, ", "))
	}
	return fmt.Errorf("%w: %q", files.ErrNotFound, id)
}
