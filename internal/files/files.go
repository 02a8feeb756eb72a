// Package files owns the flat file list: favorites, the selected file shown
// in the preview card, and the recent/favorite views derived from it.
package files

import (
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sort"

	"github.com/smhrd/smartsearch/internal/models"
)

// FavoritesKey is the storage key holding favorite file IDs
const FavoritesKey = "files:favorites"

// StripSize is how many files the recent strip under the chat input shows
const StripSize = 6

// ErrNotFound is returned for an unknown file ID
var ErrNotFound = errors.New("file not found")

// RecentOrder ranks the relative modification labels from newest to oldest.
// Labels outside the ladder sort after all of them.
var RecentOrder = []string{"방금 전", "2시간 전", "5시간 전", "1일 전", "2일 전", "3일 전", "1주 전"}

// Persister is a string key/value store
type Persister interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Stats summarizes the file list for the home screen
type Stats struct {
	Total     int `json:"total"`
	Favorites int `json:"favorites"`
}

// Store holds the flat file list. Folder views are derived from it and must
// be rebuilt after a mutation.
type Store struct {
	files    []models.FileRecord
	selected *models.FileRecord
	persist  Persister
}

// NewStore copies files and applies persisted favorites on top of the
// catalog's own flags
func NewStore(files []models.FileRecord, p Persister) *Store {
	s := &Store{files: slices.Clone(files), persist: p}
	s.applyFavorites()
	return s
}

func (s *Store) applyFavorites() {
	favs, ok := s.loadFavorites()
	if !ok {
		return
	}
	for i := range s.files {
		s.files[i].IsFavorite = slices.Contains(favs, s.files[i].ID)
	}
}

func (s *Store) loadFavorites() ([]string, bool) {
	if s.persist == nil {
		return nil, false
	}
	raw, ok, err := s.persist.Get(FavoritesKey)
	if err != nil {
		slog.Warn("load favorites", "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		slog.Warn("discarding malformed favorites", "err", err)
		return nil, false
	}
	return ids, true
}

func (s *Store) saveFavorites() {
	if s.persist == nil {
		return
	}
	ids := []string{}
	for _, f := range s.files {
		if f.IsFavorite {
			ids = append(ids, f.ID)
		}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		slog.Warn("encode favorites", "err", err)
		return
	}
	if err := s.persist.Set(FavoritesKey, string(data)); err != nil {
		slog.Warn("save favorites", "err", err)
	}
}

// Replace swaps the file list, for example after the catalog is reloaded.
// Persisted favorites are applied again.
func (s *Store) Replace(files []models.FileRecord) {
	s.files = slices.Clone(files)
	s.applyFavorites()
	if s.selected != nil {
		if f, err := s.Get(s.selected.ID); err == nil {
			s.selected = &f
		} else {
			s.selected = nil
		}
	}
}

// Files returns the flat list in catalog order
func (s *Store) Files() []models.FileRecord {
	return slices.Clone(s.files)
}

// Get returns the file with the given ID
func (s *Store) Get(id string) (models.FileRecord, error) {
	for _, f := range s.files {
		if f.ID == id {
			return f, nil
		}
	}
	return models.FileRecord{}, ErrNotFound
}

// ToggleFavorite flips the favorite flag on the flat list and returns the
// updated record
func (s *Store) ToggleFavorite(id string) (models.FileRecord, error) {
	for i := range s.files {
		if s.files[i].ID == id {
			s.files[i].IsFavorite = !s.files[i].IsFavorite
			if s.selected != nil && s.selected.ID == id {
				s.selected.IsFavorite = s.files[i].IsFavorite
			}
			s.saveFavorites()
			return s.files[i], nil
		}
	}
	return models.FileRecord{}, ErrNotFound
}

// Select opens the preview for a file
func (s *Store) Select(id string) error {
	f, err := s.Get(id)
	if err != nil {
		return err
	}
	s.selected = &f
	return nil
}

// Selected returns the file in the preview card, if any
func (s *Store) Selected() (models.FileRecord, bool) {
	if s.selected == nil {
		return models.FileRecord{}, false
	}
	return *s.selected, true
}

// ClosePreview clears the selected file
func (s *Store) ClosePreview() {
	s.selected = nil
}

// Recent returns every file ordered by the relative modification ladder.
// Files with the same label keep catalog order.
func (s *Store) Recent() []models.FileRecord {
	out := slices.Clone(s.files)
	sort.SliceStable(out, func(i, j int) bool {
		return recentRank(out[i].Modified) < recentRank(out[j].Modified)
	})
	return out
}

func recentRank(label string) int {
	if i := slices.Index(RecentOrder, label); i >= 0 {
		return i
	}
	return len(RecentOrder)
}

// Strip returns the first n recent files
func (s *Store) Strip(n int) []models.FileRecord {
	recent := s.Recent()
	if len(recent) > n {
		recent = recent[:n]
	}
	return recent
}

// Favorites returns the favorite files in catalog order
func (s *Store) Favorites() []models.FileRecord {
	var out []models.FileRecord
	for _, f := range s.files {
		if f.IsFavorite {
			out = append(out, f)
		}
	}
	return out
}

// Stats counts files and favorites
func (s *Store) Stats() Stats {
	st := Stats{Total: len(s.files)}
	for _, f := range s.files {
		if f.IsFavorite {
			st.Favorites++
		}
	}
	return st
}
