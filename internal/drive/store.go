package drive

import (
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/smhrd/smartsearch/internal/models"
)

// SelectionKey is the storage key holding the selected folder IDs
const SelectionKey = "drive:selected"

// Persister is a string key/value store, the local-storage equivalent
type Persister interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Store owns the folder tree and the folder selection. It is driven from a
// single UI loop and is not safe for concurrent use.
type Store struct {
	defs     []models.FolderDef
	tree     []*models.FolderNode
	token    string
	selected []string
	activeID string
	persist  Persister
}

// NewStore builds the tree and loads the persisted selection. A nil
// Persister keeps the selection in memory only.
func NewStore(defs []models.FolderDef, files []models.FileRecord, p Persister) *Store {
	s := &Store{defs: defs, persist: p}
	s.tree = BuildTree(defs, files)
	s.selected = loadSelection(p)
	return s
}

func loadSelection(p Persister) []string {
	if p == nil {
		return []string{}
	}
	raw, ok, err := p.Get(SelectionKey)
	if err != nil {
		slog.Warn("load folder selection", "err", err)
		return []string{}
	}
	if !ok || raw == "" {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		slog.Warn("discarding malformed folder selection", "err", err)
		return []string{}
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}

func (s *Store) save() {
	if s.persist == nil {
		return
	}
	data, err := json.Marshal(s.selected)
	if err != nil {
		slog.Warn("encode folder selection", "err", err)
		return
	}
	if err := s.persist.Set(SelectionKey, string(data)); err != nil {
		slog.Warn("save folder selection", "err", err)
	}
}

// Rebuild replaces the whole tree, resetting expand state. Selection is kept
// as is, including IDs that no longer exist in the new tree.
func (s *Store) Rebuild(token string, files []models.FileRecord) {
	s.token = token
	s.tree = BuildTree(s.defs, files)
}

// RefreshFiles rebuilds the tree from files after the flat list changed,
// keeping the token and every folder's expanded state.
func (s *Store) RefreshFiles(files []models.FileRecord) {
	open := map[string]bool{}
	markExpanded(s.tree, "", open)
	s.tree = BuildTree(s.defs, files)
	restoreExpanded(s.tree, "", open)
}

// markExpanded records IsExpanded by ID path, since IDs may repeat across
// parents
func markExpanded(nodes []*models.FolderNode, parent string, open map[string]bool) {
	for _, n := range nodes {
		p := parent + "/" + n.ID
		open[p] = n.IsExpanded
		markExpanded(n.SubFolders, p, open)
	}
}

func restoreExpanded(nodes []*models.FolderNode, parent string, open map[string]bool) {
	for _, n := range nodes {
		p := parent + "/" + n.ID
		if v, ok := open[p]; ok {
			n.IsExpanded = v
		}
		restoreExpanded(n.SubFolders, p, open)
	}
}

// SetDefinitions swaps the folder catalog and rebuilds the tree
func (s *Store) SetDefinitions(defs []models.FolderDef, files []models.FileRecord) {
	s.defs = defs
	s.tree = BuildTree(defs, files)
}

// Token returns the connection token the tree was last built for
func (s *Store) Token() string { return s.token }

// Tree returns the current tree. Callers must not mutate it.
func (s *Store) Tree() []*models.FolderNode { return s.tree }

// ActiveFolderID is the folder most recently expanded or collapsed
func (s *Store) ActiveFolderID() string { return s.activeID }

// Selected returns the selected IDs in the order they were added
func (s *Store) Selected() []string { return slices.Clone(s.selected) }

// IsSelected reports whether id is in the selection set
func (s *Store) IsSelected(id string) bool { return slices.Contains(s.selected, id) }

// DescendantIDs lists the IDs below the first node with the given ID
func (s *Store) DescendantIDs(id string) []string {
	return Descendants(s.tree, id)
}

func (s *Store) inclusive(id string) []string {
	return append([]string{id}, s.DescendantIDs(id)...)
}

// CheckState reports the tri-state checkbox value for a folder. IDs that are
// not in the current tree are always unchecked.
func (s *Store) CheckState(id string) models.CheckState {
	if Find(s.tree, id) == nil {
		return models.CheckUnchecked
	}
	ids := s.inclusive(id)
	k := 0
	for _, x := range ids {
		if s.IsSelected(x) {
			k++
		}
	}
	switch k {
	case 0:
		return models.CheckUnchecked
	case len(ids):
		return models.CheckChecked
	default:
		return models.CheckIndeterminate
	}
}

// ToggleCascade selects a folder together with all of its descendants, or
// clears all of them when every one is already selected.
func (s *Store) ToggleCascade(id string) {
	ids := s.inclusive(id)
	all := true
	for _, x := range ids {
		if !s.IsSelected(x) {
			all = false
			break
		}
	}
	if all {
		s.selected = slices.DeleteFunc(s.selected, func(x string) bool {
			return slices.Contains(ids, x)
		})
	} else {
		for _, x := range ids {
			if !s.IsSelected(x) {
				s.selected = append(s.selected, x)
			}
		}
	}
	s.save()
}

// ToggleSelect flips a single folder without touching its children
func (s *Store) ToggleSelect(id string) {
	if s.IsSelected(id) {
		s.selected = slices.DeleteFunc(s.selected, func(x string) bool { return x == id })
	} else {
		s.selected = append(s.selected, id)
	}
	s.save()
}

// SelectAll replaces the selection with every folder in the tree
func (s *Store) SelectAll() {
	s.selected = AllIDs(s.tree)
	if s.selected == nil {
		s.selected = []string{}
	}
	s.save()
}

// ClearSelection empties the selection
func (s *Store) ClearSelection() {
	s.selected = []string{}
	s.save()
}

// ToggleExpand flips the expand state of a folder. With an empty parentID the
// top-level folder with that ID is flipped; otherwise only the subfolder with
// that ID directly under parentID. Unknown IDs change nothing except the
// active folder.
func (s *Store) ToggleExpand(id, parentID string) {
	for _, n := range s.tree {
		if parentID == "" && n.ID == id {
			n.IsExpanded = !n.IsExpanded
		}
		if parentID != "" && n.ID == parentID {
			for _, sub := range n.SubFolders {
				if sub.ID == id {
					sub.IsExpanded = !sub.IsExpanded
				}
			}
		}
	}
	s.activeID = id
}

// ScopedFiles returns the files reachable from the selected folders, in
// selection order and deduplicated by file ID. ok is false when nothing is
// selected, meaning no restriction applies.
func (s *Store) ScopedFiles() (files []models.FileRecord, ok bool) {
	if len(s.selected) == 0 {
		return nil, false
	}
	return Scope(s.tree, s.selected), true
}

// Scope collects the files under the given folders and their descendants.
// The first occurrence of each file ID wins.
func Scope(tree []*models.FolderNode, folderIDs []string) []models.FileRecord {
	seen := make(map[string]bool)
	out := []models.FileRecord{}
	for _, id := range folderIDs {
		for _, f := range FilesUnder(tree, id) {
			if seen[f.ID] {
				continue
			}
			seen[f.ID] = true
			out = append(out, f)
		}
	}
	return out
}

// MemoryPersister is an in-memory Persister
type MemoryPersister map[string]string

// Get implements Persister
func (m MemoryPersister) Get(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

// Set implements Persister
func (m MemoryPersister) Set(key, value string) error {
	m[key] = value
	return nil
}
