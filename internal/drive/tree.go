// Package drive holds the folder tree shown in the explorer sidebar: the
// tree built from the folder catalog, tri-state cascade selection over it,
// expand/collapse state, and persistence of the selection.
package drive

import (
	"strings"

	"github.com/smhrd/smartsearch/internal/models"
)

// DefaultExpandedID is the only folder that starts expanded after a build
const DefaultExpandedID = "reports"

// subfolderPrefixLen is how many runes of a subfolder's display name must
// appear in a file name for the file to be listed under that subfolder
const subfolderPrefixLen = 2

// BuildTree builds the folder tree from the catalog definitions. Output order
// follows defs. Files that match no folder are left out of the tree; the
// input slice is never modified.
func BuildTree(defs []models.FolderDef, files []models.FileRecord) []*models.FolderNode {
	nodes := make([]*models.FolderNode, 0, len(defs))
	for _, def := range defs {
		segment := "/" + def.ID + "/"
		inFolder := func(f models.FileRecord) bool {
			return strings.Contains(f.Path, segment)
		}
		node := &models.FolderNode{
			ID:         def.ID,
			Name:       def.Name,
			Icon:       def.Icon,
			IsExpanded: def.ID == DefaultExpandedID,
			Files:      filterFiles(files, inFolder),
		}
		for _, sub := range def.SubFolders {
			prefix := runePrefix(sub.Name, subfolderPrefixLen)
			inSub := func(f models.FileRecord) bool {
				return inFolder(f) && strings.Contains(strings.ToLower(f.Name), prefix)
			}
			node.SubFolders = append(node.SubFolders, &models.FolderNode{
				ID:    sub.ID,
				Name:  sub.Name,
				Icon:  sub.Icon,
				Files: filterFiles(files, inSub),
			})
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func filterFiles(files []models.FileRecord, keep func(models.FileRecord) bool) []models.FileRecord {
	out := []models.FileRecord{}
	for _, f := range files {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func runePrefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

// Walk visits every node depth-first in display order. Returning false from
// fn stops the walk.
func Walk(nodes []*models.FolderNode, fn func(n *models.FolderNode, depth int) bool) {
	walk(nodes, 0, fn)
}

func walk(nodes []*models.FolderNode, depth int, fn func(*models.FolderNode, int) bool) bool {
	for _, n := range nodes {
		if !fn(n, depth) {
			return false
		}
		if !walk(n.SubFolders, depth+1, fn) {
			return false
		}
	}
	return true
}

// Find returns the first node with the given ID in depth-first order
func Find(nodes []*models.FolderNode, id string) *models.FolderNode {
	var found *models.FolderNode
	Walk(nodes, func(n *models.FolderNode, _ int) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// AllIDs lists every folder ID in the tree, depth-first
func AllIDs(nodes []*models.FolderNode) []string {
	var ids []string
	Walk(nodes, func(n *models.FolderNode, _ int) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// Descendants lists the IDs below the first node matching id, not including
// the node itself. An unknown ID has no descendants.
func Descendants(nodes []*models.FolderNode, id string) []string {
	n := Find(nodes, id)
	if n == nil {
		return nil
	}
	return AllIDs(n.SubFolders)
}

// FilesUnder returns the files listed under the first node with id and under
// all of its descendants, in tree order. Duplicates are kept.
func FilesUnder(nodes []*models.FolderNode, id string) []models.FileRecord {
	n := Find(nodes, id)
	if n == nil {
		return nil
	}
	var out []models.FileRecord
	Walk([]*models.FolderNode{n}, func(x *models.FolderNode, _ int) bool {
		out = append(out, x.Files...)
		return true
	})
	return out
}

// Visible flattens the tree into the rows a sidebar shows: every top-level
// folder plus the children of expanded folders.
func Visible(nodes []*models.FolderNode) []Row {
	var rows []Row
	var visit func(ns []*models.FolderNode, parent string, depth int)
	visit = func(ns []*models.FolderNode, parent string, depth int) {
		for _, n := range ns {
			rows = append(rows, Row{Node: n, ParentID: parent, Depth: depth})
			if n.IsExpanded {
				visit(n.SubFolders, n.ID, depth+1)
			}
		}
	}
	visit(nodes, "", 0)
	return rows
}

// Row is one visible line of the explorer
type Row struct {
	Node     *models.FolderNode
	ParentID string
	Depth    int
}
