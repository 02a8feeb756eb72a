// Package search ranks catalog files against a chat query and implements the
// plain and fuzzy filters used by the file search modal.
package search

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/smhrd/smartsearch/internal/drive"
	"github.com/smhrd/smartsearch/internal/models"
)

// DefaultLimit is the number of results a chat answer carries
const DefaultLimit = 5

// Match weights
const (
	WeightName        = 10
	WeightNamePrefix  = 5
	WeightPath        = 8
	WeightType        = 6
	WeightModifiedBy  = 4
	WeightFavorite    = 2
	WeightDomainBonus = 15
)

// domainKeywords get an extra boost for files that live under /marketing/
// or carry the keyword in their name
var domainKeywords = map[string]bool{"마케팅": true, "marketing": true}

// RecentQueries are the suggestions shown in an empty search modal
var RecentQueries = []string{
	"2023년 발표자료",
	"홍길동 계약서",
	"송무 관련 PDF",
	"회의록 요약본",
	"신제품 기획서",
}

// Options controls Search
type Options struct {
	// Tree and FolderIDs restrict candidates to files listed under the given
	// folders or their descendants. An empty FolderIDs means no restriction.
	Tree      []*models.FolderNode
	FolderIDs []string
	// Limit caps the result count; zero means DefaultLimit.
	Limit int
}

// Result is a scored file
type Result struct {
	File  models.FileRecord
	Score int
}

// Normalize lower-cases and trims a query the way scoring expects it
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Score returns the relevance of f for an already normalized query.
// Favorites score WeightFavorite even when no field matched.
func Score(q string, f models.FileRecord) int {
	if q == "" {
		return 0
	}
	name := strings.ToLower(f.Name)
	path := strings.ToLower(f.Path)

	s := 0
	if strings.Contains(name, q) {
		s += WeightName
		if strings.HasPrefix(name, q) {
			s += WeightNamePrefix
		}
	}
	if strings.Contains(path, q) {
		s += WeightPath
	}
	if strings.Contains(strings.ToLower(f.Type), q) {
		s += WeightType
	}
	if strings.Contains(strings.ToLower(f.ModifiedBy), q) {
		s += WeightModifiedBy
	}
	if domainKeywords[q] && (strings.Contains(path, "/marketing/") || strings.Contains(name, "마케팅")) {
		s += WeightDomainBonus
	}
	if f.IsFavorite {
		s += WeightFavorite
	}
	return s
}

// Search scores files against query and returns the best matches, highest
// score first. Ties keep catalog order.
func Search(query string, files []models.FileRecord, opts Options) []Result {
	q := Normalize(query)
	if q == "" {
		return nil
	}
	if len(opts.FolderIDs) > 0 {
		files = drive.Scope(opts.Tree, opts.FolderIDs)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var results []Result
	for _, f := range files {
		if s := Score(q, f); s > 0 {
			results = append(results, Result{File: f, Score: s})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Files strips the scores from results
func Files(results []Result) []models.FileRecord {
	out := make([]models.FileRecord, len(results))
	for i, r := range results {
		out[i] = r.File
	}
	return out
}

// FilterOptions are the facets of the file search modal. Empty or "all"
// disables a facet.
type FilterOptions struct {
	Type  string
	Owner string
}

// Filter is the modal's substring search over name, type and author
// followed by the type and owner facets. Type compares case-insensitively,
// owner exactly.
func Filter(query string, files []models.FileRecord, opts FilterOptions) []models.FileRecord {
	q := strings.ToLower(query)
	out := []models.FileRecord{}
	for _, f := range files {
		if !strings.Contains(strings.ToLower(f.Name), q) &&
			!strings.Contains(strings.ToLower(f.Type), q) &&
			!strings.Contains(strings.ToLower(f.ModifiedBy), q) {
			continue
		}
		if facetSet(opts.Type) && !strings.EqualFold(f.Type, opts.Type) {
			continue
		}
		if facetSet(opts.Owner) && f.ModifiedBy != opts.Owner {
			continue
		}
		out = append(out, f)
	}
	return out
}

func facetSet(v string) bool {
	return v != "" && v != "all"
}

// fileSource adapts []FileRecord for the fuzzy library. Name, type and
// author are matched together.
type fileSource []models.FileRecord

func (s fileSource) String(i int) string {
	return s[i].Name + " " + s[i].Type + " " + s[i].ModifiedBy
}

func (s fileSource) Len() int {
	return len(s)
}

// Fuzzy ranks files with fzf-style matching, best first. An empty query
// returns files unchanged.
func Fuzzy(query string, files []models.FileRecord) []models.FileRecord {
	if strings.TrimSpace(query) == "" {
		return files
	}
	matches := fuzzy.FindFrom(query, fileSource(files))
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	out := make([]models.FileRecord, len(matches))
	for i, m := range matches {
		out[i] = files[m.Index]
	}
	return out
}

// Authors lists the distinct ModifiedBy values in first-seen order
func Authors(files []models.FileRecord) []string {
	return distinct(files, func(f models.FileRecord) string { return f.ModifiedBy })
}

// Types lists the distinct file types in first-seen order
func Types(files []models.FileRecord) []string {
	return distinct(files, func(f models.FileRecord) string { return f.Type })
}

func distinct(files []models.FileRecord, key func(models.FileRecord) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range files {
		k := key(f)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
