// Package suggest proposes close matches for mistyped folder IDs, file names
// and flags using Levenshtein distance.
package suggest

import (
	"sort"
	"strings"
)

// maxSuggestions caps how many candidates are returned
const maxSuggestions = 3

// levenshtein is the rune-wise edit distance between a and b
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(
				prev[j]+1,      // deletion
				cur[j-1]+1,     // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// Closest returns up to three candidates within reach of unknown, best first.
// Comparison is case-insensitive; a candidate is in reach when it is within
// three edits or half the length of unknown.
func Closest(unknown string, candidates []string) []string {
	unknown = strings.ToLower(unknown)
	maxDist := max(3, len([]rune(unknown))/2)

	type scored struct {
		value string
		dist  int
	}
	var hits []scored
	for _, c := range candidates {
		d := levenshtein(unknown, strings.ToLower(c))
		if d <= maxDist {
			hits = append(hits, scored{c, d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	var out []string
	for i := 0; i < len(hits) && i < maxSuggestions; i++ {
		out = append(out, hits[i].value)
	}
	return out
}

// Flag suggests valid flags for an unknown one. Leading dashes are ignored.
func Flag(unknown string, validFlags []string) []string {
	unknown = strings.TrimLeft(unknown, "-")
	stripped := make([]string, len(validFlags))
	index := make(map[string]string, len(validFlags))
	for i, f := range validFlags {
		stripped[i] = strings.TrimLeft(f, "-")
		index[stripped[i]] = f
	}
	var out []string
	for _, s := range Closest(unknown, stripped) {
		out = append(out, index[s])
	}
	return out
}

// CommonFlagAliases maps commonly attempted flags to their correct names
var CommonFlagAliases = map[string]string{
	"folder":  "--in",
	"folders": "--in",
	"dir":     "--in",
	"scope":   "--in",

	"count": "--limit, -n",
	"top":   "--limit, -n",
	"max":   "--limit, -n",

	"kind":   "--type",
	"format": "--type",
	"author": "--owner",
	"user":   "--owner",

	"cascade": "use: smartsearch select <folder-id> (cascades by default)",
	"version": "use: smartsearch version",
	"v":       "use: smartsearch version",
}

// GetFlagHint returns a hint for a commonly misused flag
func GetFlagHint(flag string) string {
	flag = strings.ToLower(strings.TrimLeft(flag, "-"))
	return CommonFlagAliases[flag]
}
