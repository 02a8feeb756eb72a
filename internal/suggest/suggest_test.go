package suggest

import (
	"reflect"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"reports", "reports", 0},
		{"report", "reports", 1},
		{"reprots", "reports", 2},
		{"마케팅", "마켓팅", 1},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClosest(t *testing.T) {
	ids := []string{"reports", "quarterly", "marketing", "strategy", "projects", "hr", "design", "templates", "analysis", "products"}

	got := Closest("report", ids)
	if len(got) == 0 || got[0] != "reports" {
		t.Errorf("Closest(report) = %v, want reports first", got)
	}

	got = Closest("MARKETNG", ids)
	if len(got) == 0 || got[0] != "marketing" {
		t.Errorf("Closest(MARKETNG) = %v, want marketing first", got)
	}

	if got := Closest("zzzzzzzzzzzz", ids); len(got) != 0 {
		t.Errorf("Closest(zzzz) = %v, want none", got)
	}

	if got := Closest("x", ids); len(got) > maxSuggestions {
		t.Errorf("Closest returned %d suggestions, cap is %d", len(got), maxSuggestions)
	}
}

func TestFlag(t *testing.T) {
	got := Flag("--limt", []string{"--limit", "--json", "--in"})
	if !reflect.DeepEqual(got[:1], []string{"--limit"}) {
		t.Errorf("Flag(--limt) = %v", got)
	}
}

func TestGetFlagHint(t *testing.T) {
	if got := GetFlagHint("--Folder"); got != "--in" {
		t.Errorf("GetFlagHint(--Folder) = %q", got)
	}
	if got := GetFlagHint("--nothing"); got != "" {
		t.Errorf("GetFlagHint(--nothing) = %q, want empty", got)
	}
}
