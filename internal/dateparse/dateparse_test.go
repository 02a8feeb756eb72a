package dateparse

import (
	"testing"
	"time"
)

func TestParseSinceFrom(t *testing.T) {
	// Wednesday
	now := time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"today", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)},
		{"Yesterday", time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC)},
		{"this-week", time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)},
		{"this-month", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"7d", now.AddDate(0, 0, -7)},
		{"2w", now.AddDate(0, 0, -14)},
		{"1m", now.AddDate(0, -1, 0)},
		{"24h", now.Add(-24 * time.Hour)},
		{"1h30m", now.Add(-90 * time.Minute)},
		{"3m", now.AddDate(0, -3, 0)},
		{" 0d ", now},
	}
	for _, tt := range tests {
		got, err := ParseSinceFrom(tt.input, now)
		if err != nil {
			t.Errorf("ParseSinceFrom(%q): %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseSinceFrom(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseSinceThisWeekOnMonday(t *testing.T) {
	monday := time.Date(2024, 5, 13, 9, 0, 0, 0, time.UTC)
	got, err := ParseSinceFrom("this-week", monday)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseSinceErrors(t *testing.T) {
	now := time.Now()
	for _, in := range []string{"", "soon", "-3d", "5x", "2024-13-01", "-1h"} {
		if _, err := ParseSinceFrom(in, now); err == nil {
			t.Errorf("ParseSinceFrom(%q) should fail", in)
		}
	}
}
