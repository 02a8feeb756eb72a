// Package dateparse turns "since" arguments such as "7d", "yesterday" or
// "2024-05-01" into a point in time.
package dateparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseSince parses input relative to time.Now
func ParseSince(input string) (time.Time, error) {
	return ParseSinceFrom(input, time.Now())
}

// ParseSinceFrom parses input relative to now. Supported forms:
//   - Go durations: "24h", "1h30m"
//   - Relative days, weeks, months: "7d", "2w", "1m" (a bare m is months)
//   - Keywords: "today", "yesterday", "this-week", "this-month"
//   - Exact dates: "2024-05-01" (midnight in now's location)
func ParseSinceFrom(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date input")
	}

	if t, err := time.ParseInLocation(time.DateOnly, input, now.Location()); err == nil {
		return t, nil
	}

	day := midnight(now)
	switch input {
	case "today":
		return day, nil
	case "yesterday":
		return day.AddDate(0, 0, -1), nil
	case "this-week":
		back := (int(now.Weekday()) - int(time.Monday) + 7) % 7
		return day.AddDate(0, 0, -back), nil
	case "this-month":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}

	if len(input) >= 2 {
		unit := input[len(input)-1]
		if n, err := strconv.Atoi(input[:len(input)-1]); err == nil && n >= 0 {
			switch unit {
			case 'd':
				return now.AddDate(0, 0, -n), nil
			case 'w':
				return now.AddDate(0, 0, -7*n), nil
			case 'm':
				return now.AddDate(0, -n, 0), nil
			}
		}
	}

	if d, err := time.ParseDuration(input); err == nil && d >= 0 {
		return now.Add(-d), nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", input)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
