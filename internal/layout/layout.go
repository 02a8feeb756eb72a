// Package layout maps a viewport width to a device class, the terminal
// counterpart of the responsive breakpoints.
package layout

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

// Class is the device class for a width
type Class string

const (
	Mobile  Class = "mobile"
	Tablet  Class = "tablet"
	Desktop Class = "desktop"
)

// Breakpoints in pixels
const (
	MobileMaxPx = 768
	TabletMaxPx = 1024
)

// PxPerColumn converts terminal cells into the pixel units the breakpoints
// are expressed in
const PxPerColumn = 8

const defaultColumns = 80

// Classify returns the class of a width in pixels
func Classify(px int) Class {
	switch {
	case px <= MobileMaxPx:
		return Mobile
	case px <= TabletMaxPx:
		return Tablet
	default:
		return Desktop
	}
}

// ForColumns classifies a terminal width
func ForColumns(cols int) Class {
	return Classify(cols * PxPerColumn)
}

// Compact reports whether the single-pane layout should be used
func (c Class) Compact() bool {
	return c == Mobile
}

// TerminalWidth returns the width of stdout, then $COLUMNS, then fallback
func TerminalWidth(fallback int) int {
	if fallback <= 0 {
		fallback = defaultColumns
	}
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if parsed, err := strconv.Atoi(cols); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

// Current classifies the terminal the process is attached to
func Current() Class {
	return ForColumns(TerminalWidth(defaultColumns))
}
