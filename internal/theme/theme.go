// Package theme stores the dark mode preference and the two color palettes.
package theme

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"
)

// StorageKey holds "true" or "false" once the user has chosen a mode
const StorageKey = "darkMode"

// Persister is a string key/value store
type Persister interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

type deleter interface {
	Delete(key string) error
}

// Store resolves dark mode from the saved preference, or from the terminal
// background when nothing is saved
type Store struct {
	persist Persister
	system  func() bool
}

// New returns a Store. A nil system probe uses lipgloss background detection.
func New(p Persister, system func() bool) *Store {
	if system == nil {
		system = lipgloss.HasDarkBackground
	}
	return &Store{persist: p, system: system}
}

func (s *Store) saved() (dark, ok bool) {
	if s.persist == nil {
		return false, false
	}
	v, ok, err := s.persist.Get(StorageKey)
	if err != nil {
		slog.Warn("load dark mode", "err", err)
		return false, false
	}
	if !ok || v == "" {
		return false, false
	}
	return v == "true", true
}

// Dark reports whether the dark palette is active
func (s *Store) Dark() bool {
	if dark, ok := s.saved(); ok {
		return dark
	}
	return s.system()
}

// FollowsSystem reports whether no explicit preference is saved
func (s *Store) FollowsSystem() bool {
	_, ok := s.saved()
	return !ok
}

// Toggle saves an explicit preference
func (s *Store) Toggle(dark bool) {
	if s.persist == nil {
		return
	}
	v := "false"
	if dark {
		v = "true"
	}
	if err := s.persist.Set(StorageKey, v); err != nil {
		slog.Warn("save dark mode", "err", err)
	}
}

// FollowSystem forgets the saved preference
func (s *Store) FollowSystem() {
	if s.persist == nil {
		return
	}
	var err error
	if d, ok := s.persist.(deleter); ok {
		err = d.Delete(StorageKey)
	} else {
		err = s.persist.Set(StorageKey, "")
	}
	if err != nil {
		slog.Warn("reset dark mode", "err", err)
	}
}

// Palette is the set of colors the TUI and CLI render with
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Text      lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color
	Highlight lipgloss.Color
}

// Dark and Light palettes
var (
	DarkPalette = Palette{
		Primary:   lipgloss.Color("212"),
		Secondary: lipgloss.Color("141"),
		Muted:     lipgloss.Color("241"),
		Text:      lipgloss.Color("252"),
		Success:   lipgloss.Color("42"),
		Warning:   lipgloss.Color("214"),
		Error:     lipgloss.Color("196"),
		Border:    lipgloss.Color("238"),
		Highlight: lipgloss.Color("237"),
	}
	LightPalette = Palette{
		Primary:   lipgloss.Color("162"),
		Secondary: lipgloss.Color("61"),
		Muted:     lipgloss.Color("245"),
		Text:      lipgloss.Color("235"),
		Success:   lipgloss.Color("28"),
		Warning:   lipgloss.Color("166"),
		Error:     lipgloss.Color("160"),
		Border:    lipgloss.Color("250"),
		Highlight: lipgloss.Color("254"),
	}
)

// For returns the palette for the given mode
func For(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}
