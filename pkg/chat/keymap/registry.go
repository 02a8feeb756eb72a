package keymap

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// chordTimeout is how long the first key of "g g" style chords stays armed
const chordTimeout = 500 * time.Millisecond

// Binding maps a key or a space-separated chord to a command in one context
type Binding struct {
	Key         string // "tab", "ctrl+f", "g g"
	Command     Command
	Context     Context
	Description string // shown in help and the footer
}

type overrideKey struct {
	ctx Context
	key string
}

// Registry resolves key presses to commands. User overrides beat the
// active context's bindings, which beat global bindings.
type Registry struct {
	mu        sync.RWMutex
	bindings  map[Context][]Binding
	overrides map[overrideKey]Command

	chord   string
	chordAt time.Time
	now     func() time.Time
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		bindings:  make(map[Context][]Binding),
		overrides: make(map[overrideKey]Command),
		now:       time.Now,
	}
}

func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[b.Context] = append(r.bindings[b.Context], b)
}

func (r *Registry) RegisterBindings(bindings []Binding) {
	for _, b := range bindings {
		r.RegisterBinding(b)
	}
}

// SetUserOverride binds key to cmd in context ahead of every default
func (r *Registry) SetUserOverride(context Context, key string, cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[overrideKey{context, key}] = cmd
}

// scopes lists the contexts searched for active, most specific first
func scopes(active Context) []Context {
	if active == "" || active == ContextGlobal {
		return []Context{ContextGlobal}
	}
	return []Context{active, ContextGlobal}
}

// Lookup resolves key in the active context. A key that starts a chord is
// held and reports false; the next key completes or abandons it.
func (r *Registry) Lookup(key tea.KeyMsg, active Context) (Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := KeyToString(key)
	now := r.now()

	if held := r.takeChord(now); held != "" {
		if cmd, ok := r.resolve(held+" "+k, active); ok {
			return cmd, true
		}
	}
	if r.startsChord(k, active) {
		r.chord, r.chordAt = k, now
		return "", false
	}
	return r.resolve(k, active)
}

// takeChord returns and clears the held key if it has not expired
func (r *Registry) takeChord(now time.Time) string {
	held := r.chord
	r.chord = ""
	if held == "" || now.Sub(r.chordAt) >= chordTimeout {
		return ""
	}
	return held
}

func (r *Registry) resolve(key string, active Context) (Command, bool) {
	ctxs := scopes(active)
	for _, ctx := range ctxs {
		if cmd, ok := r.overrides[overrideKey{ctx, key}]; ok {
			return cmd, true
		}
	}
	for _, ctx := range ctxs {
		for _, b := range r.bindings[ctx] {
			if b.Key == key {
				return b.Command, true
			}
		}
	}
	return "", false
}

func (r *Registry) startsChord(key string, active Context) bool {
	prefix := key + " "
	for _, ctx := range scopes(active) {
		for _, b := range r.bindings[ctx] {
			if strings.HasPrefix(b.Key, prefix) {
				return true
			}
		}
	}
	for o := range r.overrides {
		if strings.HasPrefix(o.key, prefix) {
			return true
		}
	}
	return false
}

// ResetPending drops a half-typed chord
func (r *Registry) ResetPending() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chord = ""
}

// PendingKey returns the held first key of a chord, for the status line
func (r *Registry) PendingKey() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.chord == "" || r.now().Sub(r.chordAt) >= chordTimeout {
		return ""
	}
	return r.chord
}

// BindingsForContext returns the context's bindings followed by the globals
func (r *Registry) BindingsForContext(context Context) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Binding
	for _, ctx := range scopes(context) {
		out = append(out, r.bindings[ctx]...)
	}
	return out
}

// KeysFor returns the keys bound to cmd in context, user overrides first.
func (r *Registry) KeysFor(context Context, cmd Command) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctxs := scopes(context)
	var keys []string
	for o, c := range r.overrides {
		if c == cmd && (o.ctx == context || o.ctx == ContextGlobal) {
			keys = append(keys, o.key)
		}
	}
	for _, ctx := range ctxs {
		for _, b := range r.bindings[ctx] {
			if b.Command == cmd {
				keys = append(keys, b.Key)
			}
		}
	}
	return keys
}

var keyNames = map[tea.KeyType]string{
	tea.KeyTab:       "tab",
	tea.KeyShiftTab:  "shift+tab",
	tea.KeyEnter:     "enter",
	tea.KeyEsc:       "esc",
	tea.KeySpace:     "space",
	tea.KeyBackspace: "backspace",
	tea.KeyDelete:    "delete",
	tea.KeyUp:        "up",
	tea.KeyDown:      "down",
	tea.KeyLeft:      "left",
	tea.KeyRight:     "right",
	tea.KeyHome:      "home",
	tea.KeyEnd:       "end",
	tea.KeyPgUp:      "pgup",
	tea.KeyPgDown:    "pgdown",
}

// KeyToString names a key the way Binding.Key spells it
func KeyToString(key tea.KeyMsg) string {
	if name, ok := keyNames[key.Type]; ok {
		return name
	}
	if key.Type == tea.KeyRunes {
		if string(key.Runes) == " " {
			return "space"
		}
		return string(key.Runes)
	}
	return key.String()
}

// IsPrintable reports whether key is typed text rather than a shortcut
func IsPrintable(key tea.KeyMsg) bool {
	switch key.Type {
	case tea.KeySpace:
		return true
	case tea.KeyRunes:
		return !key.Alt && len(key.Runes) > 0
	}
	return false
}
