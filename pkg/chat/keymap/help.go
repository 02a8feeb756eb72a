package keymap

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// HelpBinding is one row of the key reference
type HelpBinding struct {
	Keys        string // Combined keys like "j / down"
	Description string
}

// Hints groups a context's bindings by command, in registration order.
// Global bindings are not included.
func (r *Registry) Hints(context Context) []HelpBinding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var order []Command
	keys := map[Command][]string{}
	desc := map[Command]string{}
	for _, b := range r.bindings[context] {
		if _, ok := keys[b.Command]; !ok {
			order = append(order, b.Command)
			desc[b.Command] = b.Description
		}
		keys[b.Command] = append(keys[b.Command], b.Key)
	}

	out := make([]HelpBinding, 0, len(order))
	for _, c := range order {
		out = append(out, HelpBinding{Keys: strings.Join(keys[c], " / "), Description: desc[c]})
	}
	return out
}

// Footer renders a one-line "key desc · key desc" hint, using the first key
// of each command and stopping before width is exceeded.
func (r *Registry) Footer(context Context, width int) string {
	var parts []string
	used := 0
	for _, h := range r.Hints(context) {
		key, _, _ := strings.Cut(h.Keys, " / ")
		part := fmt.Sprintf("%s %s", key, h.Description)
		w := ansi.StringWidth(part)
		if width > 0 && used+w > width {
			break
		}
		parts = append(parts, part)
		used += w + 3
	}
	return strings.Join(parts, " · ")
}

// Markdown renders the full key reference as a markdown table per context.
func (r *Registry) Markdown(contexts ...Context) string {
	var sb strings.Builder
	for _, ctx := range contexts {
		hints := r.Hints(ctx)
		if len(hints) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## %s\n\n| 키 | 동작 |\n|---|---|\n", ctx)
		for _, h := range hints {
			fmt.Fprintf(&sb, "| `%s` | %s |\n", h.Keys, h.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Contexts lists every context with registered bindings, sorted.
func (r *Registry) Contexts() []Context {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Context, 0, len(r.bindings))
	for ctx := range r.bindings {
		out = append(out, ctx)
	}
	slices.Sort(out)
	return out
}
