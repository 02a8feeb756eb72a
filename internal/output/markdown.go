package output

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/smhrd/smartsearch/internal/layout"
)

const (
	defaultMarkdownWidth = 80
	minMarkdownWidth     = 20
)

// styleAuto asks glamour to detect the terminal background
const styleAuto = "auto"

type rendererKey struct {
	style string
	width int
}

// renderers caches one glamour renderer per style and width. A
// TermRenderer is not safe for concurrent use, so Render runs under the lock.
var renderers = struct {
	sync.Mutex
	m map[rendererKey]*glamour.TermRenderer
}{m: make(map[rendererKey]*glamour.TermRenderer)}

// RenderMarkdown renders for the current terminal width and background.
func RenderMarkdown(text string) (string, error) {
	return RenderMarkdownWithWidth(text, layout.TerminalWidth(defaultMarkdownWidth))
}

func RenderMarkdownWithWidth(text string, width int) (string, error) {
	return renderMarkdown(text, rendererKey{styleAuto, width})
}

// RenderMarkdownStyled renders with the dark or light style whatever the
// terminal reports, for when the user picked a mode.
func RenderMarkdownStyled(text string, width int, dark bool) (string, error) {
	style := "light"
	if dark {
		style = "dark"
	}
	return renderMarkdown(text, rendererKey{style, width})
}

func renderMarkdown(text string, key rendererKey) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	key.width = max(key.width, minMarkdownWidth)

	renderers.Lock()
	defer renderers.Unlock()
	r, ok := renderers.m[key]
	if !ok {
		styleOpt := glamour.WithStandardStyle(key.style)
		if key.style == styleAuto {
			styleOpt = glamour.WithAutoStyle()
		}
		var err error
		if r, err = glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(key.width)); err != nil {
			return "", err
		}
		renderers.m[key] = r
	}

	out, err := r.Render(text)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
