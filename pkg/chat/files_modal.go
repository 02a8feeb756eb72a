package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/search"
)

const facetAll = "all"

// FileModal is the file search overlay
type FileModal struct {
	Input  textinput.Model
	Type   string
	Owner  string
	Cursor int
}

func newFileModal() *FileModal {
	in := textinput.New()
	in.Placeholder = "파일 이름, 형식, 작성자 검색..."
	in.Focus()
	return &FileModal{Input: in, Type: facetAll, Owner: facetAll}
}

// Results applies the query and facets. Substring matches come first; when
// none match, fuzzy matching is tried before giving up.
func (fm *FileModal) Results(all []models.FileRecord) []models.FileRecord {
	q := strings.TrimSpace(fm.Input.Value())
	facets := search.FilterOptions{Type: fm.Type, Owner: fm.Owner}
	out := search.Filter(q, all, facets)
	if len(out) == 0 && q != "" {
		out = search.Filter("", search.Fuzzy(q, all), facets)
	}
	return out
}

// cycle advances cur through "all" followed by values
func cycle(cur string, values []string) string {
	opts := append([]string{facetAll}, values...)
	for i, v := range opts {
		if v == cur {
			return opts[(i+1)%len(opts)]
		}
	}
	return facetAll
}

func (fm *FileModal) clamp(n int) {
	if fm.Cursor >= n {
		fm.Cursor = n - 1
	}
	if fm.Cursor < 0 {
		fm.Cursor = 0
	}
}

func facetLabel(v string) string {
	if v == facetAll {
		return "전체"
	}
	return v
}

func (m Model) renderFileModal(width, height int) string {
	fm := m.Modal
	all := m.Files.Files()
	results := fm.Results(all)

	var b strings.Builder
	b.WriteString(m.styles.title.Render("파일 검색"))
	b.WriteString("\n\n")
	b.WriteString(fm.Input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("형식: %s · 작성자: %s · %d개 결과",
		facetLabel(fm.Type), facetLabel(fm.Owner), len(results))))
	b.WriteString("\n\n")

	if len(results) == 0 {
		b.WriteString(m.styles.muted.Render("검색 결과가 없습니다."))
	}
	visible := max(height-8, 1)
	start := 0
	if fm.Cursor >= visible {
		start = fm.Cursor - visible + 1
	}
	for i := start; i < len(results) && i < start+visible; i++ {
		line := m.fileLine(results[i], width-4)
		if i == fm.Cursor {
			line = m.styles.cursor.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return m.styles.modal.Width(width).Render(b.String())
}
