package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/smhrd/smartsearch/internal/drive"
	"github.com/smhrd/smartsearch/internal/models"
)

func (m Model) sidebarRows() []drive.Row {
	return drive.Visible(m.Drive.Tree())
}

func (m *Model) clampSidebarCursor() {
	n := len(m.sidebarRows())
	switch {
	case n == 0:
		m.SidebarCursor = 0
	case m.SidebarCursor >= n:
		m.SidebarCursor = n - 1
	case m.SidebarCursor < 0:
		m.SidebarCursor = 0
	}
}

func (m *Model) moveSidebar(delta int) {
	m.SidebarCursor += delta
	m.clampSidebarCursor()
}

// cursorRow returns the explorer row under the cursor
func (m Model) cursorRow() (drive.Row, bool) {
	rows := m.sidebarRows()
	if m.SidebarCursor < 0 || m.SidebarCursor >= len(rows) {
		return drive.Row{}, false
	}
	return rows[m.SidebarCursor], true
}

func checkBox(s models.CheckState) string {
	switch s {
	case models.CheckChecked:
		return "[x]"
	case models.CheckIndeterminate:
		return "[-]"
	default:
		return "[ ]"
	}
}

func chevron(n *models.FolderNode) string {
	if len(n.SubFolders) == 0 {
		return " "
	}
	if n.IsExpanded {
		return "▾"
	}
	return "▸"
}

func (m Model) renderSidebar(width, height int) string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("탐색기"))
	b.WriteString("\n")

	selected := len(m.Drive.Selected())
	scope := "전체 파일 검색"
	if selected > 0 {
		scope = fmt.Sprintf("선택된 폴더 %d개", selected)
	}
	b.WriteString(m.styles.muted.Render(scope))
	b.WriteString("\n\n")

	rows := m.sidebarRows()
	visible := max(height-4, 1)
	start := 0
	if m.SidebarCursor >= visible {
		start = m.SidebarCursor - visible + 1
	}
	for i := start; i < len(rows) && i < start+visible; i++ {
		r := rows[i]
		state := m.Drive.CheckState(r.Node.ID)
		line := fmt.Sprintf("%s%s %s %s %s",
			strings.Repeat("  ", r.Depth),
			chevron(r.Node),
			checkBox(state),
			r.Node.Icon,
			r.Node.Name,
		)
		count := fmt.Sprintf(" %d", len(r.Node.Files))
		line = ansi.Truncate(line, width-ansi.StringWidth(count)-2, "…") + m.styles.muted.Render(count)

		switch {
		case i == m.SidebarCursor && m.Focus == FocusSidebar:
			line = m.styles.cursor.Render(line)
		case state == models.CheckChecked:
			line = m.styles.checked.Render(line)
		case state == models.CheckIndeterminate:
			line = m.styles.partial.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return m.styles.sidebar.Width(width).Height(height).Render(b.String())
}
