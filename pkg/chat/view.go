package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/smhrd/smartsearch/internal/apikeys"
	"github.com/smhrd/smartsearch/internal/files"
	"github.com/smhrd/smartsearch/internal/help"
	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/output"
	"github.com/smhrd/smartsearch/pkg/chat/keymap"
)

func (m Model) renderView() string {
	var body string
	switch {
	case m.Form != nil:
		body = m.renderForm()
	case m.ShowHelp:
		body = m.renderHelp()
	default:
		if f, ok := m.Files.Selected(); ok {
			body = m.renderPreview(f)
		} else if m.Modal != nil {
			body = m.renderFileModal(min(m.Width-2, 90), m.Height-2)
		} else {
			body = m.renderScreen()
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

func (m Model) renderScreen() string {
	switch m.Screen() {
	case models.ScreenOnboarding:
		return m.renderOnboarding()
	case models.ScreenHome:
		return m.renderHome()
	case models.ScreenChat:
		return m.renderChat()
	case models.ScreenSettings:
		return m.renderSettings()
	}
	return ""
}

func (m Model) renderFooter() string {
	var parts []string
	if m.StatusMsg != "" {
		if m.StatusErr {
			parts = append(parts, m.styles.errText.Render(m.StatusMsg))
		} else {
			parts = append(parts, m.styles.success.Render(m.StatusMsg))
		}
	}
	if p := m.Keymap.PendingKey(); p != "" {
		parts = append(parts, m.styles.warning.Render(p+" …"))
	}
	parts = append(parts, m.styles.footer.Render(m.Keymap.Footer(m.currentContext(), m.Width)))
	return strings.Join(parts, "\n")
}

func (m Model) renderForm() string {
	var b strings.Builder
	if m.Form.Err != "" {
		b.WriteString(m.styles.errText.Render(m.Form.Err))
		b.WriteString("\n\n")
	}
	if m.Form.Busy {
		label := "로그인 중..."
		if m.Form.Kind == FormSignup {
			label = "가입 중..."
		}
		b.WriteString(m.styles.muted.Render(label))
		return b.String()
	}
	b.WriteString(m.Form.Form.View())
	switch m.Form.Kind {
	case FormLogin:
		b.WriteString("\n")
		b.WriteString(m.styles.muted.Render("계정이 없으신가요? ctrl+t 회원가입"))
	case FormSignup:
		b.WriteString("\n")
		b.WriteString(m.styles.muted.Render("이미 계정이 있으신가요? ctrl+t 로그인"))
	}
	return m.styles.panel.Render(b.String())
}

func (m Model) renderMarkdown(md string, width int) string {
	out, err := output.RenderMarkdownStyled(md, width, m.Theme.Dark())
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) renderOnboarding() string {
	dots := make([]string, len(help.Steps))
	for i := range help.Steps {
		if i == m.Step {
			dots[i] = m.styles.title.Render("●")
		} else {
			dots[i] = m.styles.muted.Render("○")
		}
	}
	next := "다음"
	if m.Step == len(help.Steps)-1 {
		next = "시작하기"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderMarkdown(help.StepMarkdown(m.Step), min(m.Width, 80)),
		strings.Join(dots, " "),
		m.styles.muted.Render(fmt.Sprintf("enter %s · esc 건너뛰기", next)),
	)
}

func (m Model) userName() string {
	if m.Sess == nil {
		return ""
	}
	if m.Sess.User.Name != "" {
		return m.Sess.User.Name
	}
	return m.Sess.User.Email
}

func (m Model) renderHome() string {
	width := min(m.Width, 100)
	stats := m.Files.Stats()

	var b strings.Builder
	greeting := "Smart Search"
	if name := m.userName(); name != "" {
		greeting = fmt.Sprintf("안녕하세요, %s님", name)
	}
	b.WriteString(m.styles.title.Render(greeting))
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render("AI 스마트 파일 검색 플랫폼"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("전체 파일 %s · 즐겨찾기 %s · 연결된 API %s\n\n",
		m.styles.title.Render(fmt.Sprint(stats.Total)),
		m.styles.favorite.Render(fmt.Sprint(stats.Favorites)),
		m.styles.success.Render(fmt.Sprint(len(m.Keys.Connected()))),
	))
	if !m.Keys.HasConnected() {
		b.WriteString(m.styles.warning.Render("연결된 API 키가 없습니다. 설정에서 연결하세요."))
		b.WriteString("\n\n")
	}

	b.WriteString(m.styles.title.Render("최근 파일"))
	b.WriteString("\n")
	for _, f := range m.Files.Strip(files.StripSize) {
		b.WriteString(m.fileLine(f, width-2))
		b.WriteString("\n")
	}

	if favs := m.Files.Favorites(); len(favs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.title.Render("즐겨찾기"))
		b.WriteString("\n")
		for _, f := range favs {
			b.WriteString(m.fileLine(f, width-2))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// fileLine renders a file as one line truncated to width
func (m Model) fileLine(f models.FileRecord, width int) string {
	star := " "
	if f.IsFavorite {
		star = m.styles.favorite.Render("★")
	}
	line := fmt.Sprintf("%s %s %s  %s", star, f.Icon, f.Name,
		m.styles.muted.Render(fmt.Sprintf("%s · %s · %s", f.Type, f.ModifiedBy, f.Modified)))
	if width > 0 {
		line = ansi.Truncate(line, width, "…")
	}
	return line
}

func (m Model) renderChat() string {
	inputHeight := 3
	stripHeight := 1
	height := max(m.Height-inputHeight-stripHeight-2, 3)

	if m.Compact() {
		if m.Focus == FocusSidebar {
			return m.renderSidebar(m.Width-1, height+inputHeight+stripHeight)
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderMessages(m.Width, height),
			m.renderStrip(m.Width),
			m.renderInput(m.Width),
		)
	}

	mainWidth := m.Width
	var sidebar string
	if m.SidebarOpen {
		sidebar = m.renderSidebar(SidebarWidth, height+inputHeight+stripHeight)
		mainWidth -= SidebarWidth + 2
	}
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderMessages(mainWidth, height),
		m.renderStrip(mainWidth),
		m.renderInput(mainWidth),
	)
	if sidebar == "" {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
}

// renderMessages renders the newest messages that fit in height
func (m Model) renderMessages(width, height int) string {
	var lines []string
	for _, msg := range m.Chat.Messages() {
		lines = append(lines, strings.Split(m.renderMessage(msg, width-2), "\n")...)
		lines = append(lines, "")
	}
	if m.Pending {
		lines = append(lines, m.styles.muted.Render("검색 중..."))
	}
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderMessage(msg models.ChatMessage, width int) string {
	stamp := m.styles.muted.Render(msg.Timestamp.Format("15:04"))
	if msg.Type == models.MessageUser {
		bubble := m.styles.userBubble.Render(ansi.Wrap(msg.Content, width*3/4, ""))
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble+" "+stamp)
	}

	var b strings.Builder
	b.WriteString(ansi.Wrap(msg.Content, width-4, ""))
	for _, f := range msg.Files {
		b.WriteString("\n")
		b.WriteString(m.fileLine(f, width-4))
	}
	return m.styles.botBubble.Render(b.String()) + " " + stamp
}

// renderStrip is the recent-files strip above the input
func (m Model) renderStrip(width int) string {
	names := []string{m.styles.muted.Render("최근:")}
	for _, f := range m.Files.Strip(files.StripSize) {
		names = append(names, f.Icon+" "+f.Name)
	}
	return ansi.Truncate(strings.Join(names, "  "), width, "…")
}

func (m Model) renderInput(width int) string {
	scope := m.styles.muted.Render("전체 파일")
	if n := len(m.Drive.Selected()); n > 0 {
		scope = m.styles.checked.Render(fmt.Sprintf("폴더 %d개", n))
	}
	m.Input.Width = max(width-ansi.StringWidth(scope)-8, 10)
	return m.styles.panel.Width(width - 2).Render(m.Input.View() + "  " + scope)
}

func (m Model) renderPreview(f models.FileRecord) string {
	fav := "☆ 즐겨찾기 추가"
	if f.IsFavorite {
		fav = "★ 즐겨찾기"
	}
	md := fmt.Sprintf("# %s %s\n\n| 항목 | 값 |\n|---|---|\n| 형식 | %s |\n| 크기 | %s |\n| 수정 | %s |\n| 수정한 사람 | %s |\n| 위치 | `%s` |\n\n%s\n",
		f.Icon, f.Name, f.Type, f.Size, f.Modified, f.ModifiedBy, f.Path, fav)
	return m.styles.modal.Render(m.renderMarkdown(md, min(m.Width-8, 72)))
}

func (m Model) renderSettings() string {
	width := min(m.Width, 100)
	var b strings.Builder
	b.WriteString(m.styles.title.Render("설정"))
	b.WriteString("\n\n")

	if m.Sess != nil {
		b.WriteString(fmt.Sprintf("계정: %s %s\n\n", m.userName(), m.styles.muted.Render("<"+m.Sess.User.Email+">")))
	}

	b.WriteString(m.styles.title.Render("API 연결"))
	b.WriteString("\n")
	keys := m.Keys.Keys()
	if len(keys) == 0 {
		b.WriteString(m.styles.muted.Render("등록된 API 키가 없습니다. a 키로 추가하세요."))
		b.WriteString("\n")
	}
	for i, k := range keys {
		badge := m.styles.muted.Render("○ 연결 안 됨")
		if k.IsConnected {
			badge = m.styles.success.Render("● 연결됨")
		}
		line := fmt.Sprintf("%s  %s  %s  %s", k.Name, k.MaskedKey, badge,
			m.styles.muted.Render("마지막 사용: "+apikeys.LastUsedLabel(k)))
		line = ansi.Truncate(line, width-2, "…")
		if i == m.KeyCursor {
			line = m.styles.cursor.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	mode := "라이트"
	if m.Theme.Dark() {
		mode = "다크"
	}
	if m.Theme.FollowsSystem() {
		mode += " (시스템)"
	}
	b.WriteString("\n")
	b.WriteString(m.styles.title.Render("화면"))
	b.WriteString("\n")
	b.WriteString("테마: " + mode + "\n")
	if m.opts.Version != "" {
		b.WriteString(m.styles.muted.Render("버전 " + m.opts.Version))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderHelp() string {
	secs := help.Sections()
	if len(secs) == 0 {
		return ""
	}
	page := m.HelpPage % len(secs)
	sec := secs[page]
	width := min(m.Width-6, 90)

	md := sec.Markdown
	if sec.ID == "shortcuts" {
		md += "\n" + m.Keymap.Markdown(m.Keymap.Contexts()...)
	}

	tabs := make([]string, len(secs))
	for i, s := range secs {
		if i == page {
			tabs[i] = m.styles.title.Render(s.Title)
		} else {
			tabs[i] = m.styles.muted.Render(s.Title)
		}
	}

	vp := viewport.New(width, max(m.Height-6, 3))
	vp.SetContent(m.renderMarkdown(md, width))
	vp.SetYOffset(m.HelpScroll)

	return m.styles.modal.Render(lipgloss.JoinVertical(lipgloss.Left,
		ansi.Truncate(strings.Join(tabs, " │ "), width, "…"),
		vp.View(),
	))
}

// Hints exposes the key hints of the active context
func (m Model) Hints() []keymap.HelpBinding {
	return m.Keymap.Hints(m.currentContext())
}
