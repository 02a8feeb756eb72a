package chat

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/smhrd/smartsearch/internal/help"
	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/screen"
	"github.com/smhrd/smartsearch/internal/search"
	"github.com/smhrd/smartsearch/pkg/chat/keymap"
)

// currentContext returns the keymap context for the focused surface
func (m Model) currentContext() keymap.Context {
	switch {
	case m.Form != nil:
		return keymap.ContextForm
	case m.ShowHelp:
		return keymap.ContextHelp
	}
	if _, ok := m.Files.Selected(); ok {
		return keymap.ContextPreview
	}
	if m.Modal != nil {
		return keymap.ContextFiles
	}
	switch m.Screen() {
	case models.ScreenOnboarding:
		return keymap.ContextOnboarding
	case models.ScreenHome:
		return keymap.ContextHome
	case models.ScreenSettings:
		return keymap.ContextSettings
	case models.ScreenChat:
		if m.Focus == FocusSidebar {
			return keymap.ContextSidebar
		}
		return keymap.ContextInput
	}
	return keymap.ContextGlobal
}

// CurrentContextString is the active keymap context, for the footer
func (m Model) CurrentContextString() string {
	return string(m.currentContext())
}

func isTextEntry(ctx keymap.Context) bool {
	return ctx == keymap.ContextInput || ctx == keymap.ContextFiles
}

// handleKey processes key input using the keymap registry. In text entry
// contexts printable keys always go to the text input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := m.currentContext()

	if isTextEntry(ctx) {
		if !keymap.IsPrintable(msg) {
			if cmd, found := m.Keymap.Lookup(msg, ctx); found {
				return m.executeCommand(cmd)
			}
		}
		var inputCmd tea.Cmd
		if ctx == keymap.ContextFiles {
			m.Modal.Input, inputCmd = m.Modal.Input.Update(msg)
			m.Modal.clamp(len(m.Modal.Results(m.Files.Files())))
		} else {
			m.Input, inputCmd = m.Input.Update(msg)
		}
		return m, inputCmd
	}

	if cmd, found := m.Keymap.Lookup(msg, ctx); found {
		return m.executeCommand(cmd)
	}
	return m, nil
}

// navigate moves to s and reports guard failures in the status line
func (m *Model) navigate(s models.Screen) {
	if err := m.Nav.Navigate(s); err != nil {
		switch {
		case errors.Is(err, screen.ErrOnboardingRequired):
			m.setStatus("온보딩을 먼저 완료하세요.", true)
		default:
			m.setStatus(err.Error(), true)
		}
		return
	}
	m.setStatus("", false)
	if s == models.ScreenChat {
		m.Focus = FocusInput
		m.Input.Focus()
	}
}

// executeCommand runs a keymap command against the current context
func (m Model) executeCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	ctx := m.currentContext()

	switch cmd {
	case keymap.CmdQuit:
		m.Close()
		return m, tea.Quit

	case keymap.CmdToggleHelp:
		m.ShowHelp = !m.ShowHelp
		m.HelpPage = 0
		m.HelpScroll = 0

	case keymap.CmdClose:
		switch ctx {
		case keymap.ContextForm:
			return m.closeForm()
		case keymap.ContextHelp:
			m.ShowHelp = false
		case keymap.ContextPreview:
			m.Files.ClosePreview()
		case keymap.ContextFiles:
			m.Modal = nil
		case keymap.ContextSettings:
			m.navigate(models.ScreenHome)
		}

	case keymap.CmdSwitchForm:
		if m.Form != nil {
			return m.switchForm()
		}

	case keymap.CmdOpenHome:
		m.Modal = nil
		m.navigate(models.ScreenHome)
	case keymap.CmdOpenChat:
		m.Modal = nil
		m.navigate(models.ScreenChat)
	case keymap.CmdOpenSettings:
		m.Modal = nil
		m.navigate(models.ScreenSettings)
	case keymap.CmdOpenFiles:
		if !m.Nav.Authenticated() || !m.Nav.Onboarded() {
			return m, nil
		}
		m.Modal = newFileModal()
		return m, m.Modal.Input.Focus()

	case keymap.CmdLogout:
		return m.logout()

	case keymap.CmdCursorDown, keymap.CmdCursorUp:
		delta := 1
		if cmd == keymap.CmdCursorUp {
			delta = -1
		}
		m.moveCursor(ctx, delta)
	case keymap.CmdCursorTop:
		m.SidebarCursor = 0
	case keymap.CmdCursorBottom:
		m.SidebarCursor = len(m.sidebarRows()) - 1
		m.clampSidebarCursor()

	case keymap.CmdFocusNext:
		if m.Focus == FocusSidebar {
			m.Focus = FocusInput
			return m, m.Input.Focus()
		}
		m.Focus = FocusSidebar
		m.SidebarOpen = true
		m.Input.Blur()

	case keymap.CmdNextPage, keymap.CmdPrevPage:
		next := cmd == keymap.CmdNextPage
		if ctx == keymap.ContextHelp {
			m.turnHelpPage(next)
			return m, nil
		}
		return m.turnStep(next)

	case keymap.CmdSkip:
		return m.finishOnboarding()

	case keymap.CmdToggleSelect:
		if row, ok := m.cursorRow(); ok {
			m.Drive.ToggleCascade(row.Node.ID)
		}
	case keymap.CmdToggleExpand:
		if row, ok := m.cursorRow(); ok {
			m.Drive.ToggleExpand(row.Node.ID, row.ParentID)
			m.clampSidebarCursor()
		}
	case keymap.CmdSelectAll:
		m.Drive.SelectAll()
	case keymap.CmdClearSelection:
		m.Drive.ClearSelection()
	case keymap.CmdToggleSidebar:
		m.SidebarOpen = !m.SidebarOpen
		if !m.SidebarOpen && m.Focus == FocusSidebar {
			m.Focus = FocusInput
			return m, m.Input.Focus()
		}

	case keymap.CmdSend:
		return m.send()
	case keymap.CmdClearChat:
		m.Chat.Reset()
		m.Pending = false

	case keymap.CmdOpenPreview:
		if f, ok := m.modalFile(); ok {
			if err := m.Files.Select(f.ID); err != nil {
				m.setStatus(err.Error(), true)
			}
		}
	case keymap.CmdToggleFavorite:
		m.toggleFavorite(ctx)
	case keymap.CmdCycleTypeFacet:
		if m.Modal != nil {
			m.Modal.Type = cycle(m.Modal.Type, search.Types(m.Files.Files()))
			m.Modal.Cursor = 0
		}
	case keymap.CmdCycleOwnerFacet:
		if m.Modal != nil {
			m.Modal.Owner = cycle(m.Modal.Owner, search.Authors(m.Files.Files()))
			m.Modal.Cursor = 0
		}

	case keymap.CmdToggleConnect, keymap.CmdDeleteKey, keymap.CmdDisconnectAll:
		m.keyCommand(cmd)
	case keymap.CmdAddKey:
		return m.openForm(newAddKeyForm())
	case keymap.CmdToggleDark:
		m.Theme.Toggle(!m.Theme.Dark())
		m.refreshStyles()
	case keymap.CmdFollowSystem:
		m.Theme.FollowSystem()
		m.refreshStyles()
	}

	return m, nil
}

func (m *Model) moveCursor(ctx keymap.Context, delta int) {
	switch ctx {
	case keymap.ContextSidebar:
		m.moveSidebar(delta)
	case keymap.ContextFiles:
		m.Modal.Cursor += delta
		m.Modal.clamp(len(m.Modal.Results(m.Files.Files())))
	case keymap.ContextSettings:
		m.KeyCursor = clampIndex(m.KeyCursor+delta, len(m.Keys.Keys()))
	case keymap.ContextHelp:
		m.HelpScroll = max(m.HelpScroll+delta, 0)
	}
}

func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (m Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.Input.Value())
	if m.Pending {
		return m, nil
	}
	if _, ok := m.Chat.Ask(text); !ok {
		return m, nil
	}
	m.Input.Reset()
	m.Pending = true
	return m, scheduleReply(text)
}

// modalFile is the file under the search modal cursor
func (m Model) modalFile() (models.FileRecord, bool) {
	if m.Modal == nil {
		return models.FileRecord{}, false
	}
	results := m.Modal.Results(m.Files.Files())
	if m.Modal.Cursor < 0 || m.Modal.Cursor >= len(results) {
		return models.FileRecord{}, false
	}
	return results[m.Modal.Cursor], true
}

func (m *Model) toggleFavorite(ctx keymap.Context) {
	var id string
	switch ctx {
	case keymap.ContextPreview:
		f, _ := m.Files.Selected()
		id = f.ID
	case keymap.ContextFiles:
		f, ok := m.modalFile()
		if !ok {
			return
		}
		id = f.ID
	default:
		return
	}
	f, err := m.Files.ToggleFavorite(id)
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.Drive.RefreshFiles(m.Files.Files())
	m.clampSidebarCursor()
	if f.IsFavorite {
		m.setStatus(f.Name+" 즐겨찾기에 추가했습니다.", false)
	} else {
		m.setStatus(f.Name+" 즐겨찾기에서 제거했습니다.", false)
	}
}

func (m *Model) keyCommand(cmd keymap.Command) {
	keys := m.Keys.Keys()
	if cmd == keymap.CmdDisconnectAll {
		m.Keys.DisconnectAll()
		m.syncTree()
		m.setStatus("모든 API 연결을 해제했습니다.", false)
		return
	}
	if m.KeyCursor < 0 || m.KeyCursor >= len(keys) {
		return
	}
	k := keys[m.KeyCursor]

	var err error
	switch {
	case cmd == keymap.CmdDeleteKey:
		err = m.Keys.Delete(k.ID)
		m.KeyCursor = clampIndex(m.KeyCursor, len(keys)-1)
	case k.IsConnected:
		err = m.Keys.Disconnect(k.ID)
	default:
		err = m.Keys.Connect(k.ID)
	}
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.syncTree()
	m.setStatus("", false)
}

func (m Model) turnStep(next bool) (tea.Model, tea.Cmd) {
	if m.Screen() != models.ScreenOnboarding {
		return m, nil
	}
	if !next {
		m.Step = max(m.Step-1, 0)
		return m, nil
	}
	if m.Step+1 >= len(help.Steps) {
		return m.finishOnboarding()
	}
	m.Step++
	return m, nil
}

func (m Model) finishOnboarding() (tea.Model, tea.Cmd) {
	m.Nav.CompleteOnboarding()
	m.Step = 0
	if m.opts.OnOnboarded != nil {
		m.opts.OnOnboarded()
	}
	return m, nil
}

func (m *Model) turnHelpPage(next bool) {
	n := len(help.Sections())
	if n == 0 {
		return
	}
	if next {
		m.HelpPage = (m.HelpPage + 1) % n
	} else {
		m.HelpPage = (m.HelpPage - 1 + n) % n
	}
	m.HelpScroll = 0
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	email := ""
	if m.Sess != nil {
		email = m.Sess.User.Email
	}
	m.Nav.Logout()
	m.Sess = nil
	m.Modal = nil
	m.ShowHelp = false
	m.Files.ClosePreview()
	m.Chat.Reset()
	m.Pending = false
	if m.opts.OnSession != nil {
		m.opts.OnSession(nil)
	}
	return m.openForm(newLoginForm(email))
}
