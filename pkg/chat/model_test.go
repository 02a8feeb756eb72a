package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/smhrd/smartsearch/internal/authclient"
	"github.com/smhrd/smartsearch/internal/catalog"
	"github.com/smhrd/smartsearch/internal/drive"
	"github.com/smhrd/smartsearch/internal/help"
	"github.com/smhrd/smartsearch/internal/search"
	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/theme"
	"github.com/smhrd/smartsearch/internal/version"
	"github.com/smhrd/smartsearch/pkg/chat/keymap"
)

type fakeAuth struct {
	registered []authclient.RegisterRequest
	loginErr   error
	regErr     error
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (*authclient.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &authclient.Session{User: models.User{Name: "홍길동", Email: email}, Token: "tok"}, nil
}

func (f *fakeAuth) RegisterConfirmed(_ context.Context, req authclient.RegisterRequest, confirm string) error {
	if f.regErr != nil {
		return f.regErr
	}
	if err := authclient.CheckPasswords(req.Password, confirm); err != nil {
		return err
	}
	f.registered = append(f.registered, req)
	return nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func press(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

// newHomeModel is signed in and onboarded, on the home screen
func newHomeModel(t *testing.T) (Model, drive.MemoryPersister) {
	t.Helper()
	store := drive.MemoryPersister{}
	m := NewModel(Options{
		Store:      store,
		Session:    &authclient.Session{User: models.User{Name: "홍길동", Email: "hong@example.com"}},
		Onboarded:  true,
		Remember:   true,
		SystemDark: func() bool { return true },
	})
	m, _ = press(m, tea.WindowSizeMsg{Width: 140, Height: 40})
	if m.Screen() != models.ScreenHome {
		t.Fatalf("screen = %s, want home", m.Screen())
	}
	return m, store
}

func openChat(t *testing.T) Model {
	t.Helper()
	m, _ := newHomeModel(t)
	m, _ = press(m, runes("c"))
	if m.Screen() != models.ScreenChat {
		t.Fatalf("screen = %s, want chat", m.Screen())
	}
	return m
}

func TestStartsOnLoginForm(t *testing.T) {
	m := NewModel(Options{LastEmail: "hong@example.com"})
	if m.Screen() != models.ScreenLogin {
		t.Fatalf("screen = %s", m.Screen())
	}
	if m.Form == nil || m.Form.Kind != FormLogin {
		t.Fatal("login form not open")
	}
	if m.Form.Email != "hong@example.com" {
		t.Errorf("email not prefilled: %q", m.Form.Email)
	}
	if m.CurrentContextString() != "form" {
		t.Errorf("context = %s", m.CurrentContextString())
	}
}

func TestLocalLoginGoesToOnboarding(t *testing.T) {
	var got *authclient.Session
	m := NewModel(Options{OnSession: func(s *authclient.Session) { got = s }})

	msg := m.authenticate(FormState{Kind: FormLogin, Email: " kim@example.com ", Password: "pw"})()
	m, _ = press(m, msg)

	if m.Screen() != models.ScreenOnboarding {
		t.Fatalf("screen = %s", m.Screen())
	}
	if m.Form != nil {
		t.Error("form still open")
	}
	if got == nil || got.User.Email != "kim@example.com" || got.User.Name != "kim" {
		t.Fatalf("session = %+v", got)
	}
}

func TestServerLoginFailureKeepsForm(t *testing.T) {
	auth := &fakeAuth{loginErr: &authclient.ServerError{Status: 401, Message: "이메일 또는 비밀번호를 확인하세요."}}
	m := NewModel(Options{Auth: auth})
	m.Form.Email = "kim@example.com"
	m.Form.Busy = true

	msg := m.authenticate(*m.Form)()
	m, _ = press(m, msg)

	if m.Screen() != models.ScreenLogin {
		t.Fatalf("screen = %s", m.Screen())
	}
	if m.Form == nil || m.Form.Busy {
		t.Fatal("form should be open and idle")
	}
	if m.Form.Err != "이메일 또는 비밀번호를 확인하세요." {
		t.Errorf("err = %q", m.Form.Err)
	}
	if m.Form.Email != "kim@example.com" {
		t.Errorf("email lost: %q", m.Form.Email)
	}
}

func TestSignupRegistersThenOnboards(t *testing.T) {
	auth := &fakeAuth{}
	m := NewModel(Options{Auth: auth})
	m, _ = press(m, key(tea.KeyCtrlT))
	if m.Form.Kind != FormSignup || m.Screen() != models.ScreenSignup {
		t.Fatalf("form = %s screen = %s", m.Form.Kind, m.Screen())
	}

	fs := FormState{Kind: FormSignup, Name: "김철수", Email: "kim@example.com", Password: "pw1", Confirm: "pw1"}
	m, _ = press(m, m.authenticate(fs)())

	if len(auth.registered) != 1 || auth.registered[0].Name != "김철수" {
		t.Fatalf("registered = %+v", auth.registered)
	}
	if m.Screen() != models.ScreenOnboarding {
		t.Fatalf("screen = %s", m.Screen())
	}
	if m.Sess.Token != "tok" {
		t.Errorf("token = %q", m.Sess.Token)
	}
}

func TestSignupPasswordMismatch(t *testing.T) {
	auth := &fakeAuth{}
	m := NewModel(Options{Auth: auth})
	m, _ = press(m, key(tea.KeyCtrlT))

	fs := FormState{Kind: FormSignup, Name: "김철수", Email: "kim@example.com", Password: "a", Confirm: "b"}
	m, _ = press(m, m.authenticate(fs)())

	if len(auth.registered) != 0 {
		t.Fatal("mismatched passwords reached the server")
	}
	if m.Form == nil || m.Form.Err != authclient.MsgPasswordMismatch {
		t.Fatalf("form err = %+v", m.Form)
	}
}

func TestSignupEscReturnsToLogin(t *testing.T) {
	m := NewModel(Options{})
	m, _ = press(m, key(tea.KeyCtrlT), key(tea.KeyEsc))
	if m.Form.Kind != FormLogin {
		t.Fatalf("form = %s", m.Form.Kind)
	}
	m, _ = press(m, key(tea.KeyEsc))
	if m.Form == nil {
		t.Fatal("login form must not close")
	}
}

func TestOnboardingSteps(t *testing.T) {
	done := false
	m := NewModel(Options{
		Session:     &authclient.Session{User: models.User{Email: "a@b.c"}},
		OnOnboarded: func() { done = true },
	})
	if m.Screen() != models.ScreenOnboarding {
		t.Fatalf("screen = %s", m.Screen())
	}

	m, _ = press(m, key(tea.KeyEnter), runes("h"))
	if m.Step != 0 {
		t.Fatalf("step = %d after next+prev", m.Step)
	}
	for range help.Steps {
		m, _ = press(m, key(tea.KeyEnter))
	}
	if m.Screen() != models.ScreenHome || !done {
		t.Fatalf("screen = %s done = %v", m.Screen(), done)
	}
}

func TestOnboardingSkip(t *testing.T) {
	m := NewModel(Options{Session: &authclient.Session{}})
	m, _ = press(m, key(tea.KeyEsc))
	if m.Screen() != models.ScreenHome {
		t.Fatalf("screen = %s", m.Screen())
	}
}

func TestScreenNavigation(t *testing.T) {
	m, _ := newHomeModel(t)

	m, _ = press(m, runes("c"))
	if m.Screen() != models.ScreenChat {
		t.Fatalf("c -> %s", m.Screen())
	}
	m, _ = press(m, key(tea.KeyEsc))
	if m.Screen() != models.ScreenHome {
		t.Fatalf("esc -> %s", m.Screen())
	}
	m, _ = press(m, key(tea.KeyCtrlS))
	if m.Screen() != models.ScreenSettings {
		t.Fatalf("ctrl+s -> %s", m.Screen())
	}
	m, _ = press(m, key(tea.KeyEsc))
	if m.Screen() != models.ScreenHome {
		t.Fatalf("esc -> %s", m.Screen())
	}
}

func TestPrintableKeysGoToInput(t *testing.T) {
	m := openChat(t)
	m, _ = press(m, runes("c"), runes("?"))
	if m.Input.Value() != "c?" {
		t.Fatalf("input = %q", m.Input.Value())
	}
	if m.ShowHelp {
		t.Fatal("? opened help while typing")
	}
	m, _ = press(m, key(tea.KeyF1))
	if !m.ShowHelp {
		t.Fatal("f1 should open help")
	}
}

func TestSendSchedulesReply(t *testing.T) {
	m := openChat(t)
	m, _ = press(m, runes("마케팅"))
	m, cmd := press(m, key(tea.KeyEnter))

	if cmd == nil || !m.Pending {
		t.Fatal("reply not scheduled")
	}
	if m.Input.Value() != "" {
		t.Errorf("input not cleared: %q", m.Input.Value())
	}
	if n := len(m.Chat.Messages()); n != 2 {
		t.Fatalf("messages = %d, want greeting + question", n)
	}

	m, _ = press(m, replyMsg{query: "마케팅"})
	msgs := m.Chat.Messages()
	last := msgs[len(msgs)-1]
	if m.Pending || last.Type != models.MessageBot || len(last.Files) == 0 {
		t.Fatalf("reply = %+v pending = %v", last, m.Pending)
	}
	if !strings.Contains(last.Content, "마케팅") {
		t.Errorf("content = %q", last.Content)
	}
}

func TestBlankSendIgnored(t *testing.T) {
	m := openChat(t)
	m, cmd := press(m, runes("   "), key(tea.KeyEnter))
	if cmd != nil || m.Pending || len(m.Chat.Messages()) != 1 {
		t.Fatalf("blank input sent: pending=%v messages=%d", m.Pending, len(m.Chat.Messages()))
	}
}

func TestSidebarCascadeSelection(t *testing.T) {
	m := openChat(t)
	m, _ = press(m, key(tea.KeyTab))
	if m.CurrentContextString() != "sidebar" {
		t.Fatalf("context = %s", m.CurrentContextString())
	}

	row, _ := m.cursorRow()
	if row.Node.ID != "reports" {
		t.Fatalf("first row = %s", row.Node.ID)
	}
	m, _ = press(m, key(tea.KeySpace))
	if m.Drive.CheckState("reports") != models.CheckChecked || !m.Drive.IsSelected("quarterly") {
		t.Fatalf("cascade failed: %v", m.Drive.Selected())
	}

	m, _ = press(m, runes("j"), key(tea.KeySpace))
	if m.Drive.IsSelected("quarterly") {
		t.Fatal("quarterly still selected")
	}

	m, _ = press(m, runes("a"))
	if len(m.Drive.Selected()) != len(drive.AllIDs(m.Drive.Tree())) {
		t.Fatalf("select all = %v", m.Drive.Selected())
	}
	m, _ = press(m, runes("x"))
	if len(m.Drive.Selected()) != 0 {
		t.Fatalf("clear = %v", m.Drive.Selected())
	}
}

func TestSidebarExpandAndCursor(t *testing.T) {
	m := openChat(t)
	m, _ = press(m, key(tea.KeyTab))
	before := len(m.sidebarRows())

	m, _ = press(m, key(tea.KeyEnter))
	if len(m.sidebarRows()) != before-1 {
		t.Fatalf("collapse: %d rows, had %d", len(m.sidebarRows()), before)
	}
	m, _ = press(m, runes("G"))
	if m.SidebarCursor != len(m.sidebarRows())-1 {
		t.Fatalf("G cursor = %d", m.SidebarCursor)
	}
	m, _ = press(m, runes("g"), runes("g"))
	if m.SidebarCursor != 0 {
		t.Fatalf("g g cursor = %d", m.SidebarCursor)
	}
}

func TestSelectionScopesChat(t *testing.T) {
	m := openChat(t)
	m.Drive.ToggleCascade("hr")
	m, _ = press(m, runes("마케팅"), key(tea.KeyEnter), replyMsg{query: "마케팅"})

	msgs := m.Chat.Messages()
	for _, f := range msgs[len(msgs)-1].Files {
		if !strings.Contains(f.Path, "/hr/") {
			t.Errorf("file outside selection: %s (%s)", f.Name, f.Path)
		}
	}
}

func TestFileModalFacetsPreviewFavorite(t *testing.T) {
	m, _ := newHomeModel(t)
	m, _ = press(m, key(tea.KeyCtrlF))
	if m.Modal == nil || m.CurrentContextString() != "files" {
		t.Fatal("file modal not open")
	}

	all := len(m.Modal.Results(m.Files.Files()))
	m, _ = press(m, key(tea.KeyCtrlT))
	if m.Modal.Type == facetAll {
		t.Fatal("type facet did not advance")
	}
	if n := len(m.Modal.Results(m.Files.Files())); n == 0 || n >= all {
		t.Fatalf("facet results = %d of %d", n, all)
	}
	m.Modal.Type = facetAll

	m, _ = press(m, runes("브랜드"))
	results := m.Modal.Results(m.Files.Files())
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}

	m, _ = press(m, key(tea.KeyEnter))
	f, ok := m.Files.Selected()
	if !ok || f.ID != results[0].ID {
		t.Fatal("preview not opened")
	}
	wasFav := f.IsFavorite
	m, _ = press(m, runes("f"))
	if f, _ := m.Files.Selected(); f.IsFavorite == wasFav {
		t.Fatal("favorite not toggled")
	}

	m, _ = press(m, key(tea.KeyEsc))
	if _, ok := m.Files.Selected(); ok || m.Modal == nil {
		t.Fatal("esc should close only the preview")
	}
	m, _ = press(m, key(tea.KeyEsc))
	if m.Modal != nil {
		t.Fatal("esc should close the modal")
	}
}

func TestSettingsConnectRebuildsTree(t *testing.T) {
	m, _ := newHomeModel(t)
	m, _ = press(m, key(tea.KeyCtrlS))

	if m.Drive.Token() != m.Keys.Token() || m.Keys.Token() == "" {
		t.Fatalf("tree token %q, key token %q", m.Drive.Token(), m.Keys.Token())
	}
	m, _ = press(m, key(tea.KeySpace))
	if m.Keys.HasConnected() || m.Drive.Token() != "" {
		t.Fatalf("disconnect: connected=%v token=%q", m.Keys.HasConnected(), m.Drive.Token())
	}
	m, _ = press(m, runes("j"), key(tea.KeySpace))
	if m.Drive.Token() != m.Keys.Keys()[1].Key {
		t.Fatalf("token = %q", m.Drive.Token())
	}
	m, _ = press(m, runes("D"))
	if m.Keys.HasConnected() || m.Drive.Token() != "" {
		t.Fatal("disconnect all left a connection")
	}
}

func TestSettingsDeleteKey(t *testing.T) {
	m, _ := newHomeModel(t)
	m, _ = press(m, key(tea.KeyCtrlS), runes("j"), runes("d"))
	if n := len(m.Keys.Keys()); n != 1 {
		t.Fatalf("keys = %d", n)
	}
	if m.KeyCursor != 0 {
		t.Errorf("cursor = %d", m.KeyCursor)
	}
}

func TestAddKeyFormOpens(t *testing.T) {
	m, _ := newHomeModel(t)
	m, _ = press(m, key(tea.KeyCtrlS), runes("a"))
	if m.Form == nil || m.Form.Kind != FormAddKey {
		t.Fatal("add-key form not open")
	}
	m, _ = press(m, key(tea.KeyEsc))
	if m.Form != nil {
		t.Fatal("esc should cancel the add-key form")
	}
}

func TestAddKeySubmit(t *testing.T) {
	m, _ := newHomeModel(t)
	m.Form = newAddKeyForm()
	m.Form.KeyName = "Google Drive"
	m.Form.KeyValue = "gd_0000111122223333"

	next, _ := m.submitForm()
	m = next.(Model)
	if m.Form != nil || m.StatusErr {
		t.Fatalf("submit failed: %q", m.StatusMsg)
	}
	keys := m.Keys.Keys()
	if keys[len(keys)-1].Name != "Google Drive" {
		t.Fatalf("keys = %+v", keys)
	}
}

func TestToggleDarkPersists(t *testing.T) {
	m, store := newHomeModel(t)
	m, _ = press(m, key(tea.KeyCtrlS), runes("t"))
	if m.Theme.Dark() {
		t.Fatal("dark mode still on")
	}
	if store[theme.StorageKey] != "false" {
		t.Fatalf("stored = %q", store[theme.StorageKey])
	}
	m, _ = press(m, runes("T"))
	if !m.Theme.FollowsSystem() || !m.Theme.Dark() {
		t.Fatal("follow system not applied")
	}
}

func TestLogout(t *testing.T) {
	var sessions []*authclient.Session
	m, _ := newHomeModel(t)
	m.opts.OnSession = func(s *authclient.Session) { sessions = append(sessions, s) }

	m, _ = press(m, runes("L"))
	if m.Screen() != models.ScreenLogin || m.Sess != nil {
		t.Fatalf("screen = %s", m.Screen())
	}
	if m.Form == nil || m.Form.Email != "hong@example.com" {
		t.Fatal("login form not reopened with the last email")
	}
	if len(sessions) != 1 || sessions[0] != nil {
		t.Fatalf("OnSession calls = %v", sessions)
	}
	if len(m.Chat.Messages()) != 1 {
		t.Error("transcript not reset")
	}
}

func TestHelpPages(t *testing.T) {
	m, _ := newHomeModel(t)
	m, _ = press(m, runes("?"))
	if !m.ShowHelp {
		t.Fatal("help not shown")
	}
	m, _ = press(m, runes("l"))
	if m.HelpPage != 1 {
		t.Fatalf("page = %d", m.HelpPage)
	}
	m, _ = press(m, runes("h"), runes("h"))
	if m.HelpPage != len(help.Sections())-1 {
		t.Fatalf("wrap page = %d", m.HelpPage)
	}
	m, _ = press(m, key(tea.KeyEsc))
	if m.ShowHelp {
		t.Fatal("help not closed")
	}
}

func TestCatalogReload(t *testing.T) {
	m, _ := newHomeModel(t)
	m.Drive.ToggleCascade("reports")

	c := catalog.Default()
	c.Files = c.Files[:3]
	m, cmd := press(m, catalogMsg{catalog: c})

	if cmd != nil {
		t.Error("reload without a channel should not wait again")
	}
	if got := len(m.Files.Files()); got != 3 {
		t.Fatalf("files = %d", got)
	}
	if !m.Drive.IsSelected("reports") {
		t.Error("selection lost on reload")
	}
}

func TestNavigationGuardReportsStatus(t *testing.T) {
	m := NewModel(Options{Session: &authclient.Session{}})
	m.navigate(models.ScreenChat)
	if m.Screen() != models.ScreenOnboarding || !m.StatusErr {
		t.Fatalf("screen = %s status = %q", m.Screen(), m.StatusMsg)
	}
}

func TestViewRenders(t *testing.T) {
	m, _ := newHomeModel(t)
	if v := m.View(); !strings.Contains(v, "홍길동") {
		t.Errorf("home view missing greeting:\n%s", v)
	}

	const explorer = "전체 파일 검색"
	m, _ = press(m, runes("c"))
	if v := m.View(); !strings.Contains(v, explorer) {
		t.Error("desktop chat should show the explorer")
	}

	m, _ = press(m, tea.WindowSizeMsg{Width: 60, Height: 30})
	if !m.Compact() {
		t.Fatal("60 columns should be compact")
	}
	if v := m.View(); strings.Contains(v, explorer) {
		t.Error("compact chat should hide the explorer")
	}
	m, _ = press(m, key(tea.KeyTab))
	if v := m.View(); !strings.Contains(v, explorer) {
		t.Error("compact sidebar focus should show the explorer")
	}
}

func TestAuthMessageForPlainErrors(t *testing.T) {
	m := NewModel(Options{})
	m, _ = press(m, authResultMsg{email: "a@b.c", err: errors.New("dial tcp: refused")})
	if m.Form == nil || m.Form.Err == "" {
		t.Fatal("transport error not surfaced")
	}
}

func TestUpdateAvailableShowsStatus(t *testing.T) {
	m, _ := newHomeModel(t)
	m, _ = press(m, version.UpdateAvailableMsg{LatestVersion: "v9.0.0", UpdateCommand: "go install x@v9.0.0"})
	if !strings.Contains(m.StatusMsg, "v9.0.0") || m.StatusErr {
		t.Fatalf("status = %q err = %v", m.StatusMsg, m.StatusErr)
	}
}

func TestFavoriteToggleReachesExplorerTree(t *testing.T) {
	m := NewModel(Options{})
	treeFile := func() models.FileRecord {
		for _, f := range drive.FilesUnder(m.Drive.Tree(), "projects") {
			if f.ID == "3" {
				return f
			}
		}
		t.Fatal("file 3 not under projects")
		return models.FileRecord{}
	}
	if treeFile().IsFavorite {
		t.Fatal("file 3 should start unfavorited")
	}

	if err := m.Files.Select("3"); err != nil {
		t.Fatal(err)
	}
	m.toggleFavorite(keymap.ContextPreview)

	if !treeFile().IsFavorite {
		t.Fatal("explorer tree still shows the old favorite state")
	}
	for _, f := range drive.Scope(m.Drive.Tree(), []string{"projects"}) {
		if f.ID == "3" && search.Score("zzz", f) != search.WeightFavorite {
			t.Errorf("scoped score = %d, want favorite bonus %d", search.Score("zzz", f), search.WeightFavorite)
		}
	}
}
