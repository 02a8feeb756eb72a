package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/smhrd/smartsearch/internal/apikeys"
	"github.com/smhrd/smartsearch/internal/authclient"
	"github.com/smhrd/smartsearch/internal/catalog"
	"github.com/smhrd/smartsearch/internal/conversation"
	"github.com/smhrd/smartsearch/internal/drive"
	"github.com/smhrd/smartsearch/internal/files"
	"github.com/smhrd/smartsearch/internal/layout"
	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/screen"
	"github.com/smhrd/smartsearch/internal/theme"
	"github.com/smhrd/smartsearch/internal/version"
	"github.com/smhrd/smartsearch/pkg/chat/keymap"
)

// Auth is the account service behind the login and signup forms
type Auth interface {
	Login(ctx context.Context, email, password string) (*authclient.Session, error)
	RegisterConfirmed(ctx context.Context, req authclient.RegisterRequest, confirm string) error
}

// Persister is the key/value store every local store writes through
type Persister interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Focus is the chat screen pane that receives keys
type Focus int

const (
	FocusInput Focus = iota
	FocusSidebar
)

// MinWidth is the narrowest terminal the desktop view renders in
const MinWidth = 40

// SidebarWidth is the explorer pane width in the desktop view
const SidebarWidth = 34

// authTimeout bounds a login or signup round trip
const authTimeout = 10 * time.Second

// Options configures a Model
type Options struct {
	Catalog     *catalog.Catalog
	Store       Persister
	History     conversation.History
	Auth        Auth                // nil signs in locally without a server
	Keymap      *keymap.Registry    // nil uses the defaults
	Session     *authclient.Session // restored session, skips the login screen
	LastEmail   string
	Onboarded   bool
	Remember    bool // keep onboarding completed across logout
	SystemDark  func() bool
	CatalogPath string
	Watch       bool
	Version     string

	// OnSession is called after a sign-in with the new session, and with nil
	// on logout
	OnSession   func(*authclient.Session)
	OnOnboarded func()
}

// Model is the Bubble Tea model for the chat TUI
type Model struct {
	opts Options

	Nav    *screen.Navigator
	Drive  *drive.Store
	Files  *files.Store
	Keys   *apikeys.Store
	Theme  *theme.Store
	Chat   *conversation.Session
	Keymap *keymap.Registry
	Sess   *authclient.Session
	styles styles

	Width  int
	Height int

	// Chat screen
	Focus         Focus
	Input         textinput.Model
	SidebarOpen   bool
	SidebarCursor int
	Pending       bool // a bot reply is scheduled

	// Onboarding
	Step int

	// Settings
	KeyCursor int

	// Overlays
	Modal      *FileModal
	Form       *FormState
	ShowHelp   bool
	HelpPage   int
	HelpScroll int
	StatusMsg  string
	StatusErr  bool

	watchCancel context.CancelFunc
}

// NewModel wires the local stores from opts
func NewModel(opts Options) Model {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Store == nil {
		opts.Store = drive.MemoryPersister{}
	}
	if opts.Keymap == nil {
		opts.Keymap = keymap.NewRegistry()
		keymap.RegisterDefaults(opts.Keymap)
	}

	keys := apikeys.NewStore(opts.Catalog.APIKeys, opts.Store)
	fileStore := files.NewStore(opts.Catalog.Files, opts.Store)
	driveStore := drive.NewStore(opts.Catalog.Folders, fileStore.Files(), opts.Store)
	driveStore.Rebuild(keys.Token(), fileStore.Files())

	var convOpts []conversation.Option
	if opts.History != nil {
		convOpts = append(convOpts, conversation.WithHistory(opts.History))
	}

	in := textinput.New()
	in.Placeholder = "찾고 싶은 파일을 물어보세요..."
	in.CharLimit = 500
	in.Focus()

	m := Model{
		opts:        opts,
		Nav:         screen.NewNavigator(opts.Onboarded, opts.Remember),
		Drive:       driveStore,
		Files:       fileStore,
		Keys:        keys,
		Theme:       theme.New(opts.Store, opts.SystemDark),
		Chat:        conversation.NewSession(fileStore, driveStore, convOpts...),
		Keymap:      opts.Keymap,
		Input:       in,
		SidebarOpen: true,
		Width:       80,
		Height:      24,
	}
	m.styles = newStyles(theme.For(m.Theme.Dark()))

	if opts.Session != nil {
		m.Sess = opts.Session
		m.Nav.Login()
	} else {
		m.Form = newLoginForm(opts.LastEmail)
	}
	return m
}

// Init starts the form cursor and the catalog watcher
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.Form != nil {
		cmds = append(cmds, m.Form.Form.Init())
	}
	if m.opts.Watch && m.opts.CatalogPath != "" {
		cmds = append(cmds, m.watchCatalog())
	}
	if !version.IsDevelopmentVersion(m.opts.Version) {
		cmds = append(cmds, version.CheckAsync(m.opts.Version))
	}
	cmds = append(cmds, textinput.Blink)
	return tea.Batch(cmds...)
}

// Screen is the navigator's current screen
func (m Model) Screen() models.Screen { return m.Nav.Current() }

// Compact reports whether the terminal is narrow enough for the mobile view
func (m Model) Compact() bool {
	return layout.ForColumns(m.Width).Compact()
}

// Update handles a message and returns the next model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Replies and catalog reloads arrive while forms and modals are open
	switch msg := msg.(type) {
	case replyMsg:
		return m.handleReply(msg)
	case catalogMsg:
		return m.handleCatalog(msg)
	case catalogWatchMsg:
		m.watchCancel = msg.cancel
		return m, waitCatalog(msg.ch)
	case authResultMsg:
		return m.handleAuthResult(msg)
	case version.UpdateAvailableMsg:
		m.setStatus(fmt.Sprintf("새 버전 %s 사용 가능: %s", msg.LatestVersion, msg.UpdateCommand), false)
		return m, nil
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}

	if m.Form != nil {
		return m.handleFormUpdate(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}

	if m.Modal != nil {
		var cmd tea.Cmd
		m.Modal.Input, cmd = m.Modal.Input.Update(msg)
		return m, cmd
	}
	if m.Screen() == models.ScreenChat && m.Focus == FocusInput {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the current screen
func (m Model) View() string {
	return m.renderView()
}

// Close stops the catalog watcher
func (m *Model) Close() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.StatusMsg = msg
	m.StatusErr = isErr
}

// refreshStyles rebuilds styles after a theme change
func (m *Model) refreshStyles() {
	m.styles = newStyles(theme.For(m.Theme.Dark()))
}
