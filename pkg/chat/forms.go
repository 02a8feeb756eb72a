package chat

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/smhrd/smartsearch/internal/authclient"
	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/pkg/chat/keymap"
)

var (
	errEmailRequired    = errors.New("이메일을 입력하세요")
	errPasswordRequired = errors.New("비밀번호를 입력하세요")
	errNameRequired     = errors.New("이름을 입력하세요")
	errKeyNameRequired  = errors.New("키 이름을 입력하세요")
	errKeyRequired      = errors.New("API 키를 입력하세요")
)

// FormKind identifies which form is open
type FormKind string

const (
	FormLogin  FormKind = "login"
	FormSignup FormKind = "signup"
	FormAddKey FormKind = "add-key"
)

// FormState holds an open huh form and its bound values
type FormState struct {
	Kind FormKind
	Form *huh.Form
	Busy bool   // waiting on the auth server
	Err  string // last submit error, shown above the form

	Name     string
	Email    string
	Password string
	Confirm  string

	KeyName  string
	KeyValue string
}

func required(err error) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return err
		}
		return nil
	}
}

func newLoginForm(email string) *FormState {
	fs := &FormState{Kind: FormLogin, Email: email}
	fs.build()
	return fs
}

func newSignupForm() *FormState {
	fs := &FormState{Kind: FormSignup}
	fs.build()
	return fs
}

func newAddKeyForm() *FormState {
	fs := &FormState{Kind: FormAddKey}
	fs.build()
	return fs
}

// build (re)creates the huh form over the bound values
func (fs *FormState) build() {
	switch fs.Kind {
	case FormLogin:
		fs.Form = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("이메일").
				Placeholder("you@example.com").
				Value(&fs.Email).
				Validate(required(errEmailRequired)),
			huh.NewInput().
				Title("비밀번호").
				EchoMode(huh.EchoModePassword).
				Value(&fs.Password).
				Validate(required(errPasswordRequired)),
		).Title("Smart Search").Description("AI 스마트 파일 검색 플랫폼"))

	case FormSignup:
		fs.Form = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("이름").
				Value(&fs.Name).
				Validate(required(errNameRequired)),
			huh.NewInput().
				Title("이메일").
				Placeholder("you@example.com").
				Value(&fs.Email).
				Validate(required(errEmailRequired)),
			huh.NewInput().
				Title("비밀번호").
				EchoMode(huh.EchoModePassword).
				Value(&fs.Password).
				Validate(required(errPasswordRequired)),
			huh.NewInput().
				Title("비밀번호 확인").
				EchoMode(huh.EchoModePassword).
				Value(&fs.Confirm).
				Validate(func(s string) error {
					return authclient.CheckPasswords(fs.Password, s)
				}),
		).Title("회원가입").Description("새 계정을 만들어 시작하세요"))

	case FormAddKey:
		fs.Form = huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("키 이름").
				Placeholder("예: Google Drive").
				Value(&fs.KeyName).
				Validate(required(errKeyNameRequired)),
			huh.NewInput().
				Title("API 키").
				EchoMode(huh.EchoModePassword).
				Value(&fs.KeyValue).
				Validate(required(errKeyRequired)),
		).Title("API 키 추가"))
	}
	fs.Form.WithShowHelp(true)
}

func (m Model) openForm(fs *FormState) (tea.Model, tea.Cmd) {
	m.Form = fs
	if m.Width > 0 {
		fs.Form.WithWidth(min(m.Width-4, 60))
	}
	return m, fs.Form.Init()
}

// handleFormUpdate forwards everything to the huh form. Only non-printable
// keys bound in the form context are intercepted.
func (m Model) handleFormUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.Form.Busy {
			if keyMsg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			return m, nil
		}
		if !keymap.IsPrintable(keyMsg) {
			if cmd, found := m.Keymap.Lookup(keyMsg, keymap.ContextForm); found {
				switch cmd {
				case keymap.CmdQuit, keymap.CmdClose, keymap.CmdSwitchForm:
					return m.executeCommand(cmd)
				}
			}
		}
	}

	form, cmd := m.Form.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form.Form = f
	}
	if m.Form.Form.State == huh.StateCompleted {
		return m.submitForm()
	}
	return m, cmd
}

// closeForm handles esc. The login form cannot be dismissed, the signup
// form goes back to login.
func (m Model) closeForm() (tea.Model, tea.Cmd) {
	switch m.Form.Kind {
	case FormLogin:
		return m, nil
	case FormSignup:
		_ = m.Nav.Navigate(models.ScreenLogin)
		return m.openForm(newLoginForm(m.Form.Email))
	}
	m.Form = nil
	return m, nil
}

func (m Model) switchForm() (tea.Model, tea.Cmd) {
	switch m.Form.Kind {
	case FormLogin:
		_ = m.Nav.Navigate(models.ScreenSignup)
		fs := newSignupForm()
		fs.Email = m.Form.Email
		return m.openForm(fs)
	case FormSignup:
		_ = m.Nav.Navigate(models.ScreenLogin)
		return m.openForm(newLoginForm(m.Form.Email))
	}
	return m, nil
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	fs := m.Form
	switch fs.Kind {
	case FormAddKey:
		m.Form = nil
		k, err := m.Keys.Add(fs.KeyName, fs.KeyValue)
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.setStatus(k.Name+" 키를 추가했습니다.", false)
		return m, nil
	case FormLogin, FormSignup:
		fs.Busy = true
		fs.Err = ""
		return m, m.authenticate(*fs)
	}
	return m, nil
}

// authenticate runs the login or signup round trip. Without a server the
// credentials are accepted locally.
func (m Model) authenticate(fs FormState) tea.Cmd {
	auth := m.opts.Auth
	signup := fs.Kind == FormSignup
	email := strings.TrimSpace(fs.Email)
	return func() tea.Msg {
		if auth == nil {
			name := fs.Name
			if name == "" {
				name, _, _ = strings.Cut(email, "@")
			}
			return authResultMsg{signup: signup, email: email, session: &authclient.Session{
				User: models.User{Name: name, Email: email},
			}}
		}

		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()
		if signup {
			req := authclient.RegisterRequest{Name: fs.Name, Email: email, Password: fs.Password}
			if err := auth.RegisterConfirmed(ctx, req, fs.Confirm); err != nil {
				return authResultMsg{signup: true, email: email, err: err}
			}
		}
		sess, err := auth.Login(ctx, email, fs.Password)
		return authResultMsg{signup: signup, email: email, session: sess, err: err}
	}
}

func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		fs := m.Form
		if fs == nil {
			fs = newLoginForm(msg.email)
		}
		fs.Busy = false
		fs.Err = authclient.Message(msg.err)
		fs.Password, fs.Confirm = "", ""
		fs.build()
		return m.openForm(fs)
	}

	m.Form = nil
	m.Sess = msg.session
	if msg.signup {
		m.Nav.Signup()
	} else {
		m.Nav.Login()
	}
	if m.opts.OnSession != nil {
		m.opts.OnSession(msg.session)
	}
	m.Step = 0
	m.setStatus("", false)
	return m, nil
}
