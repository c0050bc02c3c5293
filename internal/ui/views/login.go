package views

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cone387/ttask/internal/api"
	"github.com/cone387/ttask/internal/ui/styles"
)

// LoggedIn signals a successful login with the session to persist
type LoggedIn struct {
	Tokens api.TokenPair
}

// LoginView is the credentials form shown when there is no usable session.
// Ctrl+r flips it into account registration.
type LoginView struct {
	client *api.Client
	styles *styles.Styles

	username    textinput.Model
	email       textinput.Model
	password    textinput.Model
	focusIdx    int
	registering bool
	busy        bool
	errText     string

	width  int
	height int
}

func NewLoginView(client *api.Client) *LoginView {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 100
	username.Focus()

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 200

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 100
	password.EchoMode = textinput.EchoPassword

	return &LoginView{
		client:   client,
		styles:   styles.NewStyles(),
		username: username,
		email:    email,
		password: password,
	}
}

func (v *LoginView) Init() tea.Cmd {
	return textinput.Blink
}

type loginResultMsg struct {
	tokens api.TokenPair
	err    error
}

// fields returns the focusable inputs for the current mode, in tab order.
func (v *LoginView) fields() []*textinput.Model {
	if v.registering {
		return []*textinput.Model{&v.username, &v.email, &v.password}
	}
	return []*textinput.Model{&v.username, &v.password}
}

func (v *LoginView) focusField(idx int) tea.Cmd {
	fields := v.fields()
	v.focusIdx = idx % len(fields)
	var cmd tea.Cmd
	for i, f := range fields {
		if i == v.focusIdx {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	return cmd
}

func (v *LoginView) submit() tea.Cmd {
	username := strings.TrimSpace(v.username.Value())
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if username == "" || password == "" {
		v.errText = "username and password are required"
		return nil
	}
	if v.registering && email == "" {
		v.errText = "email is required"
		return nil
	}
	register := v.registering
	v.busy = true
	v.errText = ""
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if register {
			if _, err := v.client.Register(ctx, username, email, password); err != nil {
				return loginResultMsg{err: err}
			}
		}
		tokens, err := v.client.Login(ctx, username, password)
		return loginResultMsg{tokens: tokens, err: err}
	}
}

func (v *LoginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case loginResultMsg:
		v.busy = false
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		return v, func() tea.Msg { return LoggedIn{Tokens: msg.tokens} }

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch msg.String() {
		case "ctrl+c":
			return v, tea.Quit
		case "ctrl+r":
			v.registering = !v.registering
			v.errText = ""
			return v, v.focusField(0)
		case "tab":
			return v, v.focusField(v.focusIdx + 1)
		case "shift+tab":
			return v, v.focusField(v.focusIdx + len(v.fields()) - 1)
		case "enter":
			if v.focusIdx < len(v.fields())-1 {
				return v, v.focusField(v.focusIdx + 1)
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	f := v.fields()[v.focusIdx]
	*f, cmd = f.Update(msg)
	return v, cmd
}

func (v *LoginView) View() string {
	subtitle := "sign in to your task backend"
	if v.registering {
		subtitle = "create an account"
	}

	parts := []string{
		v.styles.Title.Render("ttask"),
		v.styles.TitleMuted.Render(subtitle),
		"",
	}
	for i, f := range v.fields() {
		style := v.styles.Input
		if i == v.focusIdx {
			style = v.styles.InputFocused
		}
		parts = append(parts, style.Render(f.View()))
	}
	if v.busy {
		parts = append(parts, v.styles.Meta.Render("signing in..."))
	}
	if v.errText != "" {
		parts = append(parts, v.styles.ToastError.Render(v.errText))
	}
	parts = append(parts, v.styles.Help.Render("enter: submit  tab: switch field  ctrl+r: register  ctrl+c: quit"))

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if v.width > 0 {
		return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, form)
	}
	return form
}
