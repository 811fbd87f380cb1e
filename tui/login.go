package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/s0up4200/cloudmovies/auth"
)

const (
	fieldUsername = iota
	fieldPassword
)

// loginModel is the authentication screen
type loginModel struct {
	*shared
	inputs [2]textinput.Model
	focus  int
	err    string
	busy   bool
}

func newLoginModel(sh *shared) *loginModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.Prompt = "Username: "
	user.CharLimit = 64

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.Prompt = "Password: "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 128

	m := &loginModel{shared: sh, inputs: [2]textinput.Model{user, pass}}
	if last := sh.deps.Auth.LastUsername(); last != "" {
		m.inputs[fieldUsername].SetValue(last)
		m.focus = fieldPassword
	}
	m.inputs[m.focus].Focus()
	return m
}

func (m *loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *loginModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.busy = false
		if msg.err != nil {
			m.err = loginErrorText(msg.err)
			m.inputs[fieldPassword].SetValue("")
			m.setFocus(fieldPassword)
		}
		// on success the session event switches screens
		return nil

	case tea.KeyMsg:
		if m.busy {
			return nil
		}
		switch {
		case key.Matches(msg, keys.Enter):
			return m.submit()
		case key.Matches(msg, keys.Guest):
			return m.guest()
		case key.Matches(msg, keys.NextField):
			m.setFocus((m.focus + 1) % len(m.inputs))
			return nil
		case key.Matches(msg, keys.PrevField):
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return nil
		}

		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return cmd
	}
	return nil
}

func (m *loginModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *loginModel) submit() tea.Cmd {
	username := m.inputs[fieldUsername].Value()
	password := m.inputs[fieldPassword].Value()
	m.busy = true
	m.err = ""

	authn, ctx := m.deps.Auth, m.ctx
	return func() tea.Msg {
		return loginResultMsg{err: authn.Login(ctx, username, password)}
	}
}

func (m *loginModel) guest() tea.Cmd {
	m.busy = true
	m.err = ""

	authn, ctx := m.deps.Auth, m.ctx
	return func() tea.Msg {
		return loginResultMsg{err: authn.ContinueAsGuest(ctx)}
	}
}

func loginErrorText(err error) string {
	switch {
	case errors.Is(err, auth.ErrBlankCredentials), errors.Is(err, auth.ErrInvalidCredentials):
		return err.Error()
	default:
		return "login failed: " + err.Error()
	}
}

func (m *loginModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Sign in to TMDB"))
	b.WriteString("\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(m.styles.Muted.Render("Signing in…"))
	case m.err != "":
		b.WriteString(m.styles.Error.Render(m.err))
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.Muted.Render("No account? " + auth.SignUpURL))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("Forgot password? " + auth.ResetPasswordURL))
	b.WriteString("\n")
	b.WriteString(m.styles.helpLine("enter", "sign in", "tab", "next field", "ctrl+g", "continue as guest", "ctrl+c", "quit"))

	return m.styles.Border.Render(b.String())
}
