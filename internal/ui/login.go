package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mujigae/boardwalk/internal/board"
	"github.com/mujigae/boardwalk/internal/session"
)

// loginMsg carries the outcome of a login attempt.
type loginMsg struct {
	result *board.LoginResult
	err    error
}

type loginModel struct {
	ctx      context.Context
	client   *board.Client
	sessions *session.Store
	keys     keyMap

	username textinput.Model
	password textinput.Model
	focus    int

	submitting bool
}

func newLoginModel(ctx context.Context, client *board.Client, sessions *session.Store, keys keyMap) loginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 50

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 100

	return loginModel{
		ctx:      ctx,
		client:   client,
		sessions: sessions,
		keys:     keys,
		username: username,
		password: password,
	}
}

func (m loginModel) open() (loginModel, tea.Cmd) {
	m.username.Reset()
	m.password.Reset()
	m.password.Blur()
	m.focus = 0
	m.submitting = false
	return m, m.username.Focus()
}

func (m loginModel) typing() bool { return true }

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginMsg:
		m.submitting = false
		if msg.err != nil {
			m.password.Reset()
			return m, nil
		}
		if err := m.sessions.Set(msg.result.UserID, msg.result.Nickname); err != nil {
			return m, notifyCmd("Signed in, but the session could not be saved.")
		}
		return m, tea.Batch(
			notifyCmd(fmt.Sprintf("Welcome, %s.", msg.result.Nickname)),
			func() tea.Msg { return showListMsg{refresh: true} },
		)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m loginModel) handleKey(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return showListMsg{} }

	case key.Matches(msg, m.keys.NextField):
		m.focus = (m.focus + 1) % 2
		if m.focus == 0 {
			m.password.Blur()
			return m, m.username.Focus()
		}
		m.username.Blur()
		return m, m.password.Focus()
	}

	if msg.String() == "enter" || key.Matches(msg, m.keys.Save) {
		return m.submit()
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	if username == "" || password == "" {
		return m, notifyCmd("Username and password are required.")
	}

	m.submitting = true
	ctx, client := m.ctx, m.client
	return m, func() tea.Msg {
		result, err := client.Login(ctx, username, password)
		return loginMsg{result: result, err: err}
	}
}

func (m loginModel) view(styles Styles, width int) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Sign in"))
	b.WriteString("\n\n")

	b.WriteString(styles.Muted.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.username.View())
	b.WriteString("\n\n")

	b.WriteString(styles.Muted.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	if m.submitting {
		b.WriteString(styles.Warning.Render("signing in..."))
	} else {
		b.WriteString(styles.Help.Render("enter sign in · tab next field · esc back"))
	}
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("No account yet? Press esc, then R to register."))
	return b.String()
}
