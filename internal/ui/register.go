package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mujigae/boardwalk/internal/board"
)

// registeredMsg carries the outcome of an account registration.
type registeredMsg struct {
	err error
}

const (
	registerFieldUsername = iota
	registerFieldPassword
	registerFieldNickname
	registerFieldEmail
	registerFieldCount
)

type registerModel struct {
	ctx    context.Context
	client *board.Client
	keys   keyMap

	fields [registerFieldCount]textinput.Model
	focus  int

	submitting bool
}

func newRegisterModel(ctx context.Context, client *board.Client, keys keyMap) registerModel {
	m := registerModel{ctx: ctx, client: client, keys: keys}

	labels := [registerFieldCount]string{"username", "password", "nickname", "email"}
	for i := range m.fields {
		input := textinput.New()
		input.Placeholder = labels[i]
		input.CharLimit = 100
		m.fields[i] = input
	}
	m.fields[registerFieldPassword].EchoMode = textinput.EchoPassword
	return m
}

func (m registerModel) open() (registerModel, tea.Cmd) {
	for i := range m.fields {
		m.fields[i].Reset()
		m.fields[i].Blur()
	}
	m.focus = registerFieldUsername
	m.submitting = false
	return m, m.fields[registerFieldUsername].Focus()
}

func (m registerModel) typing() bool { return true }

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registeredMsg:
		m.submitting = false
		if msg.err != nil {
			return m, nil
		}
		return m, tea.Batch(
			notifyCmd("Account created. Sign in to continue."),
			func() tea.Msg { return showLoginMsg{} },
		)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m registerModel) handleKey(msg tea.KeyMsg) (registerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return showListMsg{} }

	case key.Matches(msg, m.keys.NextField):
		m.fields[m.focus].Blur()
		m.focus = (m.focus + 1) % registerFieldCount
		return m, m.fields[m.focus].Focus()

	case key.Matches(msg, m.keys.Save):
		return m.submit()
	}

	if msg.String() == "enter" {
		if m.focus == registerFieldCount-1 {
			return m.submit()
		}
		m.fields[m.focus].Blur()
		m.focus++
		return m, m.fields[m.focus].Focus()
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

func (m registerModel) submit() (registerModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	reg := board.Registration{
		Username: strings.TrimSpace(m.fields[registerFieldUsername].Value()),
		Password: m.fields[registerFieldPassword].Value(),
		Nickname: strings.TrimSpace(m.fields[registerFieldNickname].Value()),
		Email:    strings.TrimSpace(m.fields[registerFieldEmail].Value()),
	}
	if reg.Username == "" || reg.Password == "" || reg.Nickname == "" {
		return m, notifyCmd("Username, password, and nickname are required.")
	}

	m.submitting = true
	ctx, client := m.ctx, m.client
	return m, func() tea.Msg {
		return registeredMsg{err: client.Register(ctx, reg)}
	}
}

func (m registerModel) view(styles Styles, width int) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Create an account"))
	b.WriteString("\n\n")

	labels := [registerFieldCount]string{"Username", "Password", "Nickname", "Email"}
	for i, field := range m.fields {
		b.WriteString(styles.Muted.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(field.View())
		b.WriteString("\n\n")
	}

	if m.submitting {
		b.WriteString(styles.Warning.Render("creating account..."))
	} else {
		b.WriteString(styles.Help.Render("ctrl+s submit · tab next field · esc back"))
	}
	return b.String()
}
