package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mujigae/boardwalk/internal/board"
	"github.com/mujigae/boardwalk/internal/session"
)

type profilePhase int

const (
	profileIdle profilePhase = iota
	profileLoading
	profileLoaded
	profileFailed
)

// userMsg carries the outcome of a profile fetch.
type userMsg struct {
	seq  int
	user *board.User
	err  error
}

// profileSavedMsg reports the outcome of a profile edit.
type profileSavedMsg struct {
	nickname string
	err      error
}

// accountDeletedMsg reports the outcome of deleting the logged-in account.
type accountDeletedMsg struct {
	err error
}

type profileModel struct {
	ctx      context.Context
	client   *board.Client
	sessions *session.Store
	keys     keyMap

	phase  profilePhase
	userID int64
	user   *board.User

	editing  bool
	nickname textinput.Model
	email    textinput.Model
	focus    int

	submitting bool
	spin       spinner.Model
	seq        int
}

func newProfileModel(ctx context.Context, client *board.Client, sessions *session.Store, keys keyMap) profileModel {
	nickname := textinput.New()
	nickname.Placeholder = "nickname"
	nickname.CharLimit = 50

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 100

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return profileModel{
		ctx:      ctx,
		client:   client,
		sessions: sessions,
		keys:     keys,
		nickname: nickname,
		email:    email,
		spin:     spin,
	}
}

// open loads the profile of the logged-in user.
func (m profileModel) open() (profileModel, tea.Cmd) {
	uid, ok := m.sessions.UserID()
	if !ok {
		return m, tea.Batch(
			notifyCmd("Sign in to view your profile."),
			func() tea.Msg { return showLoginMsg{} },
		)
	}
	m.userID = uid
	m.user = nil
	m.editing = false
	m.submitting = false
	m.phase = profileLoading
	m.seq++

	seq, ctx, client := m.seq, m.ctx, m.client
	request := func() tea.Msg {
		user, err := client.GetUser(ctx, uid)
		return userMsg{seq: seq, user: user, err: err}
	}
	return m, tea.Batch(m.spin.Tick, request)
}

func (m profileModel) typing() bool { return m.editing }

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case userMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.phase = profileFailed
			return m, nil
		}
		m.phase = profileLoaded
		m.user = msg.user
		return m, nil

	case profileSavedMsg:
		m.submitting = false
		if msg.err != nil {
			return m, nil
		}
		m.editing = false
		// Keep the session nickname in step with the server.
		if err := m.sessions.Set(m.userID, msg.nickname); err == nil {
			return m.reload(notifyCmd("Profile updated."))
		}
		return m.reload(notifyCmd("Profile updated, but the session could not be saved."))

	case accountDeletedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.sessions.Clear()
		return m, tea.Batch(
			notifyCmd("Account deleted."),
			func() tea.Msg { return showListMsg{refresh: true} },
		)

	case spinner.TickMsg:
		if m.phase != profileLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m profileModel) reload(first tea.Cmd) (profileModel, tea.Cmd) {
	reloaded, cmd := m.open()
	return reloaded, tea.Batch(first, cmd)
}

func (m profileModel) handleKey(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	if m.editing {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.editing = false
			m.nickname.Blur()
			m.email.Blur()
			return m, nil
		case key.Matches(msg, m.keys.NextField):
			m.focus = (m.focus + 1) % 2
			if m.focus == 0 {
				m.email.Blur()
				return m, m.nickname.Focus()
			}
			m.nickname.Blur()
			return m, m.email.Focus()
		case key.Matches(msg, m.keys.Save):
			return m.submit()
		}
		var cmd tea.Cmd
		if m.focus == 0 {
			m.nickname, cmd = m.nickname.Update(msg)
		} else {
			m.email, cmd = m.email.Update(msg)
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return showListMsg{} }

	case key.Matches(msg, m.keys.Refresh):
		return m.open()

	case key.Matches(msg, m.keys.EditComment):
		if m.phase != profileLoaded || m.user == nil {
			return m, nil
		}
		m.editing = true
		m.focus = 0
		m.nickname.SetValue(m.user.Nickname)
		m.email.SetValue(m.user.Email)
		return m, m.nickname.Focus()

	case key.Matches(msg, m.keys.DeleteComment):
		if m.phase != profileLoaded {
			return m, nil
		}
		ctx, client, uid := m.ctx, m.client, m.userID
		return m, confirmCmd("Delete your account? This cannot be undone.", func() tea.Msg {
			return accountDeletedMsg{err: client.DeleteUser(ctx, uid)}
		})
	}
	return m, nil
}

func (m profileModel) submit() (profileModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	update := board.UserUpdate{
		Nickname: strings.TrimSpace(m.nickname.Value()),
		Email:    strings.TrimSpace(m.email.Value()),
	}
	if update.Nickname == "" {
		return m, notifyCmd("Nickname is required.")
	}

	m.submitting = true
	ctx, client, uid := m.ctx, m.client, m.userID
	return m, func() tea.Msg {
		return profileSavedMsg{nickname: update.Nickname, err: client.UpdateUser(ctx, uid, update)}
	}
}

func (m profileModel) view(styles Styles, width int) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Profile"))
	b.WriteString("\n\n")

	switch m.phase {
	case profileIdle, profileLoading:
		b.WriteString(m.spin.View())
		b.WriteString(styles.Muted.Render(" loading profile..."))
		return b.String()
	case profileFailed:
		b.WriteString(styles.Danger.Render("Could not load your profile."))
		b.WriteString(styles.Muted.Render("  press r to retry"))
		return b.String()
	}
	if m.user == nil {
		return b.String()
	}

	if m.editing {
		b.WriteString(styles.Muted.Render("Nickname"))
		b.WriteString("\n")
		b.WriteString(m.nickname.View())
		b.WriteString("\n\n")
		b.WriteString(styles.Muted.Render("Email"))
		b.WriteString("\n")
		b.WriteString(m.email.View())
		b.WriteString("\n\n")
		if m.submitting {
			b.WriteString(styles.Warning.Render("saving..."))
		} else {
			b.WriteString(styles.Help.Render("ctrl+s save · tab next field · esc cancel"))
		}
		return b.String()
	}

	b.WriteString(styles.Muted.Render("Username  "))
	b.WriteString(styles.Text.Render(m.user.Username))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Nickname  "))
	b.WriteString(styles.Text.Render(m.user.Nickname))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Email     "))
	b.WriteString(styles.Text.Render(m.user.Email))
	b.WriteString("\n\n")
	b.WriteString(styles.Help.Render("e edit · d delete account · m my posts · esc back"))
	return b.String()
}
