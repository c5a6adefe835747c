package ui

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mujigae/boardwalk/internal/board"
	"github.com/mujigae/boardwalk/internal/prefs"
	"github.com/mujigae/boardwalk/internal/session"
)

// View identifies which screen is active.
type View int

const (
	ViewList View = iota
	ViewDetail
	ViewCompose
	ViewLogin
	ViewRegister
	ViewProfile
	ViewMyPosts
)

func (v View) String() string {
	switch v {
	case ViewList:
		return "posts"
	case ViewDetail:
		return "post"
	case ViewCompose:
		return "compose"
	case ViewLogin:
		return "sign in"
	case ViewRegister:
		return "register"
	case ViewProfile:
		return "profile"
	case ViewMyPosts:
		return "my posts"
	default:
		return "unknown"
	}
}

// Navigation messages. Sub-models emit these; only the root model consumes
// them.
type (
	showListMsg    struct{ refresh bool }
	showDetailMsg  struct{ id int64 }
	showComposeMsg struct{ editID int64 }
	showLoginMsg   struct{}
	showRegisterMsg struct{}
	showProfileMsg struct{}
	showMyPostsMsg struct{}
)

// noticeMsg displays a blocking notice bar; any key dismisses it.
type noticeMsg struct{ text string }

// notifyCmd wraps a notice in a command so sub-models can batch it.
func notifyCmd(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}

// confirmRequestMsg asks the root model to show a yes/no prompt and run the
// command only on confirmation.
type confirmRequestMsg struct {
	prompt string
	cmd    tea.Cmd
}

func confirmCmd(prompt string, cmd tea.Cmd) tea.Cmd {
	return func() tea.Msg { return confirmRequestMsg{prompt: prompt, cmd: cmd} }
}

// noticeInbox collects transport failure notices from the client. The client
// calls Notify from request goroutines, so access is mutex-guarded; the root
// model drains the inbox on every Update.
type noticeInbox struct {
	mu      sync.Mutex
	notices []string
}

func (n *noticeInbox) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, message)
}

func (n *noticeInbox) drain() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	drained := n.notices
	n.notices = nil
	return drained
}

// Options configures the application model.
type Options struct {
	Context   context.Context
	Client    *board.Client
	Sessions  *session.Store
	PageSize  int
	ThemeName string
	PrefsPath string
}

// Model is the root application model. It owns navigation, the notice bar,
// confirmation prompts, and theming; each screen is a sub-model.
type Model struct {
	ctx      context.Context
	client   *board.Client
	sessions *session.Store
	keys     keyMap
	inbox    *noticeInbox

	theme     Theme
	styles    Styles
	prefsPath string

	active View
	width  int
	height int

	help   help.Model
	notice string

	confirmPrompt string
	confirmAction tea.Cmd

	list     listModel
	detail   detailModel
	compose  composeModel
	login    loginModel
	register registerModel
	profile  profileModel
	myPosts  myPostsModel
}

// NewModel builds the root model and wires the notice inbox into the client.
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	keys := DefaultKeyMap()
	inbox := &noticeInbox{}
	opts.Client.SetNotifier(inbox)

	theme := GetTheme(opts.ThemeName)

	return Model{
		ctx:       ctx,
		client:    opts.Client,
		sessions:  opts.Sessions,
		keys:      keys,
		inbox:     inbox,
		theme:     theme,
		styles:    theme.Styles(),
		prefsPath: opts.PrefsPath,
		active:    ViewList,
		help:      help.New(),
		list:      newListModel(ctx, opts.Client, keys, opts.PageSize),
		detail:    newDetailModel(ctx, opts.Client, opts.Sessions, keys),
		compose:   newComposeModel(ctx, opts.Client, keys),
		login:     newLoginModel(ctx, opts.Client, opts.Sessions, keys),
		register:  newRegisterModel(ctx, opts.Client, keys),
		profile:   newProfileModel(ctx, opts.Client, opts.Sessions, keys),
		myPosts:   newMyPostsModel(ctx, opts.Client, opts.Sessions, keys, opts.PageSize),
	}
}

// Init kicks off the first list fetch through the normal navigation path so
// the dispatched sequence number lands in the retained model.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return showListMsg{refresh: true} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Failure notices raised by the client since the last Update surface
	// here, newest last.
	if drained := m.inbox.drain(); len(drained) > 0 {
		m.notice = drained[len(drained)-1]
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case noticeMsg:
		m.notice = msg.text
		return m, nil

	case confirmRequestMsg:
		m.confirmPrompt = msg.prompt
		m.confirmAction = msg.cmd
		return m, nil

	case showListMsg:
		m.active = ViewList
		if msg.refresh {
			var cmd tea.Cmd
			m.list, cmd = m.list.fetch()
			return m, cmd
		}
		return m, nil

	case showDetailMsg:
		m.active = ViewDetail
		var cmd tea.Cmd
		m.detail, cmd = m.detail.open(msg.id)
		return m, cmd

	case showComposeMsg:
		m.active = ViewCompose
		var cmd tea.Cmd
		m.compose, cmd = m.compose.open(msg.editID)
		return m, cmd

	case showLoginMsg:
		m.active = ViewLogin
		var cmd tea.Cmd
		m.login, cmd = m.login.open()
		return m, cmd

	case showRegisterMsg:
		m.active = ViewRegister
		var cmd tea.Cmd
		m.register, cmd = m.register.open()
		return m, cmd

	case showProfileMsg:
		m.active = ViewProfile
		var cmd tea.Cmd
		m.profile, cmd = m.profile.open()
		return m, cmd

	case showMyPostsMsg:
		m.active = ViewMyPosts
		var cmd tea.Cmd
		m.myPosts, cmd = m.myPosts.open()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActive(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// A pending confirmation captures all keys.
	if m.confirmPrompt != "" {
		switch msg.String() {
		case "y", "Y", "enter":
			action := m.confirmAction
			m.confirmPrompt = ""
			m.confirmAction = nil
			return m, action
		default:
			m.confirmPrompt = ""
			m.confirmAction = nil
			return m, nil
		}
	}

	// A notice blocks until acknowledged; the dismissing key is consumed.
	if m.notice != "" {
		m.notice = ""
		return m, nil
	}

	// Global shortcuts apply only when the active screen is not capturing
	// text input.
	if !m.activeTyping() {
		switch {
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.CycleTheme):
			m.theme = GetTheme(NextTheme(m.theme.Name))
			m.styles = m.theme.Styles()
			m.savePrefs()
			return m, nil

		case key.Matches(msg, m.keys.Boards):
			return m, func() tea.Msg { return showListMsg{refresh: true} }

		case key.Matches(msg, m.keys.MyPosts):
			return m, func() tea.Msg { return showMyPostsMsg{} }

		case key.Matches(msg, m.keys.Profile):
			return m, func() tea.Msg { return showProfileMsg{} }

		case key.Matches(msg, m.keys.Write):
			if _, ok := m.sessions.UserID(); !ok {
				return m, tea.Batch(
					notifyCmd("Sign in to write a post."),
					func() tea.Msg { return showLoginMsg{} },
				)
			}
			return m, func() tea.Msg { return showComposeMsg{} }

		case key.Matches(msg, m.keys.SignIn):
			if _, ok := m.sessions.UserID(); ok {
				return m, notifyCmd("Already signed in.")
			}
			return m, func() tea.Msg { return showLoginMsg{} }

		case key.Matches(msg, m.keys.SignOut):
			if _, ok := m.sessions.UserID(); !ok {
				return m, nil
			}
			m.sessions.Clear()
			// Author flags in the current detail view are stale now.
			return m, tea.Batch(
				notifyCmd("Signed out."),
				func() tea.Msg { return showListMsg{refresh: true} },
			)

		case key.Matches(msg, m.keys.Register):
			return m, func() tea.Msg { return showRegisterMsg{} }

		case key.Matches(msg, m.keys.Back):
			if m.active == ViewDetail || m.active == ViewMyPosts || m.active == ViewProfile {
				return m, func() tea.Msg { return showListMsg{} }
			}
		}
	}

	return m.updateActive(msg)
}

func (m Model) activeTyping() bool {
	switch m.active {
	case ViewList:
		return m.list.typing()
	case ViewDetail:
		return m.detail.typing()
	case ViewCompose:
		return m.compose.typing()
	case ViewLogin:
		return m.login.typing()
	case ViewRegister:
		return m.register.typing()
	case ViewProfile:
		return m.profile.typing()
	case ViewMyPosts:
		return m.myPosts.typing()
	}
	return false
}

// updateActive routes a message to the active screen only. Background screens
// hold no in-flight requests of interest; stale results they do receive are
// dropped by their sequence guards anyway.
func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.active {
	case ViewList:
		m.list, cmd = m.list.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewCompose:
		m.compose, cmd = m.compose.Update(msg)
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewRegister:
		m.register, cmd = m.register.Update(msg)
	case ViewProfile:
		m.profile, cmd = m.profile.Update(msg)
	case ViewMyPosts:
		m.myPosts, cmd = m.myPosts.Update(msg)
	}
	return m, cmd
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	body := ""
	switch m.active {
	case ViewList:
		body = m.list.view(m.styles, width)
	case ViewDetail:
		body = m.detail.view(m.styles, width)
	case ViewCompose:
		body = m.compose.view(m.styles, width)
	case ViewLogin:
		body = m.login.view(m.styles, width)
	case ViewRegister:
		body = m.register.view(m.styles, width)
	case ViewProfile:
		body = m.profile.view(m.styles, width)
	case ViewMyPosts:
		body = m.myPosts.view(m.styles, width)
	}

	return m.headerView() + "\n\n" + body + "\n\n" + m.footerView()
}

func (m Model) headerView() string {
	who := "not signed in"
	if nickname := m.sessions.Nickname(); nickname != "" {
		who = nickname
	}
	return m.styles.Title.Render("boardwalk") +
		m.styles.Muted.Render(fmt.Sprintf("  %s  ·  %s", m.active, who))
}

func (m Model) footerView() string {
	if m.confirmPrompt != "" {
		return m.styles.Warning.Render(m.confirmPrompt) +
			m.styles.Help.Render("  y/enter confirm · any other key cancel")
	}
	if m.notice != "" {
		return m.styles.Notice.Render(m.notice) +
			m.styles.Help.Render("  press any key")
	}
	if m.activeTyping() {
		return m.styles.Help.Render("esc cancel · ctrl+c quit")
	}
	return m.help.View(m.keys)
}

// Run drives the program until quit or context cancellation.
func Run(opts Options) error {
	model := NewModel(opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(model.ctx))
	_, err := program.Run()
	return err
}
