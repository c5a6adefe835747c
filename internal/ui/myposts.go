package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mujigae/boardwalk/internal/board"
	"github.com/mujigae/boardwalk/internal/session"
)

// myPostsMsg carries one page of the logged-in user's posts.
type myPostsMsg struct {
	seq  int
	page board.Page[board.Post]
	err  error
}

type myPostsModel struct {
	ctx      context.Context
	client   *board.Client
	sessions *session.Store
	keys     keyMap
	pageSize int

	phase      listPhase
	userID     int64
	page       int
	totalPages int
	posts      []board.Post
	cursor     int

	spin spinner.Model
	seq  int
}

func newMyPostsModel(ctx context.Context, client *board.Client, sessions *session.Store, keys keyMap, pageSize int) myPostsModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return myPostsModel{
		ctx:        ctx,
		client:     client,
		sessions:   sessions,
		keys:       keys,
		pageSize:   pageSize,
		page:       1,
		totalPages: 1,
		spin:       spin,
	}
}

func (m myPostsModel) open() (myPostsModel, tea.Cmd) {
	uid, ok := m.sessions.UserID()
	if !ok {
		return m, tea.Batch(
			notifyCmd("Sign in to see your posts."),
			func() tea.Msg { return showLoginMsg{} },
		)
	}
	m.userID = uid
	m.page = 1
	m.cursor = 0
	return m.fetch()
}

func (m myPostsModel) fetch() (myPostsModel, tea.Cmd) {
	m.phase = listLoading
	m.seq++

	seq, uid, page, size := m.seq, m.userID, m.page, m.pageSize
	ctx, client := m.ctx, m.client
	request := func() tea.Msg {
		result, err := client.ListUserPosts(ctx, uid, page, size)
		return myPostsMsg{seq: seq, page: result, err: err}
	}
	return m, tea.Batch(m.spin.Tick, request)
}

func (m myPostsModel) typing() bool { return false }

func (m myPostsModel) Update(msg tea.Msg) (myPostsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case myPostsMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.phase = listFailed
			return m, nil
		}
		m.phase = listLoaded
		m.posts = msg.page.Content
		m.totalPages = msg.page.TotalPages
		if m.totalPages < 1 {
			m.totalPages = 1
		}
		if m.cursor >= len(m.posts) {
			m.cursor = 0
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != listLoading {
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

func (m myPostsModel) handleKey(msg tea.KeyMsg) (myPostsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return showListMsg{} }

	case key.Matches(msg, m.keys.Refresh):
		return m.fetch()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.phase == listLoaded && m.cursor < len(m.posts) {
			id := m.posts[m.cursor].ID
			return m, func() tea.Msg { return showDetailMsg{id: id} }
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		return m.goToPage(m.page - 1)
	case key.Matches(msg, m.keys.NextPage):
		return m.goToPage(m.page + 1)
	}
	return m, nil
}

func (m myPostsModel) goToPage(page int) (myPostsModel, tea.Cmd) {
	if page < 1 {
		page = 1
	}
	if page > m.totalPages {
		page = m.totalPages
	}
	if page == m.page {
		return m, nil
	}
	m.page = page
	m.cursor = 0
	return m.fetch()
}

func (m myPostsModel) view(styles Styles, width int) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("My posts"))
	b.WriteString("\n\n")

	switch m.phase {
	case listIdle, listLoading:
		b.WriteString(m.spin.View())
		b.WriteString(styles.Muted.Render(" loading..."))
		return b.String()
	case listFailed:
		b.WriteString(styles.Danger.Render("Could not load your posts."))
		b.WriteString(styles.Muted.Render("  press r to retry"))
		return b.String()
	}

	if len(m.posts) == 0 {
		b.WriteString(styles.Muted.Render("You have not written any posts."))
		return b.String()
	}

	titleWidth := width - 24
	if titleWidth < 20 {
		titleWidth = 20
	}
	for i, post := range m.posts {
		line := fmt.Sprintf("%-*s  %s",
			titleWidth,
			truncate(post.Title, titleWidth),
			styles.Muted.Render(formatWhen(post.CreatedAt, post.ParsedCreatedAt())),
		)
		if i == m.cursor {
			line = styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.totalPages > 1 {
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render(fmt.Sprintf("page %d of %d  (h/l to change)", m.page, m.totalPages)))
	}
	return b.String()
}
