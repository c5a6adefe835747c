package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mujigae/boardwalk/internal/board"
)

// listPhase is the lifecycle of the post list view.
type listPhase int

const (
	listIdle listPhase = iota
	listLoading
	listLoaded
	listFailed
)

// paginationSpan is how many page numbers the pagination bar shows.
const paginationSpan = 5

// postsMsg carries the outcome of one list fetch. seq identifies the request
// so results from superseded fetches can be discarded.
type postsMsg struct {
	seq  int
	page board.Page[board.Post]
	err  error
}

type listModel struct {
	ctx      context.Context
	client   *board.Client
	keys     keyMap
	pageSize int

	phase      listPhase
	page       int
	totalPages int
	empty      bool
	posts      []board.Post
	cursor     int

	searchInput textinput.Model
	searchTerm  string
	searching   bool

	spin spinner.Model
	seq  int
}

func newListModel(ctx context.Context, client *board.Client, keys keyMap, pageSize int) listModel {
	input := textinput.New()
	input.Placeholder = "search title or content..."
	input.CharLimit = 100

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return listModel{
		ctx:         ctx,
		client:      client,
		keys:        keys,
		pageSize:    pageSize,
		page:        1,
		totalPages:  1,
		searchInput: input,
		spin:        spin,
	}
}

// fetch dispatches one list request for the parameters active right now. The
// sequence number is captured at dispatch time; any result carrying an older
// sequence is stale and gets dropped in Update.
func (m listModel) fetch() (listModel, tea.Cmd) {
	m.phase = listLoading
	m.seq++

	seq, page, size, term := m.seq, m.page, m.pageSize, m.searchTerm
	ctx, client := m.ctx, m.client
	request := func() tea.Msg {
		result, err := client.ListPosts(ctx, page, size, term)
		return postsMsg{seq: seq, page: result, err: err}
	}
	return m, tea.Batch(m.spin.Tick, request)
}

func (m listModel) typing() bool { return m.searching }

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case postsMsg:
		if msg.seq != m.seq {
			// A newer request was dispatched after this one; keep the
			// newer state.
			return m, nil
		}
		if msg.err != nil {
			m.phase = listFailed
			return m, nil
		}
		m.phase = listLoaded
		m.posts = msg.page.Content
		m.empty = msg.page.Empty || len(msg.page.Content) == 0
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

func (m listModel) handleKey(msg tea.KeyMsg) (listModel, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			m.searchTerm = strings.TrimSpace(m.searchInput.Value())
			// A search commit always restarts at the first page.
			m.page = 1
			return m.fetch()
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			m.searchInput.SetValue(m.searchTerm)
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Reset):
		if m.searchTerm == "" {
			return m, nil
		}
		m.searchTerm = ""
		m.searchInput.Reset()
		m.page = 1
		return m.fetch()

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
	case key.Matches(msg, m.keys.FirstPage):
		return m.goToPage(1)
	case key.Matches(msg, m.keys.LastPage):
		return m.goToPage(m.totalPages)
	}
	return m, nil
}

func (m listModel) goToPage(page int) (listModel, tea.Cmd) {
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

func (m listModel) view(styles Styles, width int) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Posts"))
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
	} else if m.searchTerm != "" {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("results for %q  (ctrl+r to clear)", m.searchTerm)))
		b.WriteString("\n\n")
	}

	switch m.phase {
	case listIdle, listLoading:
		b.WriteString(m.spin.View())
		b.WriteString(styles.Muted.Render(" loading posts..."))
		return b.String()
	case listFailed:
		b.WriteString(styles.Danger.Render("Could not load posts."))
		b.WriteString(styles.Muted.Render("  press r to retry"))
		return b.String()
	}

	if m.empty {
		b.WriteString(styles.Muted.Render("No posts yet."))
		return b.String()
	}

	titleWidth := width - 30
	if titleWidth < 20 {
		titleWidth = 20
	}
	for i, post := range m.posts {
		line := fmt.Sprintf("%-*s  %s  %s",
			titleWidth,
			truncate(post.Title, titleWidth),
			styles.Muted.Render(truncate(post.AuthorNickname, 12)),
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

	b.WriteString("\n")
	b.WriteString(m.paginationView(styles))
	return b.String()
}

// paginationView renders «  ‹  1 2 [3] 4 5  ›  » with controls dimmed at the
// respective boundaries.
func (m listModel) paginationView(styles Styles) string {
	if m.totalPages <= 1 {
		return ""
	}

	atFirst := m.page == 1
	atLast := m.page == m.totalPages

	control := func(label string, disabled bool) string {
		if disabled {
			return styles.Muted.Render(label)
		}
		return styles.Accent.Render(label)
	}

	parts := []string{
		control("«", atFirst),
		control("‹", atFirst),
	}
	for _, p := range pageWindow(m.page, m.totalPages, paginationSpan) {
		label := fmt.Sprintf("%d", p)
		if p == m.page {
			parts = append(parts, styles.Selected.Render(" "+label+" "))
		} else {
			parts = append(parts, styles.Text.Render(label))
		}
	}
	parts = append(parts,
		control("›", atLast),
		control("»", atLast),
	)
	return strings.Join(parts, " ")
}
