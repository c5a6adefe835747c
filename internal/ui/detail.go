package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mujigae/boardwalk/internal/board"
	"github.com/mujigae/boardwalk/internal/session"
)

// detailPhase is the lifecycle of the post detail view.
type detailPhase int

const (
	detailIdle detailPhase = iota
	detailLoading
	detailLoaded
	detailFailed
	detailNotFound
)

// postMsg carries the outcome of one detail fetch, sequence-guarded like the
// list fetches.
type postMsg struct {
	seq  int
	post *board.Post
	err  error
}

// threadMutatedMsg reports the outcome of any comment mutation. On success
// the whole thread is re-fetched; there is no local patching.
type threadMutatedMsg struct {
	err error
}

// postDeletedMsg reports the outcome of deleting the post itself.
type postDeletedMsg struct {
	err error
}

type detailModel struct {
	ctx      context.Context
	client   *board.Client
	sessions *session.Store
	keys     keyMap

	phase    detailPhase
	postID   int64
	post     *board.Post
	comments []board.Comment
	cursor   int

	composeInput textarea.Model
	composing    bool

	// editingID is the comment currently in edit mode; zero means none.
	// At most one comment is editable at a time.
	editingID int64
	editInput textarea.Model

	spin spinner.Model
	seq  int
}

func newDetailModel(ctx context.Context, client *board.Client, sessions *session.Store, keys keyMap) detailModel {
	compose := textarea.New()
	compose.Placeholder = "write a comment..."
	compose.SetHeight(3)
	compose.CharLimit = 1000

	edit := textarea.New()
	edit.SetHeight(3)
	edit.CharLimit = 1000

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return detailModel{
		ctx:          ctx,
		client:       client,
		sessions:     sessions,
		keys:         keys,
		composeInput: compose,
		editInput:    edit,
		spin:         spin,
	}
}

// open resets the view onto a post and starts loading it.
func (m detailModel) open(id int64) (detailModel, tea.Cmd) {
	m.postID = id
	m.post = nil
	m.comments = nil
	m.cursor = 0
	m.composing = false
	m.composeInput.Reset()
	m.composeInput.Blur()
	m.editingID = 0
	m.editInput.Reset()
	m.editInput.Blur()
	return m.fetch()
}

func (m detailModel) fetch() (detailModel, tea.Cmd) {
	m.phase = detailLoading
	m.seq++

	seq, id := m.seq, m.postID
	ctx, client := m.ctx, m.client
	request := func() tea.Msg {
		post, err := client.GetPost(ctx, id)
		return postMsg{seq: seq, post: post, err: err}
	}
	return m, tea.Batch(m.spin.Tick, request)
}

func (m detailModel) typing() bool { return m.composing || m.editingID != 0 }

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case postMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			if board.IsNotFound(msg.err) {
				m.phase = detailNotFound
			} else {
				m.phase = detailFailed
			}
			return m, nil
		}
		m.phase = detailLoaded
		m.post = msg.post
		m.comments = msg.post.Comments
		if m.cursor >= len(m.comments) {
			m.cursor = 0
		}
		// Drop the edit sub-state when the edited comment vanished from
		// the re-fetched thread.
		if m.editingID != 0 && m.findComment(m.editingID) == nil {
			m.editingID = 0
			m.editInput.Reset()
			m.editInput.Blur()
		}
		return m, nil

	case threadMutatedMsg:
		if msg.err != nil {
			// Already notified by the transport layer; keep the user's
			// input so they can retry.
			return m, nil
		}
		m.composing = false
		m.composeInput.Reset()
		m.composeInput.Blur()
		m.editingID = 0
		m.editInput.Reset()
		m.editInput.Blur()
		return m.fetch()

	case postDeletedMsg:
		if msg.err != nil {
			return m, nil
		}
		return m, tea.Batch(
			notifyCmd("Post deleted."),
			func() tea.Msg { return showListMsg{refresh: true} },
		)

	case spinner.TickMsg:
		if m.phase != detailLoading {
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

func (m detailModel) handleKey(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	if m.composing {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.composing = false
			m.composeInput.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Save):
			return m.submitNewComment()
		}
		var cmd tea.Cmd
		m.composeInput, cmd = m.composeInput.Update(msg)
		return m, cmd
	}

	if m.editingID != 0 {
		switch {
		case key.Matches(msg, m.keys.Back):
			m.editingID = 0
			m.editInput.Reset()
			m.editInput.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Save):
			return m.submitCommentEdit()
		}
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(msg)
		return m, cmd
	}

	if m.phase != detailLoaded {
		if key.Matches(msg, m.keys.Refresh) {
			return m.fetch()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.fetch()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.comments)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.NewComment):
		if _, ok := m.sessions.UserID(); !ok {
			return m, tea.Batch(
				notifyCmd("Sign in to write a comment."),
				func() tea.Msg { return showLoginMsg{} },
			)
		}
		m.composing = true
		return m, m.composeInput.Focus()

	case key.Matches(msg, m.keys.EditComment):
		return m.startCommentEdit()

	case key.Matches(msg, m.keys.DeleteComment):
		comment := m.selectedComment()
		if comment == nil || !comment.IsAuthor {
			return m, nil
		}
		return m, confirmCmd("Delete this comment?", m.deleteCommentCmd(comment.ID))

	case key.Matches(msg, m.keys.EditPost):
		if m.post == nil || !m.post.IsAuthor {
			return m, nil
		}
		id := m.postID
		return m, func() tea.Msg { return showComposeMsg{editID: id} }

	case key.Matches(msg, m.keys.DeletePost):
		if m.post == nil || !m.post.IsAuthor {
			return m, nil
		}
		return m, confirmCmd("Delete this post?", m.deletePostCmd())
	}
	return m, nil
}

// startCommentEdit enters edit mode on the selected comment, seeding the
// editor from its current content. Switching to another comment while one is
// already in edit mode discards the in-progress edit.
func (m detailModel) startCommentEdit() (detailModel, tea.Cmd) {
	comment := m.selectedComment()
	if comment == nil || !comment.IsAuthor {
		return m, nil
	}

	var cmds []tea.Cmd
	if m.editingID != 0 && m.editingID != comment.ID {
		cmds = append(cmds, notifyCmd("Discarded the unsaved edit on the other comment."))
	}
	m.editingID = comment.ID
	m.editInput.SetValue(comment.Content)
	cmds = append(cmds, m.editInput.Focus())
	return m, tea.Batch(cmds...)
}

func (m detailModel) submitNewComment() (detailModel, tea.Cmd) {
	content := m.composeInput.Value()
	if strings.TrimSpace(content) == "" {
		return m, notifyCmd("Comment cannot be empty.")
	}

	ctx, client, id := m.ctx, m.client, m.postID
	return m, func() tea.Msg {
		return threadMutatedMsg{err: client.CreateComment(ctx, id, content)}
	}
}

func (m detailModel) submitCommentEdit() (detailModel, tea.Cmd) {
	content := m.editInput.Value()
	if strings.TrimSpace(content) == "" {
		return m, notifyCmd("Comment cannot be empty.")
	}

	ctx, client, postID, commentID := m.ctx, m.client, m.postID, m.editingID
	return m, func() tea.Msg {
		return threadMutatedMsg{err: client.UpdateComment(ctx, postID, commentID, content)}
	}
}

func (m detailModel) deleteCommentCmd(commentID int64) tea.Cmd {
	ctx, client, postID := m.ctx, m.client, m.postID
	return func() tea.Msg {
		return threadMutatedMsg{err: client.DeleteComment(ctx, postID, commentID)}
	}
}

func (m detailModel) deletePostCmd() tea.Cmd {
	ctx, client, id := m.ctx, m.client, m.postID
	return func() tea.Msg {
		return postDeletedMsg{err: client.DeletePost(ctx, id)}
	}
}

func (m detailModel) selectedComment() *board.Comment {
	if m.cursor < 0 || m.cursor >= len(m.comments) {
		return nil
	}
	return &m.comments[m.cursor]
}

func (m detailModel) findComment(id int64) *board.Comment {
	for i := range m.comments {
		if m.comments[i].ID == id {
			return &m.comments[i]
		}
	}
	return nil
}

func (m detailModel) view(styles Styles, width int) string {
	switch m.phase {
	case detailIdle, detailLoading:
		return m.spin.View() + styles.Muted.Render(" loading post...")
	case detailFailed:
		return styles.Danger.Render("Could not load the post.") +
			styles.Muted.Render("  press r to retry")
	case detailNotFound:
		return styles.Warning.Render("Post not found.") +
			styles.Muted.Render("  press esc to go back")
	}
	if m.post == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render(m.post.Title))
	b.WriteString("\n")
	author := m.post.AuthorNickname
	if author == "" {
		author = "anonymous"
	}
	b.WriteString(styles.Muted.Render(fmt.Sprintf("%s  %s", author, formatWhen(m.post.CreatedAt, m.post.ParsedCreatedAt()))))
	if m.post.IsAuthor {
		b.WriteString(styles.Accent.Render("  [E edit  D delete]"))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.Text.Render(m.post.Content))
	b.WriteString("\n")

	if len(m.post.Files) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.Accent.Render(fmt.Sprintf("Attachments (%d)", len(m.post.Files))))
		b.WriteString("\n")
		for _, file := range m.post.Files {
			marker := "·"
			if board.IsImage(file.OriginalName) {
				marker = "img"
			}
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				styles.Muted.Render(marker),
				file.OriginalName,
				styles.Muted.Render(fmt.Sprintf("(%s)  %s", formatKB(file.FileSize), m.client.FileURL(file.FileURL))),
			))
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Accent.Render(fmt.Sprintf("Comments (%d)", len(m.comments))))
	b.WriteString("\n")

	if len(m.comments) == 0 {
		b.WriteString(styles.Muted.Render("  Be the first to comment."))
		b.WriteString("\n")
	}
	for i, comment := range m.comments {
		cursor := "  "
		if i == m.cursor && !m.composing {
			cursor = styles.Accent.Render("> ")
		}
		author := comment.AuthorNickname
		if author == "" {
			author = "anonymous"
		}
		meta := fmt.Sprintf("%s  %s", author, formatWhen(comment.CreatedAt, comment.ParsedCreatedAt()))
		if comment.IsAuthor {
			meta += "  [e edit  d delete]"
		}
		b.WriteString(cursor)
		b.WriteString(styles.Muted.Render(meta))
		b.WriteString("\n")

		if m.editingID == comment.ID {
			b.WriteString(m.editInput.View())
			b.WriteString("\n")
			b.WriteString(styles.Help.Render("  ctrl+s save · esc cancel"))
		} else {
			b.WriteString("  " + styles.Text.Render(comment.Content))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.composing {
		b.WriteString(m.composeInput.View())
		b.WriteString("\n")
		b.WriteString(styles.Help.Render("ctrl+s post comment · esc cancel"))
	} else if _, ok := m.sessions.UserID(); ok {
		b.WriteString(styles.Help.Render("c to write a comment"))
	} else {
		b.WriteString(styles.Muted.Render("Sign in (i) to write a comment."))
	}
	return b.String()
}
