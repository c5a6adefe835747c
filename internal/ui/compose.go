package ui

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mujigae/boardwalk/internal/board"
)

// composeSeedMsg delivers the existing post when the form opens in edit mode.
type composeSeedMsg struct {
	seq  int
	post *board.Post
	err  error
}

// postSavedMsg reports the outcome of submitting the form.
type postSavedMsg struct {
	id  int64
	err error
}

const (
	composeFieldTitle = iota
	composeFieldBody
	composeFieldFiles
	composeFieldCount
)

type composeModel struct {
	ctx    context.Context
	client *board.Client
	keys   keyMap

	// editID is the post being edited; zero means a new post.
	editID  int64
	seeding bool

	title      textinput.Model
	body       textarea.Model
	filesInput textinput.Model
	focus      int

	submitting bool
	seq        int
}

func newComposeModel(ctx context.Context, client *board.Client, keys keyMap) composeModel {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 200

	body := textarea.New()
	body.Placeholder = "write something..."
	body.SetHeight(8)

	files := textinput.New()
	files.Placeholder = "attachment paths, space separated (optional)"

	return composeModel{
		ctx:        ctx,
		client:     client,
		keys:       keys,
		title:      title,
		body:       body,
		filesInput: files,
	}
}

// open resets the form. With editID set the current post is fetched to seed
// the fields; attachments cannot be changed when editing.
func (m composeModel) open(editID int64) (composeModel, tea.Cmd) {
	m.editID = editID
	m.submitting = false
	m.title.Reset()
	m.body.Reset()
	m.filesInput.Reset()
	m.focus = composeFieldTitle
	m.applyFocus()

	if editID == 0 {
		m.seeding = false
		return m, m.title.Focus()
	}

	m.seeding = true
	m.seq++
	seq, ctx, client := m.seq, m.ctx, m.client
	return m, func() tea.Msg {
		post, err := client.GetPost(ctx, editID)
		return composeSeedMsg{seq: seq, post: post, err: err}
	}
}

func (m composeModel) typing() bool { return true }

func (m composeModel) Update(msg tea.Msg) (composeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case composeSeedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.seeding = false
		if msg.err != nil {
			// Could not load the post to edit; bail back to the list.
			return m, func() tea.Msg { return showListMsg{} }
		}
		m.title.SetValue(msg.post.Title)
		m.body.SetValue(msg.post.Content)
		return m, m.title.Focus()

	case postSavedMsg:
		m.submitting = false
		if msg.err != nil {
			return m, nil
		}
		saved := msg.id
		notice := "Post created."
		if m.editID != 0 {
			notice = "Post updated."
		}
		return m, tea.Batch(
			notifyCmd(notice),
			func() tea.Msg { return showDetailMsg{id: saved} },
		)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m composeModel) handleKey(msg tea.KeyMsg) (composeModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		if m.editID != 0 {
			id := m.editID
			return m, func() tea.Msg { return showDetailMsg{id: id} }
		}
		return m, func() tea.Msg { return showListMsg{} }

	case key.Matches(msg, m.keys.NextField):
		m.focus = (m.focus + 1) % composeFieldCount
		if m.editID != 0 && m.focus == composeFieldFiles {
			// Attachments are immutable through the edit flow.
			m.focus = composeFieldTitle
		}
		m.applyFocus()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m.submit()
	}

	var cmd tea.Cmd
	switch m.focus {
	case composeFieldTitle:
		m.title, cmd = m.title.Update(msg)
	case composeFieldBody:
		m.body, cmd = m.body.Update(msg)
	case composeFieldFiles:
		m.filesInput, cmd = m.filesInput.Update(msg)
	}
	return m, cmd
}

func (m *composeModel) applyFocus() {
	m.title.Blur()
	m.body.Blur()
	m.filesInput.Blur()
	switch m.focus {
	case composeFieldTitle:
		m.title.Focus()
	case composeFieldBody:
		m.body.Focus()
	case composeFieldFiles:
		m.filesInput.Focus()
	}
}

func (m composeModel) submit() (composeModel, tea.Cmd) {
	if m.submitting || m.seeding {
		return m, nil
	}

	draft := board.PostDraft{
		Title:   strings.TrimSpace(m.title.Value()),
		Content: m.body.Value(),
	}
	if draft.Title == "" {
		return m, notifyCmd("Title is required.")
	}
	if strings.TrimSpace(draft.Content) == "" {
		return m, notifyCmd("Content is required.")
	}

	paths := strings.Fields(m.filesInput.Value())
	if len(paths) > board.MaxUploadFiles {
		m.filesInput.Reset()
		return m, notifyCmd(fmt.Sprintf("At most %d attachments are allowed.", board.MaxUploadFiles))
	}

	m.submitting = true
	ctx, client, editID := m.ctx, m.client, m.editID
	return m, func() tea.Msg {
		if editID != 0 {
			return postSavedMsg{id: editID, err: client.UpdatePost(ctx, editID, draft)}
		}

		files, err := readUploads(paths)
		if err != nil {
			return postSavedMsg{err: err}
		}
		post, err := client.CreatePost(ctx, draft, files)
		if err != nil {
			return postSavedMsg{err: err}
		}
		return postSavedMsg{id: post.ID}
	}
}

func readUploads(paths []string) ([]board.Upload, error) {
	var uploads []board.Upload
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attachment %q: %w", path, err)
		}
		uploads = append(uploads, board.Upload{
			Name:   filepath.Base(path),
			Reader: bytes.NewReader(data),
		})
	}
	return uploads, nil
}

func (m composeModel) view(styles Styles, width int) string {
	var b strings.Builder

	if m.editID != 0 {
		b.WriteString(styles.Title.Render("Edit post"))
	} else {
		b.WriteString(styles.Title.Render("New post"))
	}
	b.WriteString("\n\n")

	if m.seeding {
		b.WriteString(styles.Muted.Render("loading post..."))
		return b.String()
	}

	b.WriteString(styles.Muted.Render("Title"))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")

	b.WriteString(styles.Muted.Render("Content"))
	b.WriteString("\n")
	b.WriteString(m.body.View())
	b.WriteString("\n\n")

	if m.editID != 0 {
		b.WriteString(styles.Muted.Render("Attachments cannot be changed when editing."))
	} else {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("Attachments (max %d)", board.MaxUploadFiles)))
		b.WriteString("\n")
		b.WriteString(m.filesInput.View())
	}
	b.WriteString("\n\n")

	if m.submitting {
		b.WriteString(styles.Warning.Render("submitting..."))
	} else {
		b.WriteString(styles.Help.Render("tab next field · ctrl+s submit · esc cancel"))
	}
	return b.String()
}
