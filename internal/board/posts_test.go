package board

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mujigae/boardwalk/internal/session"
)

const successEmpty = `{"success":true,"data":null}`

func TestListPosts_QueryShape(t *testing.T) {
	t.Parallel()

	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"content":[{"id":1,"title":"a"}],"totalPages":3,"empty":false}}`))
	}))
	t.Cleanup(server.Close)

	c, _ := newTestClient(t, server.URL, newTestSessions(t))

	page, err := c.ListPosts(context.Background(), 2, 20, "  hello  ")
	require.NoError(t, err)

	// 1-based caller page becomes the server's 0-based page.
	assert.Equal(t, "1", got.Get("page"))
	assert.Equal(t, "20", got.Get("size"))
	assert.Equal(t, "hello", got.Get("keyword"))
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Content, 1)
	assert.Equal(t, int64(1), page.Content[0].ID)
}

func TestListPosts_BlankKeywordOmitted(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		page    int
		keyword string
		want    string
	}{
		{"empty", 1, "", "0"},
		{"whitespace", 1, "   ", "0"},
		{"page_floor", 0, "", "0"},
		{"later_page", 5, "", "4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got url.Values
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query()
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"success":true,"data":{"content":[],"totalPages":0,"empty":true}}`))
			}))
			t.Cleanup(server.Close)

			c, _ := newTestClient(t, server.URL, newTestSessions(t))

			_, err := c.ListPosts(context.Background(), tc.page, 20, tc.keyword)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Get("page"))
			_, hasKeyword := got["keyword"]
			assert.False(t, hasKeyword, "blank keyword must be omitted")
		})
	}
}

func TestGetPost_IdentityQueryParameter(t *testing.T) {
	t.Parallel()

	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":4,"isAuthor":false}}`))
	}))
	t.Cleanup(server.Close)

	sessions := newTestSessions(t)
	c, _ := newTestClient(t, server.URL, sessions)

	// Anonymous viewers omit the parameter entirely.
	post, err := c.GetPost(context.Background(), 4)
	require.NoError(t, err)
	_, hasUser := got["userId"]
	assert.False(t, hasUser, "anonymous request must omit userId")
	assert.False(t, post.IsAuthor)

	// Logged-in viewers send it so the server can compute isAuthor.
	require.NoError(t, sessions.Set(31, "dana"))
	_, err = c.GetPost(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "31", got.Get("userId"))
}

func TestCreatePost_MultipartShape(t *testing.T) {
	t.Parallel()

	type part struct {
		name        string
		filename    string
		contentType string
		body        string
	}

	var gotQuery url.Values
	var gotParts []part
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/form-data", mediaType)

		reader := multipart.NewReader(r.Body, params["boundary"])
		gotParts = nil
		for {
			p, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			body, err := io.ReadAll(p)
			require.NoError(t, err)
			gotParts = append(gotParts, part{
				name:        p.FormName(),
				filename:    p.FileName(),
				contentType: p.Header.Get("Content-Type"),
				body:        string(body),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":77}}`))
	}))
	t.Cleanup(server.Close)

	sessions := newTestSessions(t)
	require.NoError(t, sessions.Set(5, "dana"))
	c, _ := newTestClient(t, server.URL, sessions)

	draft := PostDraft{Title: "t", Content: "c"}
	files := []Upload{
		{Name: "a.png", Reader: strings.NewReader("png-bytes")},
		{Name: "b.txt", Reader: strings.NewReader("text")},
	}

	post, err := c.CreatePost(context.Background(), draft, files)
	require.NoError(t, err)
	assert.Equal(t, int64(77), post.ID)

	// Identity is a query parameter, never part of the body.
	assert.Equal(t, "5", gotQuery.Get("userId"))

	require.Len(t, gotParts, 3)
	assert.Equal(t, "post", gotParts[0].name)
	assert.Equal(t, "application/json", gotParts[0].contentType)
	assert.JSONEq(t, `{"title":"t","content":"c"}`, gotParts[0].body)
	assert.NotContains(t, gotParts[0].body, "userId")

	assert.Equal(t, "files", gotParts[1].name)
	assert.Equal(t, "a.png", gotParts[1].filename)
	assert.Equal(t, "png-bytes", gotParts[1].body)
	assert.Equal(t, "files", gotParts[2].name)
	assert.Equal(t, "b.txt", gotParts[2].filename)
}

func TestCreatePost_NoFilesMeansSinglePostPart(t *testing.T) {
	t.Parallel()

	var partNames []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		reader := multipart.NewReader(r.Body, params["boundary"])
		partNames = nil
		for {
			p, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			partNames = append(partNames, p.FormName())
			_, _ = io.Copy(io.Discard, p)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":1}}`))
	}))
	t.Cleanup(server.Close)

	sessions := newTestSessions(t)
	require.NoError(t, sessions.Set(5, "dana"))
	c, _ := newTestClient(t, server.URL, sessions)

	_, err := c.CreatePost(context.Background(), PostDraft{Title: "t", Content: "c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"post"}, partNames)
}

func TestCreatePost_TooManyFilesFailsBeforeNetwork(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(successEmpty))
	}))
	t.Cleanup(server.Close)

	sessions := newTestSessions(t)
	require.NoError(t, sessions.Set(5, "dana"))
	c, notifier := newTestClient(t, server.URL, sessions)

	files := make([]Upload, MaxUploadFiles+1)
	for i := range files {
		files[i] = Upload{Name: "f", Reader: strings.NewReader("x")}
	}

	_, err := c.CreatePost(context.Background(), PostDraft{Title: "t", Content: "c"}, files)
	require.ErrorIs(t, err, ErrTooManyFiles)
	assert.Equal(t, 0, calls, "local validation must not issue a request")
	assert.Empty(t, notifier.all(), "local validation is handled at the call site")
}

func TestMutations_RequireIdentityLocally(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(successEmpty))
	}))
	t.Cleanup(server.Close)

	c, _ := newTestClient(t, server.URL, newTestSessions(t))
	ctx := context.Background()

	_, err := c.CreatePost(ctx, PostDraft{Title: "t", Content: "c"}, nil)
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
	assert.ErrorIs(t, c.UpdatePost(ctx, 1, PostDraft{}), session.ErrUnauthenticated)
	assert.ErrorIs(t, c.DeletePost(ctx, 1), session.ErrUnauthenticated)
	assert.ErrorIs(t, c.CreateComment(ctx, 1, "hi"), session.ErrUnauthenticated)
	assert.ErrorIs(t, c.UpdateComment(ctx, 1, 2, "hi"), session.ErrUnauthenticated)
	assert.ErrorIs(t, c.DeleteComment(ctx, 1, 2), session.ErrUnauthenticated)

	assert.Equal(t, 0, calls, "unauthenticated calls must fail before the network")
}

func TestUpdateAndDeletePost_Shapes(t *testing.T) {
	t.Parallel()

	type recorded struct {
		method string
		path   string
		query  url.Values
		body   string
	}
	var got recorded
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = recorded{method: r.Method, path: r.URL.Path, query: r.URL.Query(), body: string(body)}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(successEmpty))
	}))
	t.Cleanup(server.Close)

	sessions := newTestSessions(t)
	require.NoError(t, sessions.Set(8, "dana"))
	c, _ := newTestClient(t, server.URL, sessions)

	require.NoError(t, c.UpdatePost(context.Background(), 12, PostDraft{Title: "t2", Content: "c2"}))
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/boards/12", got.path)
	assert.Equal(t, "8", got.query.Get("userId"))
	assert.JSONEq(t, `{"title":"t2","content":"c2"}`, got.body)

	require.NoError(t, c.DeletePost(context.Background(), 12))
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, "/boards/12", got.path)
	assert.Equal(t, "8", got.query.Get("userId"))
}

func TestErrorUnwrapsToUnderlyingCause(t *testing.T) {
	inner := errors.New("inner")
	apiErr := &Error{Kind: ErrTransport, Message: "m", Err: inner}
	assert.ErrorIs(t, apiErr, inner)
}
