package board

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments_EndpointShapes(t *testing.T) {
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
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"success":true,"data":[{"id":3,"content":"hey","isAuthor":true}]}`))
			return
		}
		_, _ = w.Write([]byte(successEmpty))
	}))
	t.Cleanup(server.Close)

	sessions := newTestSessions(t)
	require.NoError(t, sessions.Set(21, "dana"))
	c, _ := newTestClient(t, server.URL, sessions)
	ctx := context.Background()

	comments, err := c.ListComments(ctx, 40)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, int64(3), comments[0].ID)
	assert.Equal(t, "/boards/40/comments", got.path)
	assert.Equal(t, "21", got.query.Get("userId"))

	require.NoError(t, c.CreateComment(ctx, 40, "first!"))
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/boards/40/comments", got.path)
	assert.Equal(t, "21", got.query.Get("userId"))
	// The body carries only the content; identity never rides in the body.
	assert.JSONEq(t, `{"content":"first!"}`, got.body)

	require.NoError(t, c.UpdateComment(ctx, 40, 7, "edited"))
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/boards/40/comments/7", got.path)
	assert.Equal(t, "21", got.query.Get("userId"))
	assert.JSONEq(t, `{"content":"edited"}`, got.body)

	require.NoError(t, c.DeleteComment(ctx, 40, 7))
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, "/boards/40/comments/7", got.path)
	assert.Equal(t, "21", got.query.Get("userId"))
}
