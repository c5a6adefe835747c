package board

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mujigae/boardwalk/internal/session"
)

// recordingNotifier counts every message pushed by the normalizer.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

func newTestSessions(t *testing.T) *session.Store {
	t.Helper()
	s, err := session.Open(filepath.Join(t.TempDir(), "session.toml"))
	if err != nil {
		t.Fatalf("session.Open returned error: %v", err)
	}
	return s
}

func newTestClient(t *testing.T, baseURL string, sessions *session.Store) (*Client, *recordingNotifier) {
	t.Helper()
	c, err := NewClient(baseURL, 2*time.Second, sessions)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	notifier := &recordingNotifier{}
	c.SetNotifier(notifier)
	return c, notifier
}

func TestParseBaseURL_KeepsPathPrefix(t *testing.T) {
	u, err := parseBaseURL("https://board.example.com/api/")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "/api" {
		t.Fatalf("path = %q, want /api", u.Path)
	}

	u, err = parseBaseURL("board.example.com?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestParseBaseURL_EmptyErrors(t *testing.T) {
	if _, err := parseBaseURL("   "); err == nil {
		t.Fatalf("parseBaseURL returned nil error, want error")
	}
}

func TestClient_SuccessEnvelopeUnwrapsData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":9,"title":"hello","isAuthor":true}}`))
	}))
	t.Cleanup(server.Close)

	c, notifier := newTestClient(t, server.URL, newTestSessions(t))

	post, err := c.GetPost(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetPost returned error: %v", err)
	}
	if post.ID != 9 || post.Title != "hello" || !post.IsAuthor {
		t.Fatalf("GetPost payload = %#v, want unwrapped data", post)
	}
	if len(notifier.all()) != 0 {
		t.Fatalf("notifier fired on success: %v", notifier.all())
	}
}

func TestClient_FailureMessagePrecedence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"nested_data_message", `{"success":false,"data":{"message":"title is required"}}`, "title is required"},
		{"top_level_message", `{"success":false,"message":"bad request","data":null}`, "bad request"},
		{"nested_wins_over_top", `{"success":false,"message":"outer","data":{"message":"inner"}}`, "inner"},
		{"no_message_falls_back", `{"success":false,"data":{}}`, fallbackEnvelopeMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(server.Close)

			c, notifier := newTestClient(t, server.URL, newTestSessions(t))

			_, err := c.GetPost(context.Background(), 1)
			if err == nil {
				t.Fatalf("GetPost returned nil error, want envelope failure")
			}
			apiErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("error type = %T, want *Error", err)
			}
			if apiErr.Kind != ErrEnvelope {
				t.Fatalf("kind = %v, want ErrEnvelope", apiErr.Kind)
			}
			if apiErr.Message != tc.want {
				t.Fatalf("message = %q, want %q", apiErr.Message, tc.want)
			}
			if got := notifier.all(); len(got) != 1 || got[0] != tc.want {
				t.Fatalf("notifications = %v, want exactly one %q", got, tc.want)
			}
		})
	}
}

func TestClient_HTTPErrorUsesEnvelopeMessageWhenPresent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"data":{"message":"keyword too long"}}`))
	}))
	t.Cleanup(server.Close)

	c, notifier := newTestClient(t, server.URL, newTestSessions(t))

	_, err := c.ListPosts(context.Background(), 1, 20, "x")
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error = %v (%T), want *Error", err, err)
	}
	if apiErr.Kind != ErrTransport || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("kind/status = %v/%d, want transport/400", apiErr.Kind, apiErr.Status)
	}
	if apiErr.Message != "keyword too long" {
		t.Fatalf("message = %q, want server message", apiErr.Message)
	}
	if len(notifier.all()) != 1 {
		t.Fatalf("notifications = %v, want exactly one", notifier.all())
	}
}

func TestClient_HTTPErrorWithoutEnvelopeFallsBack(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	c, notifier := newTestClient(t, server.URL, newTestSessions(t))

	_, err := c.ListPosts(context.Background(), 1, 20, "")
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error = %v (%T), want *Error", err, err)
	}
	if apiErr.Message != fallbackTransportMessage {
		t.Fatalf("message = %q, want transport fallback", apiErr.Message)
	}
	if got := notifier.all(); len(got) != 1 || got[0] != fallbackTransportMessage {
		t.Fatalf("notifications = %v, want one transport fallback", got)
	}
}

func TestClient_NotFoundIsDistinct(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"data":{"message":"post not found"}}`))
	}))
	t.Cleanup(server.Close)

	c, _ := newTestClient(t, server.URL, newTestSessions(t))

	_, err := c.GetPost(context.Background(), 999)
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound = false for %v, want true", err)
	}
}

func TestClient_NetworkFailureNotifiesTransportFallback(t *testing.T) {
	c, notifier := newTestClient(t, "http://127.0.0.1:1", newTestSessions(t))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	_, err := c.ListPosts(ctx, 1, 20, "")
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error = %v (%T), want *Error", err, err)
	}
	if apiErr.Kind != ErrTransport {
		t.Fatalf("kind = %v, want ErrTransport", apiErr.Kind)
	}
	if got := notifier.all(); len(got) != 1 || got[0] != fallbackTransportMessage {
		t.Fatalf("notifications = %v, want one transport fallback", got)
	}
	if !strings.Contains(apiErr.Error(), "execute request") {
		t.Fatalf("error text = %q, want underlying cause included", apiErr.Error())
	}
}

func TestClient_BasePathPrefixPreservedInRequests(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"content":[],"totalPages":0,"empty":true}}`))
	}))
	t.Cleanup(server.Close)

	c, _ := newTestClient(t, server.URL+"/api", newTestSessions(t))

	if _, err := c.ListPosts(context.Background(), 1, 20, ""); err != nil {
		t.Fatalf("ListPosts returned error: %v", err)
	}
	if gotPath != "/api/boards" {
		t.Fatalf("request path = %q, want /api/boards", gotPath)
	}
}
