package board

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mujigae/boardwalk/internal/session"
)

// Notifier receives the resolved message of every request failure. The
// transport layer calls it exactly once per failure; the UI installs an
// implementation that shows the message to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(message string) { f(message) }

// Client talks to the board service. All operations return the unwrapped
// envelope payload or a normalized *Error.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	sessions  *session.Store
	notifier  Notifier
}

const (
	defaultUserAgent = "boardwalk/0.1"
	defaultTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given base URL. The session store is read
// fresh on every authorized call, so a login or logout performed anywhere in
// the process is visible immediately.
func NewClient(baseURL string, timeout time.Duration, sessions *session.Store) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
		sessions:  sessions,
	}, nil
}

// SetNotifier installs the failure-message sink. A nil notifier disables
// notification (failures are still logged and returned).
func (c *Client) SetNotifier(n Notifier) {
	c.notifier = n
}

// endpoint joins path segments onto the base URL, preserving any path prefix
// the base carries (e.g. "/api").
func (c *Client) endpoint(parts ...string) *url.URL {
	return c.baseURL.JoinPath(parts...)
}

func (c *Client) get(ctx context.Context, endpoint *url.URL, query url.Values, dest any) error {
	return c.do(ctx, http.MethodGet, endpoint, query, nil, "", dest)
}

func (c *Client) sendJSON(ctx context.Context, method string, endpoint *url.URL, query url.Values, payload, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return c.fail(&Error{
			Kind:    ErrTransport,
			Message: fallbackTransportMessage,
			Err:     fmt.Errorf("encode request: %w", err),
		})
	}
	return c.do(ctx, method, endpoint, query, strings.NewReader(string(body)), "application/json", dest)
}

// do executes one request and normalizes the response envelope. It is the
// only place allowed to notify the user of a transport or envelope failure.
func (c *Client) do(ctx context.Context, method string, endpoint *url.URL, query url.Values, body io.Reader, contentType string, dest any) error {
	reqURL := *endpoint
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return c.fail(&Error{
			Kind:    ErrTransport,
			Message: fallbackTransportMessage,
			Err:     fmt.Errorf("create request: %w", err),
		})
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.fail(&Error{
			Kind:    ErrTransport,
			Message: fallbackTransportMessage,
			Err:     fmt.Errorf("execute request: %w", err),
		})
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(&Error{
			Kind:    ErrTransport,
			Message: fallbackTransportMessage,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("read response: %w", err),
		})
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 400 {
		kind := ErrTransport
		if resp.StatusCode == http.StatusNotFound {
			kind = ErrNotFound
		}
		message := fallbackTransportMessage
		if decodeErr == nil {
			message = env.failureMessage(fallbackTransportMessage)
		}
		return c.fail(&Error{
			Kind:    kind,
			Message: message,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("%s %s returned status %d", method, endpoint.Path, resp.StatusCode),
		})
	}

	if decodeErr != nil {
		return c.fail(&Error{
			Kind:    ErrTransport,
			Message: fallbackTransportMessage,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("decode response: %w", decodeErr),
		})
	}

	if !env.Success {
		return c.fail(&Error{
			Kind:    ErrEnvelope,
			Message: env.failureMessage(fallbackEnvelopeMessage),
			Status:  resp.StatusCode,
		})
	}

	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return c.fail(&Error{
			Kind:    ErrTransport,
			Message: fallbackTransportMessage,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("decode payload: %w", err),
		})
	}
	return nil
}

// fail logs the failure, notifies the user once, and returns the error.
func (c *Client) fail(apiErr *Error) error {
	log.Printf("board: request failed: %v", apiErr)
	if c.notifier != nil {
		c.notifier.Notify(apiErr.Message)
	}
	return apiErr
}

func userQuery(userID int64) url.Values {
	values := url.Values{}
	values.Set("userId", strconv.FormatInt(userID, 10))
	return values
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, fmt.Errorf("base URL is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
