package board

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// MaxUploadFiles is the most attachments a single post may carry. Enforced
// locally so an oversized selection never produces a network call.
const MaxUploadFiles = 10

// ErrTooManyFiles rejects a post submission with too many attachments.
var ErrTooManyFiles = fmt.Errorf("a post may have at most %d attachments", MaxUploadFiles)

// PostDraft is the writable portion of a post.
type PostDraft struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ListPosts fetches one page of posts, optionally filtered by keyword.
// Pages are 1-based here; the service counts from 0.
func (c *Client) ListPosts(ctx context.Context, page, size int, keyword string) (Page[Post], error) {
	if page < 1 {
		page = 1
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page-1))
	values.Set("size", strconv.Itoa(size))
	if kw := strings.TrimSpace(keyword); kw != "" {
		values.Set("keyword", kw)
	}

	var payload Page[Post]
	if err := c.get(ctx, c.endpoint("boards"), values, &payload); err != nil {
		return Page[Post]{}, err
	}
	return payload, nil
}

// GetPost fetches a post with its comment thread. When an identity is stored
// it is sent as a query parameter so the server can compute the isAuthor
// flags; anonymous viewers omit it and all flags come back false.
func (c *Client) GetPost(ctx context.Context, id int64) (*Post, error) {
	values := url.Values{}
	if uid, ok := c.sessions.UserID(); ok {
		values.Set("userId", strconv.FormatInt(uid, 10))
	}

	var payload Post
	if err := c.get(ctx, c.endpoint("boards", strconv.FormatInt(id, 10)), values, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreatePost submits a new post as a multipart body: one JSON "post" part and
// zero or more binary "files" parts. Identity travels as a query parameter,
// never in the body.
func (c *Client) CreatePost(ctx context.Context, draft PostDraft, files []Upload) (*Post, error) {
	uid, err := c.sessions.RequireUserID()
	if err != nil {
		return nil, err
	}
	if len(files) > MaxUploadFiles {
		return nil, ErrTooManyFiles
	}

	body, contentType, err := encodePostForm(draft, files)
	if err != nil {
		return nil, fmt.Errorf("encode post form: %w", err)
	}

	var payload Post
	if err := c.do(ctx, http.MethodPost, c.endpoint("boards"), userQuery(uid), body, contentType, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdatePost replaces a post's title and content. Attachments cannot be
// changed through this endpoint; re-submitting the post is the only way to
// replace them.
func (c *Client) UpdatePost(ctx context.Context, id int64, draft PostDraft) error {
	uid, err := c.sessions.RequireUserID()
	if err != nil {
		return err
	}
	return c.sendJSON(ctx, http.MethodPut, c.endpoint("boards", strconv.FormatInt(id, 10)), userQuery(uid), draft, nil)
}

// DeletePost removes a post. The server verifies authorship.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	uid, err := c.sessions.RequireUserID()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, c.endpoint("boards", strconv.FormatInt(id, 10)), userQuery(uid), nil, "", nil)
}
