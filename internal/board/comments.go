package board

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// CommentDraft is the writable portion of a comment. The identity is never a
// body field; it travels as the userId query parameter only.
type CommentDraft struct {
	Content string `json:"content"`
}

// ListComments fetches the comment thread of a post.
func (c *Client) ListComments(ctx context.Context, postID int64) ([]Comment, error) {
	uid, err := c.sessions.RequireUserID()
	if err != nil {
		return nil, err
	}

	var payload []Comment
	if err := c.get(ctx, c.commentEndpoint(postID, 0), userQuery(uid), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateComment adds a comment to a post.
func (c *Client) CreateComment(ctx context.Context, postID int64, content string) error {
	uid, err := c.sessions.RequireUserID()
	if err != nil {
		return err
	}
	return c.sendJSON(ctx, http.MethodPost, c.commentEndpoint(postID, 0), userQuery(uid), CommentDraft{Content: content}, nil)
}

// UpdateComment replaces a comment's content. The server verifies authorship.
func (c *Client) UpdateComment(ctx context.Context, postID, commentID int64, content string) error {
	uid, err := c.sessions.RequireUserID()
	if err != nil {
		return err
	}
	return c.sendJSON(ctx, http.MethodPut, c.commentEndpoint(postID, commentID), userQuery(uid), CommentDraft{Content: content}, nil)
}

// DeleteComment removes a comment. The server verifies authorship.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID int64) error {
	uid, err := c.sessions.RequireUserID()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, c.commentEndpoint(postID, commentID), userQuery(uid), nil, "", nil)
}

func (c *Client) commentEndpoint(postID, commentID int64) *url.URL {
	parts := []string{"boards", strconv.FormatInt(postID, 10), "comments"}
	if commentID > 0 {
		parts = append(parts, strconv.FormatInt(commentID, 10))
	}
	return c.endpoint(parts...)
}
