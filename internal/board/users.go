package board

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Credentials carries a login request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the identity the service returns on a successful login.
// Storing it in the session is the caller's responsibility.
type LoginResult struct {
	UserID   int64  `json:"userId"`
	Nickname string `json:"nickname"`
}

// Registration carries a new account request.
type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// UserUpdate is the editable portion of a profile.
type UserUpdate struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// Login authenticates and returns the identity fields. It does not touch the
// session store.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var payload LoginResult
	creds := Credentials{Username: username, Password: password}
	if err := c.sendJSON(ctx, http.MethodPost, c.endpoint("users", "login"), nil, creds, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.sendJSON(ctx, http.MethodPost, c.endpoint("users", "register"), nil, reg, nil)
}

// GetUser fetches a user's profile.
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var payload User
	if err := c.get(ctx, c.endpoint("users", strconv.FormatInt(id, 10)), nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateUser edits a user's profile fields.
func (c *Client) UpdateUser(ctx context.Context, id int64, update UserUpdate) error {
	return c.sendJSON(ctx, http.MethodPut, c.endpoint("users", strconv.FormatInt(id, 10)), nil, update, nil)
}

// DeleteUser removes an account. Callers must clear the session afterwards
// when the deleted account is the logged-in one.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.endpoint("users", strconv.FormatInt(id, 10)), nil, nil, "", nil)
}

// ListUserPosts fetches one page of the given user's posts. Pages are 1-based
// here; the service counts from 0.
func (c *Client) ListUserPosts(ctx context.Context, id int64, page, size int) (Page[Post], error) {
	if page < 1 {
		page = 1
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page-1))
	values.Set("size", strconv.Itoa(size))

	var payload Page[Post]
	if err := c.get(ctx, c.endpoint("users", strconv.FormatInt(id, 10), "posts"), values, &payload); err != nil {
		return Page[Post]{}, err
	}
	return payload, nil
}
