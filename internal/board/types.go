package board

import "time"

// Spring serializes LocalDateTime without a zone.
const serverTimestampLayout = "2006-01-02T15:04:05"

// Post mirrors a board post as returned by the service. Comments is populated
// on detail responses only; IsAuthor is computed server-side from the userId
// query parameter and is false for anonymous requests.
type Post struct {
	ID             int64        `json:"id"`
	Title          string       `json:"title"`
	Content        string       `json:"content"`
	AuthorNickname string       `json:"authorNickname"`
	CreatedAt      string       `json:"createdAt"`
	Files          []Attachment `json:"files"`
	IsAuthor       bool         `json:"isAuthor"`
	Comments       []Comment    `json:"comments"`
}

// ParsedCreatedAt returns the creation timestamp as time.Time when possible.
func (p Post) ParsedCreatedAt() time.Time {
	return parseTime(p.CreatedAt)
}

// Comment belongs to exactly one post; ordering is server-determined.
type Comment struct {
	ID             int64  `json:"id"`
	Content        string `json:"content"`
	AuthorNickname string `json:"authorNickname"`
	CreatedAt      string `json:"createdAt"`
	IsAuthor       bool   `json:"isAuthor"`
}

// ParsedCreatedAt returns the creation timestamp as time.Time when possible.
func (c Comment) ParsedCreatedAt() time.Time {
	return parseTime(c.CreatedAt)
}

// Attachment is a file belonging to a post. Attachments are immutable once
// created; replacing them means re-submitting the post.
type Attachment struct {
	ID           int64  `json:"id"`
	OriginalName string `json:"originalName"`
	FileURL      string `json:"fileUrl"`
	FileSize     int64  `json:"fileSize"`
}

// Page is the pagination envelope returned by list endpoints. Content
// ordering is server-defined and preserved.
type Page[T any] struct {
	Content    []T  `json:"content"`
	TotalPages int  `json:"totalPages"`
	Empty      bool `json:"empty"`
}

// User mirrors the profile payload from /users/{id}.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		serverTimestampLayout + ".999999999",
		serverTimestampLayout,
	} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
