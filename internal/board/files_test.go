package board

import (
	"testing"
	"time"
)

func TestIsImage(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"diagram.png", true},
		{"anim.gif", true},
		{"modern.webp", true},
		{"report.pdf", false},
		{"archive.tar.gz", false},
		{"noext", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsImage(tc.name); got != tc.want {
			t.Fatalf("IsImage(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFileURL_ResolutionRules(t *testing.T) {
	sessions := newTestSessions(t)
	c, err := NewClient("https://board.example.com/api", time.Second, sessions)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"absolute_http", "http://cdn.example.com/x.png", "http://cdn.example.com/x.png"},
		{"absolute_https", "https://cdn.example.com/x.png", "https://cdn.example.com/x.png"},
		{"legacy_uploads", "/uploads/cat.jpg", "https://board.example.com/api/boards/files/cat.jpg"},
		{"relative_with_slash", "/static/doc.pdf", "https://board.example.com/api/static/doc.pdf"},
		{"relative_bare", "static/doc.pdf", "https://board.example.com/api/static/doc.pdf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.FileURL(tc.in); got != tc.want {
				t.Fatalf("FileURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseTime_ServerLayouts(t *testing.T) {
	cases := []string{
		"2026-01-15T09:30:00",
		"2026-01-15T09:30:00.123456",
		"2026-01-15T09:30:00Z",
	}
	for _, value := range cases {
		if parseTime(value).IsZero() {
			t.Fatalf("parseTime(%q) = zero, want parsed", value)
		}
	}
	if !parseTime("").IsZero() {
		t.Fatalf("parseTime empty = non-zero, want zero")
	}
	if !parseTime("not-a-time").IsZero() {
		t.Fatalf("parseTime garbage = non-zero, want zero")
	}
}
