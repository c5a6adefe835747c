package board

import (
	"path"
	"strings"
)

// legacyUploadPrefix is the old static-serving path some stored fileUrl
// values still carry; it maps to the current download endpoint.
const legacyUploadPrefix = "/uploads/"

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// IsImage reports whether a filename looks like an inline-previewable image.
func IsImage(filename string) bool {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	_, ok := imageExtensions[ext]
	return ok
}

// FileURL resolves an attachment's stored fileUrl to a fetchable URL.
// Absolute URLs pass through; legacy /uploads/ paths are rewritten to the
// /boards/files download endpoint; anything else is joined to the base
// address. Every view goes through this one function.
func (c *Client) FileURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	if name, ok := strings.CutPrefix(trimmed, legacyUploadPrefix); ok {
		return c.endpoint("boards", "files", name).String()
	}
	return c.endpoint(strings.TrimPrefix(trimmed, "/")).String()
}
