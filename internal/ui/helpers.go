package ui

import (
	"fmt"
	"strings"
	"time"
)

// pageWindow returns the sliding window of page numbers to render, centered
// on current and clamped to [1, total]. span is the window width.
func pageWindow(current, total, span int) []int {
	if total < 1 || span < 1 {
		return nil
	}
	start := current - span/2
	if start < 1 {
		start = 1
	}
	end := start + span - 1
	if end > total {
		end = total
	}
	if end-start < span-1 {
		start = end - span + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// formatWhen renders a server timestamp for display, falling back to the raw
// string when it cannot be parsed.
func formatWhen(raw string, parsed time.Time) string {
	if parsed.IsZero() {
		return raw
	}
	return parsed.Format("2006-01-02 15:04")
}

// formatKB renders a file size the way the board web UI does.
func formatKB(size int64) string {
	return fmt.Sprintf("%.1f KB", float64(size)/1024)
}

// truncate shortens a string to the given rune limit, adding an ellipsis.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// firstLine returns the first line of a multi-line string.
func firstLine(value string) string {
	if idx := strings.IndexByte(value, '\n'); idx >= 0 {
		return value[:idx]
	}
	return value
}
