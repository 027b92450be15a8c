package util

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`[ \t\f\v]+`)

// CondenseSpaces collapses runs of horizontal whitespace to single spaces.
func CondenseSpaces(s string) string {
	return whitespace.ReplaceAllString(s, " ")
}

// SquashBlankLines trims every line, drops leading and trailing blank lines and
// keeps at most one blank line between paragraphs.
func SquashBlankLines(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = CondenseSpaces(strings.TrimSpace(line))
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// TrimTo limits a string to max bytes, attempting to cut on line boundaries.
func TrimTo(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	head := s[:max]
	if idx := strings.LastIndex(head, "\n"); idx > 0 {
		head = head[:idx]
	}
	return head + "\n…[diff truncated]"
}
