package layout

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// VisibleLength returns the visible length of a string (excluding ANSI codes).
func VisibleLength(s string) int {
	return utf8.RuneCountInString(StripANSI(s))
}

// TruncateText truncates text to maxWidth with ellipsis.
// Handles edge cases where text is shorter than maxWidth or maxWidth is very small.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	ellipsisLen := utf8.RuneCountInString(cfg.Ellipsis)
	textLen := utf8.RuneCountInString(text)

	if textLen <= maxWidth {
		return text, false
	}

	// Need space for ellipsis
	if maxWidth <= ellipsisLen {
		// Not enough room for any text + ellipsis, just return truncated ellipsis
		runes := []rune(cfg.Ellipsis)
		return string(runes[:maxWidth]), true
	}

	runes := []rune(text)
	truncLen := maxWidth - ellipsisLen
	return string(runes[:truncLen]) + cfg.Ellipsis, true
}

// TruncatePathFromLeft truncates a breadcrumb path from the left, keeping
// the most specific (rightmost) segments visible.
// Example: "root / dev / go / docs" -> "... / go / docs"
func TruncatePathFromLeft(path string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if utf8.RuneCountInString(path) <= maxWidth {
		return path
	}

	ellipsisLen := utf8.RuneCountInString(cfg.Ellipsis)
	if maxWidth <= ellipsisLen {
		runes := []rune(cfg.Ellipsis)
		return string(runes[:maxWidth])
	}

	// Drop whole leading segments while the path overflows.
	segments := strings.Split(path, " / ")
	for len(segments) > 1 {
		segments = segments[1:]
		candidate := cfg.Ellipsis + " / " + strings.Join(segments, " / ")
		if utf8.RuneCountInString(candidate) <= maxWidth {
			return candidate
		}
	}

	// A single segment is still too long; hard-truncate from the left.
	runes := []rune(segments[0])
	keep := maxWidth - ellipsisLen
	if keep > len(runes) {
		keep = len(runes)
	}
	return cfg.Ellipsis + string(runes[len(runes)-keep:])
}
