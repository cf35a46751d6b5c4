// Package strings holds small text helpers shared by the console front ends.
package strings

import (
	"strings"
)

// DefaultTokenVisibleLen is how many leading characters of an authkey are
// shown by MaskToken.
const DefaultTokenVisibleLen = 8

// MinTruncateLen is the minimum maxLen value for Truncate.
// Values smaller than this would not leave room for content plus "...".
const MinTruncateLen = 4

// Truncate shortens s to maxLen runes and collapses it to a single line.
// Runs of whitespace become one space and "..." marks a cut.
// maxLen is clamped to MinTruncateLen.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}

// MaskToken keeps the first visible runes of a secret and replaces the rest
// with "...". Tokens not longer than visible are masked completely.
func MaskToken(token string, visible int) string {
	if token == "" {
		return ""
	}
	if visible < 0 {
		visible = 0
	}

	runes := []rune(token)
	if len(runes) <= visible {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:visible]) + "..."
}
