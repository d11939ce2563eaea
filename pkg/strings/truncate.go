package strings

import (
	"strings"
)

// DefaultDescriptionMaxLen is the default maximum length for project
// descriptions in formatted output.
const DefaultDescriptionMaxLen = 60

// MinTruncateLen is the minimum maxLen value for TruncateDescription. Values
// smaller than this leave no room for content plus "...".
const MinTruncateLen = 4

// TruncateDescription truncates a string to maxLen characters and ensures
// single-line output. Newlines and runs of whitespace collapse to single
// spaces, and "..." marks truncation. Operates on runes, so multi-byte
// characters are never split.
func TruncateDescription(s string, maxLen int) string {
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
