package utils

import (
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest title, in code points, a task may carry.
const MaxTitleLength = 120

// NormalizeTitle trims surrounding whitespace and clamps the result to
// MaxTitleLength code points. An empty result means the title is blank.
func NormalizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if utf8.RuneCountInString(title) <= MaxTitleLength {
		return title
	}
	runes := []rune(title)
	return strings.TrimSpace(string(runes[:MaxTitleLength]))
}
