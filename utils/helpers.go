package utils

import (
	"strings"
	"unicode/utf8"
)

// UniqueFold deduplicates a slice of strings case-insensitively while
// preserving the order of first appearance.
func UniqueFold(slice []string) []string {
	seen := make(map[string]bool, len(slice))
	unique := make([]string, 0, len(slice))
	for _, entry := range slice {
		key := strings.ToLower(entry)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, entry)
	}
	return unique
}

// SquashSpace collapses all runs of whitespace to single spaces and trims
// the ends, matching how extracted element text is flattened.
func SquashSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateRunes cuts s to at most n runes. Item names are accented
// Portuguese, so byte slicing would split characters.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
