package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// brlRegex finds Brazilian currency mentions: "R$" followed by a
// thousands-grouped (or plain) integer, a comma and exactly two cents
// digits, e.g. "R$ 1.234,56".
var brlRegex = regexp.MustCompile(`R\$\s*([0-9]{1,3}(?:\.[0-9]{3})*|[0-9]+),([0-9]{2})`)

// ParseBRL extracts the first Brazilian-format price from a text fragment.
// Only the first mention is used; a fragment with several prices resolves
// to the earliest one. Returns ok=false when no valid price is present.
func ParseBRL(text string) (float64, bool) {
	m := brlRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	whole := strings.ReplaceAll(m[1], ".", "")
	value, err := strconv.ParseFloat(whole+"."+m[2], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// StripBRL removes every currency mention from the text. Used by the
// fallback extractor to derive an item name from the element text that
// surrounded a price.
func StripBRL(text string) string {
	return brlRegex.ReplaceAllString(text, "")
}

// ContainsBRL reports whether the text mentions the currency marker at all,
// parseable or not.
func ContainsBRL(text string) bool {
	return strings.Contains(text, "R$")
}
