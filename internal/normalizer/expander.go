package normalizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"cotador/utils"
)

// deaccenter decomposes to NFD, drops combining marks and recomposes, so
// "feijão" becomes "feijao".
var deaccenter = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Deaccent returns the term with diacritics stripped. On a transform
// error the term is returned unchanged.
func Deaccent(term string) string {
	out, _, err := transform.String(deaccenter, term)
	if err != nil {
		return term
	}
	return out
}

// Expand produces the ordered, case-insensitively deduplicated query
// variants tried during search retrieval: the original term, its canonical
// synonym when one exists, then the diacritic-stripped form of each.
// Order is retry priority. Blank terms expand to nothing.
func (n *Normalizer) Expand(term string) []string {
	t := strings.TrimSpace(term)
	if t == "" {
		return nil
	}

	variants := []string{t}
	if canonical, ok := n.Canonical(t); ok && !strings.EqualFold(canonical, t) {
		variants = append(variants, canonical)
	}
	for _, v := range variants[:len(variants):len(variants)] {
		variants = append(variants, Deaccent(v))
	}

	return utils.UniqueFold(variants)
}

// ExpandAll maps each non-blank term to its variants.
func (n *Normalizer) ExpandAll(terms []string) map[string][]string {
	expanded := make(map[string][]string, len(terms))
	for _, term := range terms {
		if variants := n.Expand(term); len(variants) > 0 {
			expanded[term] = variants
		}
	}
	return expanded
}
