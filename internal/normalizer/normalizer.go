package normalizer

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Normalizer canonicalizes item names and search terms through a synonym
// mapping (variant -> canonical, all lowercased). It is built once at
// startup and passed into the pipeline; nothing reaches for ambient state.
type Normalizer struct {
	mapping map[string]string
}

// New builds a Normalizer, lowercasing both sides of the mapping.
func New(mapping map[string]string) *Normalizer {
	m := make(map[string]string, len(mapping))
	for variant, canonical := range mapping {
		m[strings.ToLower(variant)] = strings.ToLower(canonical)
	}
	return &Normalizer{mapping: m}
}

// Normalize trims and lowercases the term, then applies the synonym
// mapping when an exact variant exists.
func (n *Normalizer) Normalize(term string) string {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return t
	}
	if canonical, ok := n.mapping[t]; ok {
		return canonical
	}
	return t
}

// Canonical returns the mapped canonical form for a term, if any.
func (n *Normalizer) Canonical(term string) (string, bool) {
	canonical, ok := n.mapping[strings.ToLower(strings.TrimSpace(term))]
	return canonical, ok
}

// Add registers a variant -> canonical pair.
func (n *Normalizer) Add(variant, canonical string) {
	n.mapping[strings.ToLower(strings.TrimSpace(variant))] = strings.ToLower(strings.TrimSpace(canonical))
}

// DefaultMapping is the built-in starter synonym set for common grocery
// staples, diacritic variants included.
func DefaultMapping() map[string]string {
	return map[string]string{
		"arroz":  "arroz 5kg tipo 1",
		"feijao": "feijão carioca 1kg",
		"feijão": "feijão carioca 1kg",
		"oleo":   "óleo de soja 900ml",
		"óleo":   "óleo de soja 900ml",
		"cafe":   "café 500g",
		"café":   "café 500g",
		"acucar": "açúcar 1kg",
		"açucar": "açúcar 1kg",
		"açúcar": "açúcar 1kg",
		"trigo":  "farinha de trigo 1kg",
		"leite":  "leite longa vida 1l",
	}
}

// LoadMapping reads a JSON synonym document (variant -> canonical) and
// overlays it on the built-in defaults. A missing or malformed file is
// non-fatal: the defaults are returned and the problem is logged.
func LoadMapping(path string) map[string]string {
	mapping := DefaultMapping()
	if path == "" {
		return mapping
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("synonym file unreadable, using defaults",
				zap.String("path", path), zap.Error(err))
		}
		return mapping
	}

	overrides := make(map[string]string)
	if err := json.Unmarshal(data, &overrides); err != nil {
		zap.L().Warn("synonym file malformed, using defaults",
			zap.String("path", path), zap.Error(err))
		return mapping
	}
	for variant, canonical := range overrides {
		mapping[variant] = canonical
	}
	return mapping
}

// SaveMapping writes the synonym mapping as an indented JSON document.
func SaveMapping(path string, mapping map[string]string) error {
	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return eris.Wrap(err, "normalizer: marshal mapping")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "normalizer: write mapping %s", path)
	}
	return nil
}
