package rules

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// SiteRule describes how to pull prices out of one retailer's site:
// paths worth probing, search URL templates (with a {q} placeholder) and
// CSS selectors for product cards, names and prices in priority order.
type SiteRule struct {
	Domain          string   `json:"domain"`
	Paths           []string `json:"paths"`
	SearchTemplates []string `json:"search_templates"`
	CardSelectors   []string `json:"card_selectors"`
	NameSelectors   []string `json:"name_selectors"`
	PriceSelectors  []string `json:"price_selectors"`
}

func defaultCardSelectors() []string {
	return []string{
		".product",
		".product-card",
		".produto",
		".item",
		".offer",
		".oferta",
		".card",
		".promo",
	}
}

func defaultNameSelectors() []string {
	return []string{
		".name",
		".title",
		".product-name",
		".descricao",
		".desc",
		"h3",
		"h2",
		".titulo",
	}
}

func defaultPriceSelectors() []string {
	return []string{
		".price",
		".preco",
		".valor",
		".price-current",
		".value",
		".preco-atual",
	}
}

// New returns a rule for the domain with all built-in selector defaults
// and the root path. Selector lists are never left empty.
func New(domain string) SiteRule {
	return SiteRule{
		Domain:         domain,
		Paths:          []string{"/"},
		CardSelectors:  defaultCardSelectors(),
		NameSelectors:  defaultNameSelectors(),
		PriceSelectors: defaultPriceSelectors(),
	}
}

// DefaultRules is the built-in rule set for the known markets.
func DefaultRules() []SiteRule {
	kawakami := New("kawakami.com.br")
	kawakami.Paths = []string{"/", "/ofertas", "/promocoes", "/promocao"}

	tauste := New("tauste.com.br")
	tauste.Paths = []string{"/marilia/", "/ofertas", "/promocoes"}

	amigao := New("amigao.com")
	amigao.Paths = []string{"/", "/ofertas", "/promocoes"}

	confianca := New("confianca.com.br")
	confianca.Paths = []string{"/marilia", "/ofertas", "/promocoes"}

	return []SiteRule{kawakami, tauste, amigao, confianca}
}

// ruleOverride is the per-domain shape of the override document.
type ruleOverride struct {
	Paths           []string `json:"paths"`
	SearchTemplates []string `json:"search_templates"`
	CardSelectors   []string `json:"card_selectors"`
	NameSelectors   []string `json:"name_selectors"`
	PriceSelectors  []string `json:"price_selectors"`
}

func fromOverride(domain string, o ruleOverride) SiteRule {
	rule := New(domain)
	if len(o.Paths) > 0 {
		rule.Paths = o.Paths
	}
	if len(o.CardSelectors) > 0 {
		rule.CardSelectors = o.CardSelectors
	}
	if len(o.NameSelectors) > 0 {
		rule.NameSelectors = o.NameSelectors
	}
	if len(o.PriceSelectors) > 0 {
		rule.PriceSelectors = o.PriceSelectors
	}
	rule.SearchTemplates = o.SearchTemplates
	return rule
}

// Load reads a JSON override document (domain -> rule fields) and merges
// it over the built-in defaults. An override replaces a default rule
// wholesale; it is not patched field by field. A missing or malformed
// file is non-fatal: the defaults are returned and the problem is logged.
//
// Merged order is deterministic: defaults keep their declared order
// (overridden in place), then override-only domains follow sorted by
// domain. Selection is first-match, so order is part of the contract.
func Load(path string) []SiteRule {
	defaults := DefaultRules()
	if path == "" {
		return defaults
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("site rules file unreadable, using defaults",
				zap.String("path", path), zap.Error(err))
		}
		return defaults
	}

	overrides := make(map[string]ruleOverride)
	if err := json.Unmarshal(data, &overrides); err != nil {
		zap.L().Warn("site rules file malformed, using defaults",
			zap.String("path", path), zap.Error(err))
		return defaults
	}

	merged := make([]SiteRule, 0, len(defaults)+len(overrides))
	seen := make(map[string]bool, len(defaults))
	for _, d := range defaults {
		if o, ok := overrides[d.Domain]; ok {
			merged = append(merged, fromOverride(d.Domain, o))
		} else {
			merged = append(merged, d)
		}
		seen[d.Domain] = true
	}

	extra := make([]string, 0, len(overrides))
	for domain := range overrides {
		if !seen[domain] {
			extra = append(extra, domain)
		}
	}
	sort.Strings(extra)
	for _, domain := range extra {
		merged = append(merged, fromOverride(domain, overrides[domain]))
	}

	return merged
}

// Choose returns the first rule whose domain appears as a substring of the
// URL, in registry order, or nil when none match. First-match, not
// best-match: callers order the registry to avoid one domain shadowing
// another.
func Choose(url string, rules []SiteRule) *SiteRule {
	for i := range rules {
		if strings.Contains(url, rules[i].Domain) {
			return &rules[i]
		}
	}
	return nil
}
