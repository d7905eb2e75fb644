package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"cotador/internal/models"
	"cotador/internal/rules"
	"cotador/utils"
)

// fallbackLimit caps tier-two results so a pathological page with
// thousands of currency mentions stays bounded.
const fallbackLimit = 100

// cardNameMaxRunes bounds the card-text fallback name.
const cardNameMaxRunes = 120

// Extract pulls an item -> price mapping out of fetched markup. Two tiers
// run in order and the first non-empty result wins: a structured scan of
// the rule's card selectors, then a text-node sweep for anything that
// looks like a currency mention. An unparseable document or a page with
// no prices yields an empty map, never an error.
func Extract(markup string, rule *rules.SiteRule) *models.PriceMap {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		zap.L().Warn("markup parse failed", zap.Error(err))
		return models.NewPriceMap()
	}

	items := models.NewPriceMap()
	if rule != nil {
		items = extractFromCards(doc, rule)
	}
	if items.Len() == 0 {
		items = extractFallback(doc, fallbackLimit)
	}
	return items
}

// extractFromCards walks the card selectors in priority order. The first
// selector that matches any elements settles the scan: its cards are
// processed and no further selectors are tried, even if every card was
// discarded for lacking a name or price.
func extractFromCards(doc *goquery.Document, rule *rules.SiteRule) *models.PriceMap {
	items := models.NewPriceMap()
	for _, cardSel := range rule.CardSelectors {
		doc.Find(cardSel).Each(func(_ int, card *goquery.Selection) {
			name := cardName(card, rule)
			price, ok := cardPrice(card, rule)
			if name != "" && ok {
				items.Set(name, price)
			}
		})
		if items.Len() > 0 {
			break
		}
	}
	return items
}

// cardName takes the first name selector yielding non-empty text, falling
// back to the card's own text truncated to 120 runes.
func cardName(card *goquery.Selection, rule *rules.SiteRule) string {
	for _, ns := range rule.NameSelectors {
		el := card.Find(ns).First()
		if el.Length() == 0 {
			continue
		}
		if text := utils.SquashSpace(el.Text()); text != "" {
			return text
		}
	}
	return utils.TruncateRunes(utils.SquashSpace(card.Text()), cardNameMaxRunes)
}

// cardPrice takes the first price selector whose text parses as currency,
// falling back to parsing the whole card's text.
func cardPrice(card *goquery.Selection, rule *rules.SiteRule) (float64, bool) {
	for _, ps := range rule.PriceSelectors {
		el := card.Find(ps).First()
		if el.Length() == 0 {
			continue
		}
		if price, ok := utils.ParseBRL(utils.SquashSpace(el.Text())); ok {
			return price, true
		}
	}
	return utils.ParseBRL(utils.SquashSpace(card.Text()))
}

// extractFallback sweeps every text node mentioning the currency marker,
// parsing a price from the node and deriving a name from the enclosing
// element's text with the currency mentions removed. Names shorter than
// three runes are discarded.
func extractFallback(doc *goquery.Document, limit int) *models.PriceMap {
	items := models.NewPriceMap()
	for _, root := range doc.Selection.Nodes {
		if !walkTextNodes(root, items, limit) {
			break
		}
	}
	return items
}

// walkTextNodes visits text nodes in document order; returns false once
// the limit is reached.
func walkTextNodes(n *html.Node, items *models.PriceMap, limit int) bool {
	if n.Type == html.TextNode && utils.ContainsBRL(n.Data) {
		if price, ok := utils.ParseBRL(strings.TrimSpace(n.Data)); ok && n.Parent != nil {
			parentText := utils.SquashSpace(nodeText(n.Parent))
			name := utils.SquashSpace(utils.StripBRL(parentText))
			if len([]rune(name)) >= 3 {
				items.Set(name, price)
				if items.Len() >= limit {
					return false
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkTextNodes(c, items, limit) {
			return false
		}
	}
	return true
}

// nodeText concatenates all text under a node, space-separated.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}
