package models

import "time"

// NotFound is the sentinel recorded when no stored item matches a
// requested term in a market.
const NotFound = "not found"

// QuoteItem is one requested term matched (or not) against a market.
type QuoteItem struct {
	Requested string  `json:"requested"`
	Matched   string  `json:"matched"`
	Price     float64 `json:"price"`
}

// Quote is a full per-market quotation for one shopping list.
// Totals carries an entry for every market known at quote time, even when
// nothing matched and the total is zero.
type Quote struct {
	RequestedAt    time.Time              `json:"requested_at"`
	Source         string                 `json:"source"`
	Currency       string                 `json:"currency"`
	Markets        map[string][]QuoteItem `json:"markets"`
	Totals         map[string]float64     `json:"totals"`
	RequestedItems []string               `json:"requested_items,omitempty"`
}

// BestMarket returns the market with the lowest non-zero total, or
// ok=false when every total is zero.
func (q Quote) BestMarket() (market string, total float64, ok bool) {
	for m, t := range q.Totals {
		if t <= 0 {
			continue
		}
		if !ok || t < total || (t == total && m < market) {
			market, total, ok = m, t, true
		}
	}
	return market, total, ok
}
