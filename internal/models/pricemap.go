package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
)

// PriceMap maps lowercased item names to prices while remembering insertion
// order. Extraction, search retrieval and quote matching all depend on the
// order items were first seen: search mode takes the first extracted item,
// and quote matching scans stored names front to back.
type PriceMap struct {
	names  []string
	prices map[string]float64
}

// NewPriceMap returns an empty PriceMap.
func NewPriceMap() *PriceMap {
	return &PriceMap{prices: make(map[string]float64)}
}

// Set stores a price under the lowercased name. A repeated name overwrites
// the price but keeps its original position.
func (m *PriceMap) Set(name string, price float64) {
	key := strings.ToLower(name)
	if _, seen := m.prices[key]; !seen {
		m.names = append(m.names, key)
	}
	m.prices[key] = price
}

// Get returns the price stored under the lowercased name.
func (m *PriceMap) Get(name string) (float64, bool) {
	p, ok := m.prices[strings.ToLower(name)]
	return p, ok
}

// Len reports the number of stored items.
func (m *PriceMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Names returns the stored item names in insertion order.
func (m *PriceMap) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// First returns the earliest inserted item, or ok=false when empty.
func (m *PriceMap) First() (name string, price float64, ok bool) {
	if m.Len() == 0 {
		return "", 0, false
	}
	name = m.names[0]
	return name, m.prices[name], true
}

// Clone returns a deep copy.
func (m *PriceMap) Clone() *PriceMap {
	out := NewPriceMap()
	for _, name := range m.names {
		out.Set(name, m.prices[name])
	}
	return out
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *PriceMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.prices[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving the document's key order.
func (m *PriceMap) UnmarshalJSON(data []byte) error {
	m.names = nil
	m.prices = make(map[string]float64)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "models: decode price map")
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return eris.Errorf("models: price map must be a JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "models: decode price map key")
		}
		key := keyTok.(string)
		var price float64
		if err := dec.Decode(&price); err != nil {
			return eris.Wrapf(err, "models: decode price for %q", key)
		}
		m.Set(key, price)
	}
	if _, err := dec.Token(); err != nil {
		return eris.Wrap(err, "models: decode price map end")
	}
	return nil
}
