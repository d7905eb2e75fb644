package models

// Source describes one market to collect prices from.
type Source struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	// Kind selects the scraper adapter: "mock", "http" (alias "agent") or
	// "headless". Unknown kinds fall back to the mock adapter.
	Kind     string            `json:"kind,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
