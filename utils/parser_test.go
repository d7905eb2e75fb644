package utils

import "testing"

func TestParseBRL(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{"Grouped Thousands", "R$ 1.234,56", 1234.56, true},
		{"Plain Integer", "R$ 27,90", 27.90, true},
		{"No Space After Symbol", "R$5,40", 5.40, true},
		{"Large Grouped", "R$ 12.345.678,00", 12345678.00, true},
		{"Embedded In Text", "Oferta: arroz 5kg por R$ 27,90 na loja", 27.90, true},
		{"First Of Two Mentions", "R$ 9,10 ou R$ 8,99 no pix", 9.10, true},
		{"No Price", "sem preço", 0, false},
		{"One Cents Digit", "R$12,5x", 0, false},
		{"Missing Comma", "R$ 12", 0, false},
		{"Empty String", "", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, ok := ParseBRL(tc.input)
			if ok != tc.ok {
				t.Fatalf("ParseBRL(%q) ok = %v; want %v", tc.input, ok, tc.ok)
			}
			if result != tc.expected {
				t.Errorf("ParseBRL(%q) = %f; want %f", tc.input, result, tc.expected)
			}
		})
	}
}

func TestStripBRL(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Price Suffix", "Arroz 5kg R$ 27,90", "Arroz 5kg "},
		{"Multiple Mentions", "de R$ 9,10 por R$ 8,99", "de  por "},
		{"No Price", "feijão carioca", "feijão carioca"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripBRL(tc.input); got != tc.expected {
				t.Errorf("StripBRL(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}
