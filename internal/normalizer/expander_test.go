package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeaccent(t *testing.T) {
	assert.Equal(t, "feijao", Deaccent("feijão"))
	assert.Equal(t, "acucar", Deaccent("açúcar"))
	assert.Equal(t, "arroz", Deaccent("arroz"))
}

func TestExpand(t *testing.T) {
	n := New(map[string]string{
		"arroz":  "arroz 5kg tipo 1",
		"feijão": "feijão carioca 1kg",
	})

	tests := []struct {
		name string
		term string
		want []string
	}{
		{
			name: "synonym without diacritics",
			term: "arroz",
			want: []string{"arroz", "arroz 5kg tipo 1"},
		},
		{
			name: "diacritic variants appended",
			term: "feijão",
			want: []string{"feijão", "feijão carioca 1kg", "feijao", "feijao carioca 1kg"},
		},
		{
			name: "no synonym",
			term: "chocolate",
			want: []string{"chocolate"},
		},
		{
			name: "original casing preserved",
			term: "Arroz",
			want: []string{"Arroz", "arroz 5kg tipo 1"},
		},
		{
			name: "blank term expands to nothing",
			term: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Expand(tt.term))
		})
	}
}

func TestExpandAllSkipsBlanks(t *testing.T) {
	n := New(DefaultMapping())
	expanded := n.ExpandAll([]string{"arroz", "", "  "})
	assert.Len(t, expanded, 1)
	assert.Contains(t, expanded, "arroz")
}
