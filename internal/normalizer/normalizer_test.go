package normalizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n := New(map[string]string{"Arroz": "Arroz 5kg Tipo 1"})

	assert.Equal(t, "arroz 5kg tipo 1", n.Normalize("  ARROZ  "))
	assert.Equal(t, "feijão", n.Normalize("Feijão"))
	assert.Equal(t, "", n.Normalize("   "))
}

func TestAdd(t *testing.T) {
	n := New(nil)
	n.Add(" Café ", " Café 500g ")
	assert.Equal(t, "café 500g", n.Normalize("café"))
}

func TestLoadMappingMissingFile(t *testing.T) {
	mapping := LoadMapping(filepath.Join(t.TempDir(), "nope.json"))
	assert.Equal(t, DefaultMapping(), mapping)
}

func TestLoadMappingMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))
	assert.Equal(t, DefaultMapping(), LoadMapping(path))
}

func TestLoadMappingOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"arroz": "arroz agulhinha 5kg", "sal": "sal refinado 1kg"}`), 0o644))

	mapping := LoadMapping(path)
	assert.Equal(t, "arroz agulhinha 5kg", mapping["arroz"])
	assert.Equal(t, "sal refinado 1kg", mapping["sal"])
	// Untouched defaults survive.
	assert.Equal(t, "leite longa vida 1l", mapping["leite"])
}

func TestSaveMappingRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.json")
	require.NoError(t, SaveMapping(path, map[string]string{"sal": "sal refinado 1kg"}))

	mapping := LoadMapping(path)
	assert.Equal(t, "sal refinado 1kg", mapping["sal"])
}
