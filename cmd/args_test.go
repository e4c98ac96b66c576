package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"needles/cli/internal/boutique"
)

func TestParseItems(t *testing.T) {
	items, err := parseItems([]string{"Blouse=450", " Kurta = 799.5"})
	require.NoError(t, err)
	assert.Equal(t, []boutique.CatalogueItem{
		{ItemName: "Blouse", Price: 450},
		{ItemName: "Kurta", Price: 799.5},
	}, items)

	for _, bad := range []string{"Blouse", "=10", "Blouse=abc", "Blouse=-1"} {
		_, err := parseItems([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestParseFields(t *testing.T) {
	got, err := parseFields([]string{"name=Chic Couture", "rating=4.5", "open=true", "phone=0123"})
	require.NoError(t, err)
	assert.Equal(t, boutique.Record{
		"name":   "Chic Couture",
		"rating": 4.5,
		"open":   true,
		"phone":  "0123",
	}, got)

	_, err = parseFields([]string{"novalue"})
	assert.Error(t, err)
}

func TestReadPayload(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bill.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"orderId":"o1","amount":1200}`), 0o600))

	got, err := readPayload(p)
	require.NoError(t, err)
	assert.Equal(t, "o1", got["orderId"])

	require.NoError(t, os.WriteFile(p, []byte(`[1,2]`), 0o600))
	_, err = readPayload(p)
	assert.Error(t, err)
}

func TestCell(t *testing.T) {
	assert.Equal(t, "", cell(nil))
	assert.Equal(t, "450", cell(float64(450)))
	assert.Equal(t, "12.50", cell(12.5))
	assert.Equal(t, "true", cell(true))
	assert.Equal(t, `["S","M"]`, cell([]any{"S", "M"}))
}

func TestCellTruncatesOnRunes(t *testing.T) {
	got := cell([]any{strings.Repeat("é", 70)})
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 60, utf8.RuneCountInString(got))
	assert.Equal(t, `["`+strings.Repeat("é", 55)+"...", got)
}

func TestParseFormFields(t *testing.T) {
	got, err := parseFormFields([]string{"measurementRequirements=[\"bust\"]", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"measurementRequirements": `["bust"]`, "note": "a=b"}, got)

	_, err = parseFormFields([]string{"novalue"})
	assert.Error(t, err)
}

func TestOpenImages(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "front.png")
	require.NoError(t, os.WriteFile(p, []byte("png"), 0o600))

	parts, closeAll, err := openImages([]string{p})
	require.NoError(t, err)
	defer closeAll()
	require.Len(t, parts, 1)
	assert.Equal(t, "images", parts[0].Field)
	assert.Equal(t, "front.png", parts[0].Name)

	_, closeMissing, err := openImages([]string{p, filepath.Join(dir, "missing.png")})
	closeMissing()
	assert.Error(t, err)
}
