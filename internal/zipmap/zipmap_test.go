package zipmap

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The default table is keyed by parish name; these fixtures pin that orientation.
func TestDefaultTable_Fixture(t *testing.T) {
	m := NewDefault()

	tests := []struct {
		name string
		area string
		want []string
	}{
		{"single parish", "Tangipahoa", []string{"70401"}},
		{"case insensitive", "TANGIPAHOA PARISH", []string{"70401"}},
		{"nws area list", "Livingston, LA; Tangipahoa, LA; St. Tammany, LA", []string{"70401", "70433", "70754"}},
		{"no match", "Harris, TX", []string{}},
		{"empty", "", []string{}},
		{"blank", "   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.MapAreaToZips(tt.area))
		})
	}
}

func TestMapAreaToZips_Dedup(t *testing.T) {
	m := New([]Entry{
		{Area: "Tangipahoa", Zip: "70401"},
		{Area: "Hammond", Zip: "70401"},
		{Area: "Orleans", Zip: "70112"},
	})

	zips := m.MapAreaToZips("Hammond area of Tangipahoa and Orleans")
	assert.Equal(t, []string{"70112", "70401"}, zips)
}

func TestMapAreaToZips_KeyIsAreaNotZip(t *testing.T) {
	m := NewDefault()
	assert.Empty(t, m.MapAreaToZips("70401"))
}

func TestLocate(t *testing.T) {
	m := NewDefault()

	c, ok := m.Locate("70401")
	require.True(t, ok)
	assert.InDelta(t, 30.5044, c.Latitude, 1e-6)
	assert.InDelta(t, -90.4612, c.Longitude, 1e-6)

	_, ok = m.Locate("99999")
	assert.False(t, ok)
}

func TestLoadTable(t *testing.T) {
	m, err := LoadTable(filepath.Join("testdata", "table.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3, m.Len(), "blank entries are skipped")
	assert.Equal(t, []string{"70401"}, m.MapAreaToZips("Hammond"))

	_, ok := m.Locate("70112")
	assert.False(t, ok, "entries without coordinates are not locatable")
}

func TestLoadTable_Errors(t *testing.T) {
	_, err := LoadTable(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}
