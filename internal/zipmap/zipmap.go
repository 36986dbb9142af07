// Package zipmap maps free-text alert area descriptions to postal codes.
//
// The lookup table is keyed by county/parish name. An area description matches an
// entry when it contains the entry's area name, compared case-insensitively.
package zipmap

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type Entry struct {
	Area string  `yaml:"area"`
	Zip  string  `yaml:"zip"`
	Lat  float64 `yaml:"lat,omitempty"`
	Lon  float64 `yaml:"lon,omitempty"`
}

func (e Entry) hasCoordinates() bool {
	return e.Lat != 0 || e.Lon != 0
}

type tableFile struct {
	Entries []Entry `yaml:"entries"`
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type Mapper struct {
	entries []Entry
	coords  map[string]Coordinates
}

func New(entries []Entry) *Mapper {
	m := &Mapper{
		entries: make([]Entry, 0, len(entries)),
		coords:  make(map[string]Coordinates),
	}
	for _, e := range entries {
		area := strings.ToLower(strings.TrimSpace(e.Area))
		zip := strings.TrimSpace(e.Zip)
		if area == "" || zip == "" {
			continue
		}
		m.entries = append(m.entries, Entry{Area: area, Zip: zip, Lat: e.Lat, Lon: e.Lon})
		if _, ok := m.coords[zip]; !ok && e.hasCoordinates() {
			m.coords[zip] = Coordinates{Latitude: e.Lat, Longitude: e.Lon}
		}
	}
	return m
}

// LoadTable reads a YAML table of the form:
//
//	entries:
//	  - area: Tangipahoa
//	    zip: "70401"
//	    lat: 30.5044
//	    lon: -90.4612
func LoadTable(path string) (*Mapper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zip table: %w", err)
	}

	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse zip table: %w", err)
	}
	if len(tf.Entries) == 0 {
		return nil, fmt.Errorf("zip table %s has no entries", path)
	}

	return New(tf.Entries), nil
}

// MapAreaToZips returns the distinct postal codes whose area name occurs in area.
// The result is sorted; an empty area yields an empty result.
func (m *Mapper) MapAreaToZips(area string) []string {
	text := strings.ToLower(strings.TrimSpace(area))
	if text == "" {
		return []string{}
	}

	seen := make(map[string]struct{})
	zips := []string{}
	for _, e := range m.entries {
		if !strings.Contains(text, e.Area) {
			continue
		}
		if _, dup := seen[e.Zip]; dup {
			continue
		}
		seen[e.Zip] = struct{}{}
		zips = append(zips, e.Zip)
	}

	sort.Strings(zips)
	return zips
}

// Locate returns map coordinates for zip when the table carries them.
func (m *Mapper) Locate(zip string) (Coordinates, bool) {
	c, ok := m.coords[zip]
	return c, ok
}

func (m *Mapper) Len() int {
	return len(m.entries)
}
