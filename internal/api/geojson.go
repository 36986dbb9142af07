package api

import (
	"github.com/mr1hm/go-disaster-relief/internal/dispatch"
	"github.com/mr1hm/go-disaster-relief/internal/models"
	"github.com/mr1hm/go-disaster-relief/internal/zipmap"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// toGeoJSON emits one point per processed alert per affected zip that has coordinates.
func toGeoJSON(alerts []models.ProcessedAlert, zips *zipmap.Mapper) FeatureCollection {
	features := make([]Feature, 0, len(alerts))

	for _, a := range alerts {
		for _, zip := range zips.MapAreaToZips(a.AreaDesc) {
			loc, ok := zips.Locate(zip)
			if !ok {
				continue
			}
			features = append(features, Feature{
				Type: "Feature",
				Geometry: Geometry{
					Type:        "Point",
					Coordinates: []float64{loc.Longitude, loc.Latitude},
				},
				Properties: map[string]any{
					"alert_id":     a.AlertID,
					"zip":          zip,
					"event":        a.Event,
					"severity":     string(models.ParseSeverity(a.Severity)),
					"payout":       dispatch.ShouldPayout(a.Severity),
					"area":         a.AreaDesc,
					"processed_at": a.ProcessedAt,
				},
			})
		}
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
