package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
  "type": "FeatureCollection",
  "features": [
    {
      "id": "https://api.weather.gov/alerts/urn:oid:2.49.0.1.840.0.aaa",
      "properties": {
        "id": "urn:oid:2.49.0.1.840.0.aaa",
        "areaDesc": "Tangipahoa, LA",
        "sent": "2026-08-29T10:00:00-05:00",
        "severity": "Extreme",
        "event": "Hurricane Warning",
        "headline": "Hurricane Warning issued August 29",
        "description": "Hurricane conditions expected."
      }
    },
    {
      "id": "https://api.weather.gov/alerts/urn:oid:2.49.0.1.840.0.bbb",
      "properties": {
        "areaDesc": "Orleans",
        "severity": "Minor",
        "event": "Special Weather Statement"
      }
    },
    {
      "properties": {
        "event": "No id at all"
      }
    }
  ]
}`

func TestFeedClient_FetchActive(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewFeedClient(srv.URL, "relief-test (ops@example.com)")
	alerts, err := c.FetchActive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "relief-test (ops@example.com)", gotUA)
	assert.Equal(t, "application/geo+json", gotAccept)

	require.Len(t, alerts, 2)
	assert.Equal(t, "urn:oid:2.49.0.1.840.0.aaa", alerts[0].ID)
	assert.Equal(t, "Extreme", alerts[0].Severity)
	assert.Equal(t, "Hurricane Warning", alerts[0].Event)
	assert.Equal(t, "Tangipahoa, LA", alerts[0].AreaDesc)
	assert.Equal(t, time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC), alerts[0].Sent.UTC())

	// falls back to the feature URL id
	assert.Equal(t, "https://api.weather.gov/alerts/urn:oid:2.49.0.1.840.0.bbb", alerts[1].ID)
	assert.True(t, alerts[1].Sent.IsZero())
}

func TestFeedClient_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewFeedClient(srv.URL, "").FetchActive(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestFeedClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	_, err := NewFeedClient(srv.URL, "").FetchActive(context.Background())
	require.Error(t, err)
}
