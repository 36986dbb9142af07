package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mr1hm/go-disaster-relief/internal/models"
)

type nwsResponse struct {
	Features []nwsFeature `json:"features"`
}

type nwsFeature struct {
	ID         string        `json:"id"` // URL form of the alert id
	Properties nwsProperties `json:"properties"`
}

type nwsProperties struct {
	ID          string `json:"id"`
	AreaDesc    string `json:"areaDesc"`
	Sent        string `json:"sent"` // RFC3339
	Severity    string `json:"severity"`
	Event       string `json:"event"`
	Headline    string `json:"headline"`
	Description string `json:"description"`
}

// FeedClient reads active alerts from the National Weather Service alerts API.
type FeedClient struct {
	url       string
	userAgent string
	client    *http.Client
}

func NewFeedClient(url, userAgent string) *FeedClient {
	return &FeedClient{
		url:       url,
		userAgent: userAgent,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (f *FeedClient) FetchActive(ctx context.Context) ([]models.Alert, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data nwsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	alerts := make([]models.Alert, 0, len(data.Features))
	for _, feat := range data.Features {
		p := feat.Properties
		id := p.ID
		if id == "" {
			id = feat.ID
		}
		if id == "" {
			slog.Warn("NWS alert without id skipped", "event", p.Event)
			continue
		}

		var sent time.Time
		if p.Sent != "" {
			if sent, err = time.Parse(time.RFC3339, p.Sent); err != nil {
				slog.Warn("NWS timestamp parsing failed", "id", id, "error", err.Error())
			}
		}

		alerts = append(alerts, models.Alert{
			ID:          id,
			Severity:    p.Severity,
			Event:       p.Event,
			Headline:    p.Headline,
			Description: p.Description,
			AreaDesc:    p.AreaDesc,
			Sent:        sent,
		})
	}

	return alerts, nil
}
