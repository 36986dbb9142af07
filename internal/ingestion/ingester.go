package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mr1hm/go-disaster-relief/internal/dispatch"
	"github.com/mr1hm/go-disaster-relief/internal/logging"
	"github.com/mr1hm/go-disaster-relief/internal/metrics"
	"github.com/mr1hm/go-disaster-relief/internal/models"
	"github.com/mr1hm/go-disaster-relief/internal/repository"
	"github.com/mr1hm/go-disaster-relief/internal/zipmap"
)

type Feed interface {
	FetchActive(ctx context.Context) ([]models.Alert, error)
}

type Dispatcher interface {
	// Ready reports a configuration error that would fail every dispatch.
	Ready() error
	Dispatch(ctx context.Context, zip string, alert *models.Alert, pay bool) (*dispatch.Result, error)
}

type Ingester struct {
	feed       Feed
	processed  repository.ProcessedAlertRepository
	zips       *zipmap.Mapper
	dispatcher Dispatcher
	log        *slog.Logger
}

func NewIngester(feed Feed, processed repository.ProcessedAlertRepository, zips *zipmap.Mapper, dispatcher Dispatcher) *Ingester {
	return &Ingester{
		feed:       feed,
		processed:  processed,
		zips:       zips,
		dispatcher: dispatcher,
		log:        logging.Component("ingestion"),
	}
}

// Ingest processes every feed alert that has no processed marker yet and returns how many
// it processed. The marker is written before dispatching, so an alert is handled at most
// once even if dispatch fails part way.
func (i *Ingester) Ingest(ctx context.Context) (int, error) {
	alerts, err := i.feed.FetchActive(ctx)
	if err != nil {
		metrics.IngestRunsTotal.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("error fetching alerts: %w", err)
	}
	if len(alerts) == 0 {
		metrics.IngestRunsTotal.WithLabelValues("ok").Inc()
		i.log.Debug("feed returned no alerts")
		return 0, nil
	}

	// Markers are only written once delivery is possible; otherwise the alerts stay
	// unprocessed for the next run.
	if err := i.dispatcher.Ready(); err != nil {
		metrics.IngestRunsTotal.WithLabelValues("error").Inc()
		return 0, err
	}

	processed := 0
	for idx := range alerts {
		alert := &alerts[idx]

		ok, err := i.claim(ctx, alert)
		if err != nil {
			i.log.Error("error claiming alert", "alert_id", alert.ID, "error", err)
			continue
		}
		if !ok {
			metrics.AlertsSkippedTotal.Inc()
			continue
		}

		i.dispatchAlert(ctx, alert)
		processed++
		metrics.AlertsProcessedTotal.Inc()
	}

	metrics.IngestRunsTotal.WithLabelValues("ok").Inc()
	i.log.Info("ingestion complete", "fetched", len(alerts), "processed", processed)
	return processed, nil
}

// claim reports whether this run owns the alert. The conditional insert also covers
// concurrent runs that both passed the Exists check.
func (i *Ingester) claim(ctx context.Context, alert *models.Alert) (bool, error) {
	exists, err := i.processed.Exists(ctx, alert.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	return i.processed.MarkProcessed(ctx, &models.ProcessedAlert{
		AlertID:     alert.ID,
		Severity:    alert.Severity,
		Event:       alert.Event,
		AreaDesc:    alert.AreaDesc,
		ProcessedAt: time.Now(),
	})
}

func (i *Ingester) dispatchAlert(ctx context.Context, alert *models.Alert) {
	zips := i.zips.MapAreaToZips(alert.AreaDesc)
	pay := dispatch.ShouldPayout(alert.Severity)

	i.log.Info("processing alert",
		"alert_id", alert.ID,
		"event", alert.Event,
		"severity", alert.Severity,
		"zips", zips,
		"payout", pay,
	)

	for _, zip := range zips {
		if _, err := i.dispatcher.Dispatch(ctx, zip, alert, pay); err != nil {
			i.log.Error("dispatch failed", "alert_id", alert.ID, "zip", zip, "error", err)
		}
	}
}
