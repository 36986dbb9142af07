package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mr1hm/go-disaster-relief/internal/config"
)

const runTimeout = 5 * time.Minute

type Runner interface {
	Ingest(ctx context.Context) (int, error)
}

// Manager runs ingestion on a cron schedule, with one immediate run at start.
// Scheduled runs never overlap.
type Manager struct {
	cfg     config.FeedConfig
	runner  Runner
	cron    *cron.Cron
	mu      sync.Mutex // held while a run is in flight
	wg      sync.WaitGroup
	started bool
}

func NewManager(cfg config.FeedConfig, runner Runner) *Manager {
	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelDebug))
	return &Manager{
		cfg:    cfg,
		runner: runner,
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
	}
}

func (m *Manager) Start(ctx context.Context) error {
	if !m.cfg.Enabled {
		slog.Info("scheduled ingestion disabled")
		return nil
	}

	if _, err := m.cron.AddFunc(m.cfg.Schedule, func() { m.run(ctx) }); err != nil {
		return fmt.Errorf("invalid ingest schedule %q: %w", m.cfg.Schedule, err)
	}

	slog.Info("starting ingestion scheduler", "schedule", m.cfg.Schedule, "url", m.cfg.URL)

	// Initial run
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(ctx)
	}()

	m.cron.Start()
	m.started = true
	return nil
}

func (m *Manager) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !m.mu.TryLock() {
		slog.Warn("previous ingestion still running, skipping")
		return
	}
	defer m.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	n, err := m.runner.Ingest(runCtx)
	if err != nil {
		slog.Error("scheduled ingestion failed", "error", err)
		return
	}
	slog.Debug("scheduled ingestion complete", "processed", n)
}

// Stop stops the scheduler and waits for in-flight runs.
func (m *Manager) Stop() {
	if m.started {
		<-m.cron.Stop().Done()
	}
	m.wg.Wait()
	slog.Info("ingestion manager stopped")
}
