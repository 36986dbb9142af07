package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mr1hm/go-disaster-relief/internal/logging"
	"github.com/mr1hm/go-disaster-relief/internal/mailer"
	"github.com/mr1hm/go-disaster-relief/internal/metrics"
	"github.com/mr1hm/go-disaster-relief/internal/models"
	"github.com/mr1hm/go-disaster-relief/internal/repository"
	"github.com/mr1hm/go-disaster-relief/internal/worker"
)

const (
	DefaultRateLimitWindow = 30 * time.Minute
	DefaultPayoutAmount    = 100
	defaultConcurrency     = 8
)

// Publisher receives one event per user outcome, e.g. the gRPC broadcaster.
type Publisher interface {
	Broadcast(e *models.DispatchEvent)
}

type Options struct {
	RateLimitWindow time.Duration
	PayoutAmount    int64
	Concurrency     int
	Publisher       Publisher
	Now             func() time.Time
}

type Dispatcher struct {
	users     repository.UserRepository
	mail      mailer.Sender
	publisher Publisher
	window    time.Duration
	amount    int64
	workers   int
	now       func() time.Time
	log       *slog.Logger
}

func NewDispatcher(users repository.UserRepository, mail mailer.Sender, opts Options) *Dispatcher {
	d := &Dispatcher{
		users:     users,
		mail:      mail,
		publisher: opts.Publisher,
		window:    opts.RateLimitWindow,
		amount:    opts.PayoutAmount,
		workers:   opts.Concurrency,
		now:       opts.Now,
		log:       logging.Component("dispatch"),
	}
	if d.window <= 0 {
		d.window = DefaultRateLimitWindow
	}
	if d.amount <= 0 {
		d.amount = DefaultPayoutAmount
	}
	if d.workers < 1 {
		d.workers = defaultConcurrency
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

type Result struct {
	ZipCode     string
	AlertID     string
	Outcomes    []models.DispatchEvent
	Notified    int
	RateLimited int
	Failed      int
	Paid        int
}

// Dispatch notifies every ACTIVE user in zip about alert, crediting a payout when pay is set.
// Per-user failures are recorded in the result and never returned. A mailer that cannot
// send at all or a failure to load the users is returned before any user is touched.
func (d *Dispatcher) Dispatch(ctx context.Context, zip string, alert *models.Alert, pay bool) (*Result, error) {
	if err := d.Ready(); err != nil {
		return nil, err
	}

	users, err := d.users.ListNotifiable(ctx, zip)
	if err != nil {
		return nil, fmt.Errorf("error listing notifiable users for %s: %w", zip, err)
	}

	res := &Result{
		ZipCode:  zip,
		AlertID:  alert.ID,
		Outcomes: make([]models.DispatchEvent, len(users)),
	}
	if len(users) == 0 {
		d.log.Debug("no notifiable users", "zip", zip, "alert_id", alert.ID)
		return res, nil
	}

	now := d.now()
	jobs := make([]int, len(users))
	for i := range jobs {
		jobs[i] = i
	}
	errs := worker.Fanout(ctx, d.workers, jobs, func(ctx context.Context, i int) error {
		ev := d.dispatchUser(ctx, &users[i], zip, alert, pay, now)
		res.Outcomes[i] = ev
		if ev.Outcome == models.OutcomeFailed {
			return fmt.Errorf("user %s: %s", ev.UserID, ev.Error)
		}
		return nil
	})

	for i, ev := range res.Outcomes {
		if ev.Outcome == "" {
			// the job panicked before recording an outcome
			ev = d.event(&users[i], zip, alert, now)
			ev.Outcome = models.OutcomeFailed
			ev.Error = errs[i].Error()
			res.Outcomes[i] = ev
		}
		switch ev.Outcome {
		case models.OutcomeNotified:
			res.Notified++
		case models.OutcomeRateLimited:
			res.RateLimited++
		case models.OutcomeFailed:
			res.Failed++
		}
		if ev.PayoutSent {
			res.Paid++
		}
		metrics.DispatchOutcomesTotal.WithLabelValues(string(ev.Outcome)).Inc()
		if d.publisher != nil {
			d.publisher.Broadcast(&res.Outcomes[i])
		}
	}

	if n := worker.Failed(errs); n > 0 {
		d.log.Warn("dispatch finished with failed users", "zip", zip, "alert_id", alert.ID, "failed", n)
	}

	d.log.Info("dispatch complete",
		"zip", zip,
		"alert_id", alert.ID,
		"users", len(users),
		"notified", res.Notified,
		"rate_limited", res.RateLimited,
		"failed", res.Failed,
		"paid", res.Paid,
	)
	return res, nil
}

// Ready returns the mailer's configuration error, if any.
func (d *Dispatcher) Ready() error {
	if err := d.mail.Validate(); err != nil {
		return fmt.Errorf("mailer not configured: %w", err)
	}
	return nil
}

func (d *Dispatcher) dispatchUser(ctx context.Context, u *models.User, zip string, alert *models.Alert, pay bool, now time.Time) models.DispatchEvent {
	ev := d.event(u, zip, alert, now)

	if u.NotifiedWithin(now, d.window) {
		ev.Outcome = models.OutcomeRateLimited
		return ev
	}

	// The window is claimed in the store before any effect so concurrent dispatches to the
	// same user cannot both pass the check.
	claimed, err := d.users.ClaimAlertWindow(ctx, u.ID, alert.ID, now, d.window)
	if err != nil {
		return d.fail(ev, err)
	}
	if !claimed {
		ev.Outcome = models.OutcomeRateLimited
		return ev
	}

	var balance int64
	if pay {
		balance, err = d.users.CreditPayout(ctx, u.ID, d.amount, now)
		if err != nil {
			return d.fail(ev, err)
		}
		ev.PayoutSent = true
		metrics.PayoutsTotal.Inc()
		metrics.PayoutAmountTotal.Add(float64(d.amount))
	}

	msg, err := composeMessage(u, alert, ev.PayoutSent, d.amount, balance)
	if err != nil {
		return d.fail(ev, err)
	}
	if err := d.mail.Send(ctx, msg); err != nil {
		// A credit that already happened stays; the user just misses the email.
		return d.fail(ev, fmt.Errorf("error sending email: %w", err))
	}

	ev.Outcome = models.OutcomeNotified
	return ev
}

func (d *Dispatcher) event(u *models.User, zip string, alert *models.Alert, now time.Time) models.DispatchEvent {
	return models.DispatchEvent{
		UserID:   u.ID,
		Email:    u.Email,
		ZipCode:  zip,
		AlertID:  alert.ID,
		Event:    alert.Event,
		Severity: alert.Severity,
		At:       now,
	}
}

func (d *Dispatcher) fail(ev models.DispatchEvent, err error) models.DispatchEvent {
	ev.Outcome = models.OutcomeFailed
	ev.Error = err.Error()
	d.log.Error("dispatch to user failed",
		"user_id", ev.UserID,
		"zip", ev.ZipCode,
		"alert_id", ev.AlertID,
		"payout_sent", ev.PayoutSent,
		"error", err,
	)
	return ev
}

// Simulate dispatches a synthetic alert to zip, bypassing processed-alert dedup.
func (d *Dispatcher) Simulate(ctx context.Context, zip, severity, event string) (*Result, bool, error) {
	alert := &models.Alert{
		ID:          "sim-" + uuid.NewString(),
		Severity:    severity,
		Event:       event,
		Headline:    fmt.Sprintf("SIMULATION: %s issued for %s", event, zip),
		Description: "This is a simulated alert generated by an operator.",
		AreaDesc:    "ZIP " + zip,
		Sent:        d.now(),
	}
	pay := ShouldPayout(severity)

	res, err := d.Dispatch(ctx, zip, alert, pay)
	if err != nil {
		return nil, pay, err
	}
	return res, pay, nil
}
