package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mr1hm/go-disaster-relief/internal/models"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("user with this email already exists")
	ErrNegativeBalance  = errors.New("balance must not be negative")
	ErrConcurrentUpdate = errors.New("too many concurrent balance updates")
)

type Filter struct {
	Limit   int
	Offset  int
	Since   *time.Time
	ZipCode string
	Status  *models.UserStatus
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context, opts Filter) ([]models.User, error)
	// ListNotifiable returns ACTIVE users in the given zip code.
	ListNotifiable(ctx context.Context, zip string) ([]models.User, error)
	// ClaimAlertWindow stamps last_alert_at/last_alert_id only if the user has not been
	// alerted within window before at. It reports whether the stamp was written.
	ClaimAlertWindow(ctx context.Context, id, alertID string, at time.Time, window time.Duration) (bool, error)
	// CreditPayout atomically adds amount to the balance, sets status PAID and stamps
	// payout_at. Returns the new balance.
	CreditPayout(ctx context.Context, id string, amount int64, at time.Time) (int64, error)
	SetBalance(ctx context.Context, id string, balance int64) error
	ResetUser(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, id string) error
}

type ProcessedAlertRepository interface {
	Exists(ctx context.Context, alertID string) (bool, error)
	// MarkProcessed inserts the marker unless one exists. It reports whether this call created it.
	MarkProcessed(ctx context.Context, p *models.ProcessedAlert) (bool, error)
	ListProcessed(ctx context.Context, opts Filter) ([]models.ProcessedAlert, error)
}
