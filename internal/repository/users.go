package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mr1hm/go-disaster-relief/internal/models"
)

// Upper bound on compare-and-set retries. Each failed attempt means another credit succeeded.
const maxCreditAttempts = 32

const userColumns = `id, email, name, zip_code, status, balance, last_alert_at, last_alert_id, payout_at, created_at, updated_at`

func (s *SQLiteDB) CreateUser(ctx context.Context, u *models.User) error {
	if u.Balance < 0 {
		return ErrNegativeBalance
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Status == "" {
		u.Status = models.UserStatusActive
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Email, u.Name, u.ZipCode, string(u.Status), u.Balance,
		nullMillis(u.LastAlertAt), u.LastAlertID, nullMillis(u.PayoutAt),
		toMillis(u.CreatedAt), toMillis(u.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return u, nil
}

func (s *SQLiteDB) ListUsers(ctx context.Context, opts Filter) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	var args []any

	if opts.ZipCode != "" {
		query += ` AND zip_code = ?`
		args = append(args, opts.ZipCode)
	}
	if opts.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*opts.Status))
	}
	if opts.Since != nil {
		query += ` AND created_at >= ?`
		args = append(args, toMillis(*opts.Since))
	}

	query += ` ORDER BY created_at ASC, id ASC`
	if opts.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *SQLiteDB) ListNotifiable(ctx context.Context, zip string) ([]models.User, error) {
	active := models.UserStatusActive
	return s.ListUsers(ctx, Filter{ZipCode: zip, Status: &active})
}

func (s *SQLiteDB) ClaimAlertWindow(ctx context.Context, id, alertID string, at time.Time, window time.Duration) (bool, error) {
	cutoff := at.Add(-window)
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET last_alert_at = ?, last_alert_id = ?, updated_at = ?
		WHERE id = ? AND (last_alert_at IS NULL OR last_alert_at <= ?)`,
		toMillis(at), alertID, toMillis(at), id, toMillis(cutoff),
	)
	if err != nil {
		return false, fmt.Errorf("error stamping alert window: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 1 {
		return true, nil
	}

	// Distinguish "inside the window" from "no such user".
	if _, err := s.GetUser(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (s *SQLiteDB) CreditPayout(ctx context.Context, id string, amount int64, at time.Time) (int64, error) {
	for attempt := 0; attempt < maxCreditAttempts; attempt++ {
		var balance int64
		err := s.db.QueryRowContext(ctx, `SELECT balance FROM users WHERE id = ?`, id).Scan(&balance)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, ErrUserNotFound
			}
			return 0, fmt.Errorf("error reading balance: %w", err)
		}

		next := balance + amount
		res, err := s.db.ExecContext(ctx, `
			UPDATE users
			SET balance = ?, status = ?, payout_at = ?, updated_at = ?
			WHERE id = ? AND balance = ?`,
			next, string(models.UserStatusPaid), toMillis(at), toMillis(at), id, balance,
		)
		if err != nil {
			return 0, fmt.Errorf("error crediting payout: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("error reading rows affected: %w", err)
		}
		if n == 1 {
			return next, nil
		}
	}
	return 0, ErrConcurrentUpdate
}

func (s *SQLiteDB) SetBalance(ctx context.Context, id string, balance int64) error {
	if balance < 0 {
		return ErrNegativeBalance
	}
	return s.execOnUser(ctx, `UPDATE users SET balance = ?, updated_at = ? WHERE id = ?`,
		balance, toMillis(time.Now()), id)
}

func (s *SQLiteDB) ResetUser(ctx context.Context, id string) error {
	return s.execOnUser(ctx, `
		UPDATE users
		SET status = ?, last_alert_at = NULL, last_alert_id = '', payout_at = NULL, updated_at = ?
		WHERE id = ?`,
		string(models.UserStatusActive), toMillis(time.Now()), id)
}

func (s *SQLiteDB) DeleteUser(ctx context.Context, id string) error {
	return s.execOnUser(ctx, `DELETE FROM users WHERE id = ?`, id)
}

func (s *SQLiteDB) execOnUser(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u                 models.User
		status            string
		lastAlert, payout sql.NullInt64
		created, updated  int64
	)
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.ZipCode, &status, &u.Balance,
		&lastAlert, &u.LastAlertID, &payout, &created, &updated)
	if err != nil {
		return nil, err
	}
	u.Status = models.UserStatus(status)
	u.LastAlertAt = fromNullMillis(lastAlert)
	u.PayoutAt = fromNullMillis(payout)
	u.CreatedAt = time.UnixMilli(created)
	u.UpdatedAt = time.UnixMilli(updated)
	return &u, nil
}
