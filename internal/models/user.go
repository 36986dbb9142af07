package models

import (
	"strings"
	"time"
)

type UserStatus string

const (
	UserStatusActive UserStatus = "ACTIVE"
	UserStatusPaid   UserStatus = "PAID"
)

type User struct {
	ID          string
	Email       string
	Name        string // optional, see DisplayName
	ZipCode     string
	Status      UserStatus
	Balance     int64      // whole dollars, never negative
	LastAlertAt *time.Time // nil if the user was never notified
	LastAlertID string
	PayoutAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName returns Name, or the local part of Email when Name is blank.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// NotifiedWithin reports whether the user received an alert less than window before now.
func (u *User) NotifiedWithin(now time.Time, window time.Duration) bool {
	if u.LastAlertAt == nil {
		return false
	}
	return now.Sub(*u.LastAlertAt) < window
}
