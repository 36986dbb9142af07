package models

import "time"

type DispatchOutcome string

const (
	OutcomeNotified    DispatchOutcome = "notified"
	OutcomeRateLimited DispatchOutcome = "rate_limited"
	OutcomeFailed      DispatchOutcome = "failed"
)

// DispatchEvent records what happened to one user during one dispatch.
type DispatchEvent struct {
	UserID     string
	Email      string
	ZipCode    string
	AlertID    string
	Event      string
	Severity   string
	Outcome    DispatchOutcome
	PayoutSent bool
	Error      string
	At         time.Time
}
