package models

import (
	"strings"
	"time"
)

type Severity string

const (
	SeverityExtreme  Severity = "Extreme"
	SeveritySevere   Severity = "Severe"
	SeverityModerate Severity = "Moderate"
	SeverityMinor    Severity = "Minor"
	SeverityUnknown  Severity = "Unknown"
)

// ParseSeverity normalizes a feed or user supplied severity label.
// Unrecognized values map to SeverityUnknown.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "extreme":
		return SeverityExtreme
	case "severe":
		return SeveritySevere
	case "moderate":
		return SeverityModerate
	case "minor":
		return SeverityMinor
	default:
		return SeverityUnknown
	}
}

type Alert struct {
	ID          string // Unique ID from the feed (e.g., "urn:oid:2.49.0.1.840.0...")
	Severity    string // raw label as received, see ParseSeverity
	Event       string // e.g., "Flash Flood Warning"
	Headline    string
	Description string
	AreaDesc    string // free-text list of affected counties/parishes
	Sent        time.Time
}

// ProcessedAlert marks an alert ID as dispatched. Written once, never updated.
type ProcessedAlert struct {
	AlertID     string
	Severity    string
	Event       string
	AreaDesc    string
	ProcessedAt time.Time
}
