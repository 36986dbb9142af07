package dispatch

import "strings"

// ShouldPayout reports whether an alert of the given severity credits a relief payout.
// Only "extreme" and "severe" qualify, in any casing.
func ShouldPayout(severity string) bool {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "extreme", "severe":
		return true
	default:
		return false
	}
}
