package models

import (
	"testing"
	"time"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"explicit name", User{Name: "Jane Doe", Email: "jane@example.com"}, "Jane Doe"},
		{"blank name falls back", User{Name: "  ", Email: "jdoe@example.com"}, "jdoe"},
		{"no at sign", User{Email: "nobody"}, "nobody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUser_NotifiedWithin(t *testing.T) {
	now := time.Now()
	window := 30 * time.Minute

	u := User{}
	if u.NotifiedWithin(now, window) {
		t.Error("user without a prior alert should be eligible")
	}

	fiveAgo := now.Add(-5 * time.Minute)
	u.LastAlertAt = &fiveAgo
	if !u.NotifiedWithin(now, window) {
		t.Error("expected alert 5 minutes ago to be inside the window")
	}

	exactly := now.Add(-window)
	u.LastAlertAt = &exactly
	if u.NotifiedWithin(now, window) {
		t.Error("expected alert exactly one window ago to be eligible")
	}
}

func TestParseSeverity(t *testing.T) {
	cases := map[string]Severity{
		"Extreme":  SeverityExtreme,
		" severe ": SeveritySevere,
		"MODERATE": SeverityModerate,
		"minor":    SeverityMinor,
		"":         SeverityUnknown,
		"bogus":    SeverityUnknown,
	}
	for in, want := range cases {
		if got := ParseSeverity(in); got != want {
			t.Errorf("ParseSeverity(%q) = %q, want %q", in, got, want)
		}
	}
}
