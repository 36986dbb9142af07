package dispatch

import "testing"

func TestShouldPayout(t *testing.T) {
	tests := []struct {
		severity string
		want     bool
	}{
		{"Extreme", true},
		{"extreme", true},
		{"EXTREME", true},
		{"Severe", true},
		{"sEvErE", true},
		{" severe ", true},
		{"Moderate", false},
		{"Minor", false},
		{"Unknown", false},
		{"", false},
		{"extremely", false},
	}

	for _, tt := range tests {
		if got := ShouldPayout(tt.severity); got != tt.want {
			t.Errorf("ShouldPayout(%q) = %v, want %v", tt.severity, got, tt.want)
		}
	}
}
