package model

import (
	"encoding/json"
	"testing"
)

func TestSeverityString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		severity Severity
		want     string
	}{
		{name: "info", severity: SeverityInfo, want: "info"},
		{name: "warning", severity: SeverityWarning, want: "warning"},
		{name: "critical", severity: SeverityCritical, want: "critical"},
		{name: "unknown", severity: Severity(99), want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	if !(SeverityInfo < SeverityWarning && SeverityWarning < SeverityCritical) {
		t.Error("severity constants must be ordered info < warning < critical")
	}
}

func TestSeverityJSONRoundTrip(t *testing.T) {
	t.Parallel()

	for _, sev := range []Severity{SeverityInfo, SeverityWarning, SeverityCritical} {
		data, err := json.Marshal(sev)
		if err != nil {
			t.Fatalf("Marshal(%v) error: %v", sev, err)
		}
		var got Severity
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal(%s) error: %v", data, err)
		}
		if got != sev {
			t.Errorf("round trip = %v, want %v", got, sev)
		}
	}
}

func TestWCAGLevelRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level WCAGLevel
		want  int
	}{
		{WCAGLevelA, 1},
		{WCAGLevelAA, 2},
		{WCAGLevelAAA, 3},
		{WCAGLevel("bogus"), 0},
	}

	for _, tt := range tests {
		if got := tt.level.Rank(); got != tt.want {
			t.Errorf("Rank(%q) = %d, want %d", tt.level, got, tt.want)
		}
	}
}
