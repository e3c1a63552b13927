package model

import (
	"encoding/json"
	"fmt"
)

// Severity represents how urgent a finding is for the site owner.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. JSON marshalling produces the
// lowercase string form that the persistence and report collaborators expect.
type Severity int

const (
	// SeverityInfo indicates informational findings with no direct ranking
	// or accessibility impact. Examples: canonical mismatch, missing JSON-LD.
	SeverityInfo Severity = iota

	// SeverityWarning indicates issues that degrade search visibility or
	// accessibility but do not block either. Examples: short title, thin
	// content, low-contrast text.
	SeverityWarning

	// SeverityCritical indicates issues that block indexing or make content
	// unusable. Examples: server errors, missing title, missing H1,
	// redirect loops.
	SeverityCritical
)

// String returns the lowercase serialized form of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as its lowercase string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the lowercase string form of a severity.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseSeverity(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity converts the lowercase string form back into a Severity.
func ParseSeverity(text string) (Severity, error) {
	switch text {
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity %q", text)
	}
}

// Category groups findings by the audit area they belong to.
type Category string

const (
	// CategorySEO covers search engine visibility findings.
	CategorySEO Category = "seo"

	// CategoryAccessibility covers WCAG and BFSG findings.
	CategoryAccessibility Category = "accessibility"

	// CategoryTechnical covers robots.txt, sitemap, and redirect findings.
	CategoryTechnical Category = "technical"

	// CategoryPerformance covers response time and page weight findings.
	CategoryPerformance Category = "performance"
)
