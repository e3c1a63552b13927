package model

// WCAGLevel is a WCAG conformance level. Levels are ordered: A < AA < AAA.
type WCAGLevel string

const (
	// WCAGLevelA is the minimum conformance level.
	WCAGLevelA WCAGLevel = "A"

	// WCAGLevelAA is the level most legislation (including BFSG) targets.
	WCAGLevelAA WCAGLevel = "AA"

	// WCAGLevelAAA is the strictest conformance level.
	WCAGLevelAAA WCAGLevel = "AAA"

	// WCAGLevelNone marks a crawl that fails even level A.
	WCAGLevelNone WCAGLevel = "none"
)

// Rank returns the ordering position of the level (A=1, AA=2, AAA=3).
// Unknown levels rank 0 so they never satisfy an "at or below" check.
func (l WCAGLevel) Rank() int {
	switch l {
	case WCAGLevelA:
		return 1
	case WCAGLevelAA:
		return 2
	case WCAGLevelAAA:
		return 3
	default:
		return 0
	}
}

// WCAGInfo carries the WCAG metadata attached to an accessibility finding.
type WCAGInfo struct {
	// Level is the conformance level of the violated criterion.
	Level WCAGLevel `json:"wcag_level"`

	// Version is the WCAG version that defines the criterion ("2.1" or "2.2").
	Version string `json:"wcag_version"`

	// Criterion is the success criterion number, e.g. "1.4.3".
	Criterion string `json:"wcag_criterion"`

	// Principle is one of Perceivable, Operable, Understandable, Robust.
	Principle string `json:"wcag_principle"`
}

// WCAGSummary aggregates accessibility findings into scores and a
// conformance level for one crawl.
type WCAGSummary struct {
	// Score is the global accessibility score in [0,100].
	Score float64 `json:"score"`

	// LevelScores holds the per-level scores keyed by "A"/"AA"/"AAA".
	LevelScores map[WCAGLevel]float64 `json:"level_scores"`

	// CategoryScores holds per-principle scores keyed by principle name.
	CategoryScores map[string]float64 `json:"category_scores"`

	// ConformanceLevel is the highest level with no critical or warning
	// issue at that level or below, or WCAGLevelNone when level A fails.
	ConformanceLevel WCAGLevel `json:"conformance_level,omitempty"`

	// CriticalCount, WarningCount, and InfoCount tally accessibility
	// findings by severity.
	CriticalCount int `json:"critical_count"`
	WarningCount  int `json:"warning_count"`
	InfoCount     int `json:"info_count"`
}
