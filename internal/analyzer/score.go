package analyzer

import (
	"math"

	"github.com/seoscan/seoscan/internal/model"
)

// WCAG score deductions. Each severity class has a per-issue cost and a
// cap, so one class of problem can never zero the score by itself.
const (
	deductPerCritical = 4.0
	deductCapCritical = 60.0

	deductPerWarning = 2.0
	deductCapWarning = 30.0

	deductPerInfo = 0.5
	deductCapInfo = 10.0
)

// SummarizeWCAG computes the accessibility score and conformance level
// from a crawl's findings. Only accessibility-category issues count.
func SummarizeWCAG(issues []model.Issue) model.WCAGSummary {
	summary := model.WCAGSummary{
		LevelScores:    make(map[model.WCAGLevel]float64),
		CategoryScores: make(map[string]float64),
	}

	var a11y []model.Issue
	byLevel := make(map[model.WCAGLevel][]model.Issue)
	byPrinciple := make(map[string][]model.Issue)

	for _, issue := range issues {
		if issue.Category != model.CategoryAccessibility {
			continue
		}
		a11y = append(a11y, issue)

		switch issue.Severity {
		case model.SeverityCritical:
			summary.CriticalCount++
		case model.SeverityWarning:
			summary.WarningCount++
		case model.SeverityInfo:
			summary.InfoCount++
		}

		if issue.WCAG != nil {
			byLevel[issue.WCAG.Level] = append(byLevel[issue.WCAG.Level], issue)
			byPrinciple[issue.WCAG.Principle] = append(byPrinciple[issue.WCAG.Principle], issue)
		}
	}

	summary.Score = deductionScore(a11y)
	for _, level := range []model.WCAGLevel{model.WCAGLevelA, model.WCAGLevelAA, model.WCAGLevelAAA} {
		summary.LevelScores[level] = deductionScore(byLevel[level])
	}
	for principle, group := range byPrinciple {
		summary.CategoryScores[principle] = deductionScore(group)
	}

	summary.ConformanceLevel = conformanceLevel(byLevel)
	return summary
}

// deductionScore starts at 100 and subtracts capped per-severity costs.
func deductionScore(issues []model.Issue) float64 {
	var critical, warning, info float64
	for _, issue := range issues {
		switch issue.Severity {
		case model.SeverityCritical:
			critical++
		case model.SeverityWarning:
			warning++
		case model.SeverityInfo:
			info++
		}
	}

	score := 100.0
	score -= math.Min(deductCapCritical, critical*deductPerCritical)
	score -= math.Min(deductCapWarning, warning*deductPerWarning)
	score -= math.Min(deductCapInfo, info*deductPerInfo)
	if score < 0 {
		score = 0
	}
	return score
}

// conformanceLevel is the highest level whose criteria (and those of all
// lower levels) show no critical or warning findings. Informational
// findings don't break conformance.
func conformanceLevel(byLevel map[model.WCAGLevel][]model.Issue) model.WCAGLevel {
	blocking := func(level model.WCAGLevel) bool {
		for _, issue := range byLevel[level] {
			if issue.Severity >= model.SeverityWarning {
				return true
			}
		}
		return false
	}

	if blocking(model.WCAGLevelA) {
		return model.WCAGLevelNone
	}
	if blocking(model.WCAGLevelAA) {
		return model.WCAGLevelA
	}
	if blocking(model.WCAGLevelAAA) {
		return model.WCAGLevelAA
	}
	return model.WCAGLevelAAA
}
