package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/seoscan/seoscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables the per-page finding lists in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeScores(&sb, report)
	w.writeSiteChecks(&sb, report)
	w.writeFindings(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with audit information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          SEOSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Site:          %s\n", report.Job.SiteURL))
	if !report.Job.CreatedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Audit Date:    %s\n", report.Job.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	}
	sb.WriteString(fmt.Sprintf("Pages Crawled: %d\n", report.Job.PagesCrawled))
	if report.Job.PagesFailed > 0 {
		sb.WriteString(fmt.Sprintf("Pages Failed:  %d\n", report.Job.PagesFailed))
	}

	switch {
	case report.Job.Error != "":
		sb.WriteString(fmt.Sprintf("Status:        ERROR - %s\n", report.Job.Error))
	case report.Job.Status == model.JobCompleted:
		sb.WriteString("Status:        Complete\n")
	default:
		sb.WriteString(fmt.Sprintf("Status:        %s\n", report.Job.Status))
	}

	sb.WriteString("\n")
}

// writeSummary writes the severity summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.CrawlReport) {
	w.sectionHeader(sb, "SEVERITY SUMMARY")

	counts := report.Job.Counts
	sb.WriteString(fmt.Sprintf("  CRITICAL: %d\n", counts.Critical))
	sb.WriteString(fmt.Sprintf("  WARNING:  %d\n", counts.Warning))
	sb.WriteString(fmt.Sprintf("  INFO:     %d\n", counts.Info))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:    %d findings\n", counts.Total()))
	sb.WriteString("\n")
}

// writeScores writes the performance and accessibility score section.
func (w *SimpleWriter) writeScores(sb *strings.Builder, report *model.CrawlReport) {
	w.sectionHeader(sb, "SCORES")

	sb.WriteString(fmt.Sprintf("  Performance (avg):  %.0f / 100\n", report.AveragePerformance()))
	sb.WriteString(fmt.Sprintf("  Accessibility:      %.0f / 100\n", report.WCAG.Score))

	conformance := string(report.WCAG.ConformanceLevel)
	if conformance == "" {
		conformance = "none"
	}
	sb.WriteString(fmt.Sprintf("  WCAG Conformance:   %s\n", conformance))
	sb.WriteString("\n")

	if w.verbose && len(report.Performance) > 0 {
		sb.WriteString("  Per-page performance:\n")
		for _, p := range report.Performance {
			sb.WriteString(fmt.Sprintf("    %3d  %s\n", p.Score, truncateString(p.URL, 60)))
		}
		sb.WriteString("\n")
	}
}

// writeSiteChecks writes the robots.txt and sitemap section.
func (w *SimpleWriter) writeSiteChecks(sb *strings.Builder, report *model.CrawlReport) {
	if report.Robots == nil && len(report.Sitemaps) == 0 && !w.showEmpty {
		return
	}

	w.sectionHeader(sb, "ROBOTS & SITEMAPS")

	if report.Robots != nil {
		if report.Robots.Found {
			sb.WriteString(fmt.Sprintf("  robots.txt: found (%d user-agent groups, %d sitemaps)\n",
				len(report.Robots.UserAgents), len(report.Robots.Sitemaps)))
			if report.Robots.DisallowAll {
				sb.WriteString("  robots.txt: WARNING - site fully blocked for crawlers\n")
			}
		} else {
			sb.WriteString("  robots.txt: not found\n")
		}
	}

	for _, sm := range report.Sitemaps {
		switch {
		case !sm.Found:
			sb.WriteString(fmt.Sprintf("  sitemap: %s - not reachable\n", truncateString(sm.URL, 55)))
		case sm.IsIndex:
			sb.WriteString(fmt.Sprintf("  sitemap: %s - index with %d children\n", truncateString(sm.URL, 55), sm.ChildCount))
		default:
			sb.WriteString(fmt.Sprintf("  sitemap: %s - %d URLs\n", truncateString(sm.URL, 55), sm.URLCount))
		}
	}
	sb.WriteString("\n")
}

// writeFindings writes all findings grouped by severity.
func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.CrawlReport) {
	w.sectionHeader(sb, "FINDINGS")

	if len(report.Issues) == 0 {
		sb.WriteString("  No findings. Nice site.\n\n")
		return
	}

	severities := []struct {
		level model.Severity
		label string
	}{
		{model.SeverityCritical, "CRITICAL"},
		{model.SeverityWarning, "WARNING"},
		{model.SeverityInfo, "INFO"},
	}

	for _, sev := range severities {
		issues := issuesBySeverity(report.Issues, sev.level)
		if len(issues) == 0 && !w.showEmpty {
			continue
		}

		sb.WriteString(fmt.Sprintf("[%s] %d finding(s)\n", sev.label, len(issues)))
		for _, issue := range issues {
			sb.WriteString(fmt.Sprintf("  - %s: %s\n", issue.Type, issue.Description))
			sb.WriteString(fmt.Sprintf("      page: %s\n", truncateString(issue.PageURL, 62)))
			if w.verbose && issue.Recommendation != "" {
				sb.WriteString(fmt.Sprintf("      fix:  %s\n", issue.Recommendation))
			}
		}
		sb.WriteString("\n")
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

func (w *SimpleWriter) sectionHeader(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// issuesBySeverity filters findings to one severity level.
func issuesBySeverity(issues []model.Issue, level model.Severity) []model.Issue {
	var out []model.Issue
	for _, issue := range issues {
		if issue.Severity == level {
			out = append(out, issue)
		}
	}
	return out
}
