package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/seoscan/seoscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeScores(md, report)
	w.writeSiteChecks(md, report)
	w.writeFindings(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with audit information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("SEO & Accessibility Audit")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Site", "`" + report.Job.SiteURL + "`"},
			{"Audit Date", report.Job.CreatedAt.Format("2006-01-02 15:04:05 MST")},
			{"Pages Crawled", strconv.Itoa(report.Job.PagesCrawled)},
			{"Pages Failed", strconv.Itoa(report.Job.PagesFailed)},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.CrawlReport) string {
	if report.Job.Error != "" {
		return "❌ Error - " + report.Job.Error
	}
	if report.Job.Status == model.JobCompleted {
		return "✅ Complete"
	}
	return string(report.Job.Status)
}

// writeSummary writes the severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Severity Summary")
	md.PlainText("")

	counts := report.Job.Counts
	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Critical", strconv.Itoa(counts.Critical)},
			{"🟡 Warning", strconv.Itoa(counts.Warning)},
			{"⚪ Info", strconv.Itoa(counts.Info)},
			{"**Total**", "**" + strconv.Itoa(counts.Total()) + "**"},
		},
	})
	md.PlainText("")

	if counts.Total() > 0 {
		w.writePieChart(md, counts)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts model.SeverityCounts) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Severity Distribution"),
		piechart.WithShowData(true),
	)

	if counts.Critical > 0 {
		chart.LabelAndIntValue("Critical", uint64(counts.Critical))
	}
	if counts.Warning > 0 {
		chart.LabelAndIntValue("Warning", uint64(counts.Warning))
	}
	if counts.Info > 0 {
		chart.LabelAndIntValue("Info", uint64(counts.Info))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.CrawlReport) {
	counts := report.Job.Counts
	switch {
	case counts.Critical > 0:
		md.Cautionf(
			"Critical issues detected! %d finding(s) block indexing or accessibility and require immediate attention.",
			counts.Critical,
		)
	case counts.Warning > 0:
		md.Warningf(
			"%d warning(s) degrade search visibility or accessibility and should be addressed.",
			counts.Warning,
		)
	case counts.Total() > 0:
		md.Note("Only informational findings detected.")
	default:
		md.Tip("No findings detected.")
	}
	md.PlainText("")
}

// writeScores writes the performance and accessibility score section.
func (w *MarkdownWriter) writeScores(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Scores")
	md.PlainText("")

	conformance := string(report.WCAG.ConformanceLevel)
	if conformance == "" {
		conformance = "none"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Performance (average)", fmt.Sprintf("%.0f / 100", report.AveragePerformance())},
			{"Accessibility score", fmt.Sprintf("%.0f / 100", report.WCAG.Score)},
			{"WCAG conformance", conformance},
		},
	})
	md.PlainText("")

	if len(report.Performance) > 0 {
		md.H3("Per-Page Performance")
		md.PlainText("")
		rows := make([][]string, len(report.Performance))
		for i, p := range report.Performance {
			rows[i] = []string{truncateString(p.URL, 60), strconv.Itoa(p.Score)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Page", "Score"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeSiteChecks writes the robots.txt and sitemap section.
func (w *MarkdownWriter) writeSiteChecks(md *markdown.Markdown, report *model.CrawlReport) {
	if report.Robots == nil && len(report.Sitemaps) == 0 {
		return
	}

	md.H2("Robots & Sitemaps")
	md.PlainText("")

	var lines []string
	if report.Robots != nil {
		if report.Robots.Found {
			lines = append(lines, fmt.Sprintf("robots.txt found with %d user-agent group(s) and %d sitemap reference(s)",
				len(report.Robots.UserAgents), len(report.Robots.Sitemaps)))
		} else {
			lines = append(lines, "robots.txt not found")
		}
	}
	for _, sm := range report.Sitemaps {
		switch {
		case !sm.Found:
			lines = append(lines, fmt.Sprintf("sitemap `%s` not reachable", sm.URL))
		case sm.IsIndex:
			lines = append(lines, fmt.Sprintf("sitemap index `%s` with %d children", sm.URL, sm.ChildCount))
		default:
			lines = append(lines, fmt.Sprintf("sitemap `%s` with %d URLs", sm.URL, sm.URLCount))
		}
	}
	md.BulletList(lines...)
	md.PlainText("")
}

// writeFindings writes all findings grouped by severity.
func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Findings")
	md.PlainText("")

	if len(report.Issues) == 0 {
		md.PlainText("No findings detected.")
		md.PlainText("")
		return
	}

	severities := []struct {
		level  model.Severity
		header string
	}{
		{model.SeverityCritical, "### 🔴 Critical"},
		{model.SeverityWarning, "### 🟡 Warning"},
		{model.SeverityInfo, "### ⚪ Info"},
	}

	for _, sev := range severities {
		issues := issuesBySeverity(report.Issues, sev.level)
		if len(issues) == 0 {
			continue
		}

		md.PlainText(sev.header)
		md.PlainText("")
		w.writeFindingsTable(md, issues)
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, issues []model.Issue) {
	headers := []string{"Type", "Page", "Recommendation"}

	rows := make([][]string, len(issues))
	for i, issue := range issues {
		rec := issue.Recommendation
		if rec == "" {
			rec = "-"
		}
		rows[i] = []string{
			issue.Type,
			truncateString(issue.PageURL, 45),
			truncateString(rec, 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")

	// Full descriptions collapse behind details blocks.
	for _, issue := range issues {
		if issue.Description != "" {
			md.Details(issue.Type+" on "+truncateString(issue.PageURL, 40), issue.Description)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [seoscan](https://github.com/seoscan/seoscan)*")
}
