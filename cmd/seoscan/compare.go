package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/database"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/spf13/cobra"
)

// Constants for health direction and summary messages.
const (
	healthDirectionWorsened  = "worsened"
	healthDirectionImproved  = "improved"
	healthDirectionUnchanged = "unchanged"
	noFindingsMessage        = "No findings"
)

// NewCompareCmd creates the compare command.
// This command compares audit results with historical data stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [site-url]",
		Short: "Compare audit results with historical data",
		Long: `Compare displays differences between the current and previous audit results.

This command retrieves historical audit data from the database and shows:
- New findings that appeared since the last audit
- Resolved findings that are no longer present
- Changes in severity counts and crawled page counts

The comparison requires at least two audits in the database for the
specified site. Use 'seoscan crawl' to run audits and save results.

Examples:
  # Compare latest two audits for a site
  seoscan compare https://www.example.com

  # List all audit history for a site
  seoscan compare --list https://www.example.com

  # Compare with a specific historical audit by job ID
  seoscan compare --with-job-id 1b0a... https://www.example.com

  # Compare with the first audit after a date
  seoscan compare --since "2026-01-01" https://www.example.com

  # Output comparison in JSON format
  seoscan compare --json https://www.example.com

  # List all audited sites in the database
  seoscan compare --list-sites`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List audit history for the specified site")
	cmd.Flags().BoolP("list-sites", "L", false,
		"List all audited sites in the database")

	// Comparison target flags
	cmd.Flags().StringP("with-job-id", "i", "",
		"Compare with a specific audit by job ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first audit after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-sites flag first (requires database but no site URL)
	listSites, err := cmd.Flags().GetBool("list-sites")
	if err != nil {
		return err
	}

	// Validate arguments before opening database (unless --list-sites).
	// This prevents database lock issues when validation fails.
	var siteURL string
	if !listSites {
		if len(args) == 0 {
			return errors.New("site URL is required (use --list-sites to see available sites)")
		}

		siteURL, err = normalizeTarget(args[0])
		if err != nil {
			return fmt.Errorf("invalid site URL: %w", err)
		}
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()
	if dir := os.Getenv("SEOSCAN_DB_DIR"); dir != "" {
		dbDir = dir
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listSites {
		return listAuditedSites(ctx, db)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listAuditHistory(ctx, db, siteURL)
	}

	// Get output format flags
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	// Get comparison target flags
	withJobID, err := cmd.Flags().GetString("with-job-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, siteURL, withJobID, sinceDate, jsonOutput, markdownOutput)
}

// listAuditedSites lists all sites that have audit records in the database.
func listAuditedSites(ctx context.Context, db *database.AuditDB) error {
	sites, err := db.ListAuditedSites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}

	if len(sites) == 0 {
		fmt.Println("No audited sites found in the database.")
		fmt.Println("\nUse 'seoscan crawl <site-url>' to audit a site.")
		return nil
	}

	fmt.Printf("Audited sites (%d):\n\n", len(sites))
	for _, site := range sites {
		fmt.Printf("  • %s\n", site)
	}
	fmt.Println("\nUse 'seoscan compare --list <site-url>' to see audit history for a site.")

	return nil
}

// listAuditHistory lists all audit records for a specific site.
func listAuditHistory(ctx context.Context, db *database.AuditDB, siteURL string) error {
	history, err := db.ReportHistory(ctx, siteURL)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if len(history) == 0 {
		fmt.Printf("No audit history found for %s\n", siteURL)
		fmt.Println("\nUse 'seoscan crawl' to audit this site.")
		return nil
	}

	fmt.Printf("Audit history for %s (%d audits):\n\n", siteURL, len(history))
	fmt.Printf("  %-38s  %-20s  %s\n", "Job ID", "Date", "Severity Summary")
	fmt.Println("  " + strings.Repeat("-", 78))

	for _, meta := range history {
		fmt.Printf("  %-38s  %-20s  %s\n",
			meta.JobID,
			meta.CreatedAt.Format("2006-01-02 15:04:05"),
			formatSeveritySummary(meta.SeveritySummary),
		)
	}

	fmt.Println("\nUse 'seoscan compare <site-url>' to compare the latest two audits.")
	fmt.Println("Use 'seoscan compare --with-job-id <id> <site-url>' to compare with a specific audit.")

	return nil
}

// formatSeveritySummary formats the severity summary map into a human-readable string.
func formatSeveritySummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary["critical"]; v > 0 {
		parts = append(parts, fmt.Sprintf("C:%d", v))
	}
	if v := summary["warning"]; v > 0 {
		parts = append(parts, fmt.Sprintf("W:%d", v))
	}
	if v := summary["info"]; v > 0 {
		parts = append(parts, fmt.Sprintf("I:%d", v))
	}

	if len(parts) == 0 {
		return noFindingsMessage
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between audit reports.
func runComparison(ctx context.Context, db *database.AuditDB, siteURL, withJobID, sinceDate string, jsonOutput, markdownOutput bool) error {
	// Get the audit history, newest first
	history, err := db.ReportHistory(ctx, siteURL)
	if err != nil {
		return fmt.Errorf("failed to get audit history: %w", err)
	}

	if len(history) == 0 {
		return fmt.Errorf("no audit history found for %s", siteURL)
	}

	if len(history) < 2 && withJobID == "" && sinceDate == "" {
		return fmt.Errorf("at least 2 audits are required for comparison (found %d)", len(history))
	}

	// Latest report is always the current one
	currentReport, err := db.GetReportByJobID(ctx, history[0].JobID)
	if err != nil {
		return fmt.Errorf("failed to load latest audit: %w", err)
	}
	if currentReport == nil {
		return fmt.Errorf("latest audit for %s not found", siteURL)
	}

	var previousReport *model.CrawlReport

	switch {
	case withJobID != "":
		previousReport, err = db.GetReportByJobID(ctx, withJobID)
		if err != nil {
			return fmt.Errorf("failed to get audit with job ID %s: %w", withJobID, err)
		}
		if previousReport == nil {
			return fmt.Errorf("audit with job ID %s not found", withJobID)
		}
		// Validate that the job belongs to the same site
		if previousReport.Job.SiteURL != siteURL {
			return fmt.Errorf("job %s belongs to %s, not %s", withJobID, previousReport.Job.SiteURL, siteURL)
		}
	case sinceDate != "":
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// History is sorted newest first, so iterate in reverse to find
		// the oldest audit at or after the date
		var match *database.ReportMetadata
		for i := len(history) - 1; i >= 0; i-- {
			meta := history[i]
			if !meta.CreatedAt.Before(parsedDate) {
				match = &history[i]
				break
			}
		}
		if match == nil {
			return fmt.Errorf("no audits found since %s", sinceDate)
		}
		if match.JobID == currentReport.Job.ID {
			return fmt.Errorf("only one audit found since %s; at least 2 audits are required for comparison", sinceDate)
		}
		previousReport, err = db.GetReportByJobID(ctx, match.JobID)
		if err != nil {
			return fmt.Errorf("failed to load audit %s: %w", match.JobID, err)
		}
	default:
		// Compare with the previous audit
		previousReport, err = db.GetReportByJobID(ctx, history[1].JobID)
		if err != nil {
			return fmt.Errorf("failed to load previous audit: %w", err)
		}
	}
	if previousReport == nil {
		return errors.New("previous audit not found")
	}

	comparison := compareReports(previousReport, currentReport)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two audit reports.
type ComparisonResult struct {
	// SiteURL is the audited site.
	SiteURL string `json:"site_url"`

	// PreviousAudit contains metadata about the previous audit.
	PreviousAudit AuditMetadata `json:"previous_audit"`

	// CurrentAudit contains metadata about the current audit.
	CurrentAudit AuditMetadata `json:"current_audit"`

	// NewFindings contains findings that are new in the current audit.
	NewFindings []model.Issue `json:"new_findings,omitempty"`

	// ResolvedFindings contains findings that were in the previous audit but not in current.
	ResolvedFindings []model.Issue `json:"resolved_findings,omitempty"`

	// UnchangedCount is the number of findings that remain unchanged.
	UnchangedCount int `json:"unchanged_count"`

	// HealthChange describes the overall change in site health.
	HealthChange HealthChange `json:"health_change"`
}

// AuditMetadata contains metadata about an audit for comparison display.
type AuditMetadata struct {
	// JobID identifies the audit job.
	JobID string `json:"job_id"`

	// Date is when the audit finished.
	Date time.Time `json:"date"`

	// PagesCrawled is the number of pages crawled in this audit.
	PagesCrawled int `json:"pages_crawled"`

	// TotalFindings is the total number of findings in this audit.
	TotalFindings int `json:"total_findings"`

	// CriticalCount is the number of critical findings.
	CriticalCount int `json:"critical_count"`

	// WarningCount is the number of warning findings.
	WarningCount int `json:"warning_count"`

	// InfoCount is the number of informational findings.
	InfoCount int `json:"info_count"`
}

// HealthChange describes the change in site health between audits.
type HealthChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// CriticalDelta is the change in critical findings count.
	CriticalDelta int `json:"critical_delta"`

	// WarningDelta is the change in warning findings count.
	WarningDelta int `json:"warning_delta"`

	// InfoDelta is the change in informational findings count.
	InfoDelta int `json:"info_delta"`

	// PagesDelta is the change in crawled page count.
	PagesDelta int `json:"pages_delta"`
}

// compareReports compares two audit reports and generates a comparison result.
func compareReports(previous, current *model.CrawlReport) *ComparisonResult {
	result := &ComparisonResult{
		SiteURL:       current.Job.SiteURL,
		PreviousAudit: auditMetadata(previous),
		CurrentAudit:  auditMetadata(current),
	}

	// Build finding maps for comparison
	previousFindings := make(map[string]model.Issue, len(previous.Issues))
	for _, issue := range previous.Issues {
		previousFindings[issueKey(issue)] = issue
	}

	currentFindings := make(map[string]model.Issue, len(current.Issues))
	for _, issue := range current.Issues {
		currentFindings[issueKey(issue)] = issue
	}

	// Find new findings (in current but not in previous)
	for key, issue := range currentFindings {
		if _, exists := previousFindings[key]; !exists {
			result.NewFindings = append(result.NewFindings, issue)
		}
	}

	// Find resolved findings (in previous but not in current)
	for key, issue := range previousFindings {
		if _, exists := currentFindings[key]; !exists {
			result.ResolvedFindings = append(result.ResolvedFindings, issue)
		} else {
			result.UnchangedCount++
		}
	}

	result.HealthChange = calculateHealthChange(result.PreviousAudit, result.CurrentAudit)

	return result
}

// auditMetadata extracts comparison metadata from a stored report.
func auditMetadata(report *model.CrawlReport) AuditMetadata {
	date := report.Job.EndedAt
	if date.IsZero() {
		date = report.Job.CreatedAt
	}
	return AuditMetadata{
		JobID:         report.Job.ID,
		Date:          date,
		PagesCrawled:  report.Job.PagesCrawled,
		TotalFindings: len(report.Issues),
		CriticalCount: report.Job.Counts.Critical,
		WarningCount:  report.Job.Counts.Warning,
		InfoCount:     report.Job.Counts.Info,
	}
}

// issueKey generates a unique key for a finding for comparison purposes.
func issueKey(issue model.Issue) string {
	return issue.Type + "|" + issue.PageURL
}

// calculateHealthChange calculates the change in site health between two audits.
func calculateHealthChange(previous, current AuditMetadata) HealthChange {
	change := HealthChange{
		CriticalDelta: current.CriticalCount - previous.CriticalCount,
		WarningDelta:  current.WarningCount - previous.WarningCount,
		InfoDelta:     current.InfoCount - previous.InfoCount,
		PagesDelta:    current.PagesCrawled - previous.PagesCrawled,
	}

	// Determine overall direction based on weighted score.
	// Critical findings dominate; info findings barely count.
	previousScore := previous.CriticalCount*100 + previous.WarningCount*10 + previous.InfoCount
	currentScore := current.CriticalCount*100 + current.WarningCount*10 + current.InfoCount

	if currentScore < previousScore {
		change.Direction = healthDirectionImproved
	} else if currentScore > previousScore {
		change.Direction = healthDirectionWorsened
	} else {
		change.Direction = healthDirectionUnchanged
	}

	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(result *ComparisonResult) error {
	fmt.Printf("# Audit Comparison: %s\n\n", result.SiteURL)

	fmt.Println("## Summary")
	fmt.Printf("\n**Health Status:** %s\n\n", formatHealthDirection(result.HealthChange.Direction))

	fmt.Println("| Metric | Previous | Current | Change |")
	fmt.Println("|--------|----------|---------|--------|")
	fmt.Printf("| Date | %s | %s | - |\n",
		result.PreviousAudit.Date.Format("2006-01-02 15:04"),
		result.CurrentAudit.Date.Format("2006-01-02 15:04"))
	fmt.Printf("| Pages | %d | %d | %s |\n",
		result.PreviousAudit.PagesCrawled,
		result.CurrentAudit.PagesCrawled,
		formatDelta(result.HealthChange.PagesDelta))
	fmt.Printf("| Critical | %d | %d | %s |\n",
		result.PreviousAudit.CriticalCount,
		result.CurrentAudit.CriticalCount,
		formatDelta(result.HealthChange.CriticalDelta))
	fmt.Printf("| Warning | %d | %d | %s |\n",
		result.PreviousAudit.WarningCount,
		result.CurrentAudit.WarningCount,
		formatDelta(result.HealthChange.WarningDelta))
	fmt.Printf("| Info | %d | %d | %s |\n",
		result.PreviousAudit.InfoCount,
		result.CurrentAudit.InfoCount,
		formatDelta(result.HealthChange.InfoDelta))
	fmt.Printf("| **Total** | **%d** | **%d** | **%s** |\n",
		result.PreviousAudit.TotalFindings,
		result.CurrentAudit.TotalFindings,
		formatDelta(result.CurrentAudit.TotalFindings-result.PreviousAudit.TotalFindings))

	if len(result.NewFindings) > 0 {
		fmt.Printf("\n## New Findings (%d)\n\n", len(result.NewFindings))
		for _, issue := range result.NewFindings {
			fmt.Printf("- **[%s]** %s: %s\n",
				strings.ToUpper(issue.Severity.String()), issue.Type, issue.Description)
			if issue.PageURL != "" {
				fmt.Printf("  - Page: `%s`\n", issue.PageURL)
			}
		}
	}

	if len(result.ResolvedFindings) > 0 {
		fmt.Printf("\n## Resolved Findings (%d)\n\n", len(result.ResolvedFindings))
		for _, issue := range result.ResolvedFindings {
			fmt.Printf("- ~~**[%s]** %s: %s~~\n",
				strings.ToUpper(issue.Severity.String()), issue.Type, issue.Description)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\n---\n\n*%d findings unchanged*\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Audit Comparison: %s\n", result.SiteURL)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nHealth Status: %s\n", formatHealthDirection(result.HealthChange.Direction))

	fmt.Printf("\nPrevious audit: %s (job %s)\n",
		result.PreviousAudit.Date.Format("2006-01-02 15:04:05"), result.PreviousAudit.JobID)
	fmt.Printf("Current audit:  %s (job %s)\n",
		result.CurrentAudit.Date.Format("2006-01-02 15:04:05"), result.CurrentAudit.JobID)

	fmt.Println("\nFindings Summary:")
	fmt.Printf("  %-10s  %-10s  %-10s  %-10s\n", "Severity", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Critical",
		result.PreviousAudit.CriticalCount, result.CurrentAudit.CriticalCount,
		formatDelta(result.HealthChange.CriticalDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Warning",
		result.PreviousAudit.WarningCount, result.CurrentAudit.WarningCount,
		formatDelta(result.HealthChange.WarningDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Info",
		result.PreviousAudit.InfoCount, result.CurrentAudit.InfoCount,
		formatDelta(result.HealthChange.InfoDelta))
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.PreviousAudit.TotalFindings, result.CurrentAudit.TotalFindings,
		formatDelta(result.CurrentAudit.TotalFindings-result.PreviousAudit.TotalFindings))

	fmt.Printf("\nPages crawled: %d -> %d (%s)\n",
		result.PreviousAudit.PagesCrawled, result.CurrentAudit.PagesCrawled,
		formatDelta(result.HealthChange.PagesDelta))

	if len(result.NewFindings) > 0 {
		fmt.Printf("\nNew Findings (%d):\n", len(result.NewFindings))
		for _, issue := range result.NewFindings {
			fmt.Printf("  [+] [%s] %s: %s\n",
				strings.ToUpper(issue.Severity.String()), issue.Type, issue.Description)
			if issue.PageURL != "" {
				fmt.Printf("      Page: %s\n", issue.PageURL)
			}
		}
	}

	if len(result.ResolvedFindings) > 0 {
		fmt.Printf("\nResolved Findings (%d):\n", len(result.ResolvedFindings))
		for _, issue := range result.ResolvedFindings {
			fmt.Printf("  [-] [%s] %s: %s\n",
				strings.ToUpper(issue.Severity.String()), issue.Type, issue.Description)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d findings\n", result.UnchangedCount)
	}

	return nil
}

// formatHealthDirection formats the health change direction for display.
func formatHealthDirection(direction string) string {
	switch direction {
	case healthDirectionImproved:
		return "IMPROVED (fewer problems)"
	case healthDirectionWorsened:
		return "WORSENED (more problems)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
