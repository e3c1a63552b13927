package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/seoscan/seoscan/internal/model"
)

// AuditDB provides SQLite-based storage for audit jobs, crawled pages,
// findings, and complete reports.
//
// Design decision: We use a single database file for all sites rather
// than one file per site. This simplifies history queries across sites,
// retention cleanup, and backup/restore operations.
type AuditDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures AuditDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates an AuditDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*AuditDB, error) {
	dbPath := filepath.Join(dbDir, "seoscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to refuse creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; readers go through the same
	// connection to keep transaction semantics simple.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &AuditDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (adb *AuditDB) Close() error {
	return adb.db.Close()
}

// HealthCheck verifies the database is reachable and the schema is usable.
func (adb *AuditDB) HealthCheck(ctx context.Context) error {
	if err := adb.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	var count int
	if err := adb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM crawl_jobs").Scan(&count); err != nil {
		return fmt.Errorf("schema check failed: %w", err)
	}
	return nil
}

// createTables creates the database schema if it doesn't exist.
func (adb *AuditDB) createTables() error {
	schema := `
	-- Jobs track one audit run per row
	CREATE TABLE IF NOT EXISTS crawl_jobs (
		id TEXT PRIMARY KEY,
		site_url TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		started_at DATETIME,
		ended_at DATETIME,
		error TEXT,
		pages_crawled INTEGER DEFAULT 0,
		pages_failed INTEGER DEFAULT 0,
		critical_count INTEGER DEFAULT 0,
		warning_count INTEGER DEFAULT 0,
		info_count INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_site ON crawl_jobs(site_url);
	CREATE INDEX IF NOT EXISTS idx_jobs_status ON crawl_jobs(status);
	CREATE INDEX IF NOT EXISTS idx_jobs_created ON crawl_jobs(created_at);

	-- Pages store every fetched page of a job, full record as JSON plus
	-- the columns queries filter on
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL REFERENCES crawl_jobs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		status_code INTEGER,
		response_time REAL,
		record_json TEXT NOT NULL,
		UNIQUE(job_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_job ON pages(job_id);

	-- Issues store per-finding rows so severity counters and category
	-- breakdowns are one GROUP BY away
	CREATE TABLE IF NOT EXISTS issues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL REFERENCES crawl_jobs(id) ON DELETE CASCADE,
		page_url TEXT NOT NULL,
		severity TEXT NOT NULL,
		category TEXT NOT NULL,
		type TEXT NOT NULL,
		description TEXT,
		recommendation TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_issues_job ON issues(job_id);
	CREATE INDEX IF NOT EXISTS idx_issues_severity ON issues(job_id, severity);

	-- Reports keep the complete audit output as JSON for history and
	-- comparison between runs
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT NOT NULL UNIQUE REFERENCES crawl_jobs(id) ON DELETE CASCADE,
		site_url TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		severity_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_reports_site ON reports(site_url);
	CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at);

	PRAGMA foreign_keys = ON;
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertJob stores a new audit job.
func (adb *AuditDB) InsertJob(ctx context.Context, job *model.CrawlJob) error {
	query := `
	INSERT INTO crawl_jobs (id, site_url, status, created_at, pages_crawled, pages_failed)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := adb.db.ExecContext(ctx, query,
		job.ID,
		job.SiteURL,
		string(job.Status),
		job.CreatedAt.UTC().Format(time.RFC3339),
		job.PagesCrawled,
		job.PagesFailed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// UpdateJob persists the mutable fields of a job: status, timestamps,
// error, page counters, and severity counters.
func (adb *AuditDB) UpdateJob(ctx context.Context, job *model.CrawlJob) error {
	query := `
	UPDATE crawl_jobs SET
		status = ?,
		started_at = ?,
		ended_at = ?,
		error = ?,
		pages_crawled = ?,
		pages_failed = ?,
		critical_count = ?,
		warning_count = ?,
		info_count = ?
	WHERE id = ?
	`
	result, err := adb.db.ExecContext(ctx, query,
		string(job.Status),
		nullableTime(job.StartedAt),
		nullableTime(job.EndedAt),
		job.Error,
		job.PagesCrawled,
		job.PagesFailed,
		job.Counts.Critical,
		job.Counts.Warning,
		job.Counts.Info,
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("job %s not found", job.ID)
	}
	return nil
}

// GetJob retrieves a job by ID. Returns nil without error when the job
// does not exist.
func (adb *AuditDB) GetJob(ctx context.Context, id string) (*model.CrawlJob, error) {
	query := `
	SELECT id, site_url, status, created_at, started_at, ended_at, error,
	       pages_crawled, pages_failed, critical_count, warning_count, info_count
	FROM crawl_jobs
	WHERE id = ?
	`
	return adb.scanJob(adb.db.QueryRowContext(ctx, query, id))
}

// ActiveJobForSite returns the pending or running job for a site, if one
// exists. At most one job per site may be active at a time; the caller
// checks this before starting a new run.
func (adb *AuditDB) ActiveJobForSite(ctx context.Context, siteURL string) (*model.CrawlJob, error) {
	query := `
	SELECT id, site_url, status, created_at, started_at, ended_at, error,
	       pages_crawled, pages_failed, critical_count, warning_count, info_count
	FROM crawl_jobs
	WHERE site_url = ? AND status IN ('pending', 'running')
	ORDER BY created_at DESC
	LIMIT 1
	`
	return adb.scanJob(adb.db.QueryRowContext(ctx, query, siteURL))
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (adb *AuditDB) scanJob(row rowScanner) (*model.CrawlJob, error) {
	var job model.CrawlJob
	var status string
	var createdAt string
	var startedAt, endedAt, jobErr sql.NullString

	err := row.Scan(
		&job.ID,
		&job.SiteURL,
		&status,
		&createdAt,
		&startedAt,
		&endedAt,
		&jobErr,
		&job.PagesCrawled,
		&job.PagesFailed,
		&job.Counts.Critical,
		&job.Counts.Warning,
		&job.Counts.Info,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}

	job.Status = model.JobStatus(status)
	job.CreatedAt = parseTimestamp(createdAt)
	if startedAt.Valid {
		job.StartedAt = parseTimestamp(startedAt.String)
	}
	if endedAt.Valid {
		job.EndedAt = parseTimestamp(endedAt.String)
	}
	if jobErr.Valid {
		job.Error = jobErr.String
	}
	return &job, nil
}

// InsertPages stores a batch of page records for a job in one transaction.
// Re-inserting a URL already stored for the job replaces the old row, so
// batched persistence during a crawl stays idempotent.
func (adb *AuditDB) InsertPages(ctx context.Context, jobID string, pages []model.PageRecord) error {
	if len(pages) == 0 {
		return nil
	}

	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	query := `
	INSERT INTO pages (job_id, url, status_code, response_time, record_json)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(job_id, url) DO UPDATE SET
		status_code = excluded.status_code,
		response_time = excluded.response_time,
		record_json = excluded.record_json
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare page insert: %w", err)
	}
	defer stmt.Close()

	for i := range pages {
		page := &pages[i]
		recordJSON, err := json.Marshal(page)
		if err != nil {
			return fmt.Errorf("failed to serialize page %s: %w", page.URL, err)
		}
		if _, err := stmt.ExecContext(ctx, jobID, page.URL, page.StatusCode, page.ResponseTime, string(recordJSON)); err != nil {
			return fmt.Errorf("failed to insert page %s: %w", page.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit page batch: %w", err)
	}
	return nil
}

// PagesForJob retrieves every stored page record of a job in insertion order.
func (adb *AuditDB) PagesForJob(ctx context.Context, jobID string) ([]model.PageRecord, error) {
	query := `SELECT record_json FROM pages WHERE job_id = ? ORDER BY id`

	rows, err := adb.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []model.PageRecord
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		var page model.PageRecord
		if err := json.Unmarshal([]byte(recordJSON), &page); err != nil {
			return nil, fmt.Errorf("failed to parse page record: %w", err)
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// InsertIssues stores a batch of findings for a job in one transaction.
func (adb *AuditDB) InsertIssues(ctx context.Context, jobID string, issues []model.Issue) error {
	if len(issues) == 0 {
		return nil
	}

	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	query := `
	INSERT INTO issues (job_id, page_url, severity, category, type, description, recommendation)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare issue insert: %w", err)
	}
	defer stmt.Close()

	for _, issue := range issues {
		if _, err := stmt.ExecContext(ctx,
			jobID,
			issue.PageURL,
			issue.Severity.String(),
			string(issue.Category),
			issue.Type,
			issue.Description,
			issue.Recommendation,
		); err != nil {
			return fmt.Errorf("failed to insert issue %s: %w", issue.Type, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit issue batch: %w", err)
	}
	return nil
}

// IssuesForJob retrieves every stored finding of a job.
// Severity, category, and recommendation are restored from the issue
// type mapping where possible so the rows round-trip losslessly.
func (adb *AuditDB) IssuesForJob(ctx context.Context, jobID string) ([]model.Issue, error) {
	query := `
	SELECT page_url, severity, category, type, description, recommendation
	FROM issues
	WHERE job_id = ?
	ORDER BY id
	`

	rows, err := adb.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer rows.Close()

	var issues []model.Issue
	for rows.Next() {
		var issue model.Issue
		var severity, category string
		if err := rows.Scan(&issue.PageURL, &severity, &category, &issue.Type, &issue.Description, &issue.Recommendation); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		parsed, err := model.ParseSeverity(severity)
		if err != nil {
			return nil, fmt.Errorf("job %s has invalid issue row: %w", jobID, err)
		}
		issue.Severity = parsed
		issue.Category = model.Category(category)
		issue.WCAG = model.GetIssueInfo(issue.Type).WCAG
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}

// RecomputeSeverityCounters recounts the stored findings of a job and
// writes the totals back to the job row. Called after the final issue
// batch so the counters never drift from the issue rows.
func (adb *AuditDB) RecomputeSeverityCounters(ctx context.Context, jobID string) (model.SeverityCounts, error) {
	query := `SELECT severity, COUNT(*) FROM issues WHERE job_id = ? GROUP BY severity`

	rows, err := adb.db.QueryContext(ctx, query, jobID)
	if err != nil {
		return model.SeverityCounts{}, fmt.Errorf("failed to count issues: %w", err)
	}
	defer rows.Close()

	var counts model.SeverityCounts
	for rows.Next() {
		var severity string
		var n int
		if err := rows.Scan(&severity, &n); err != nil {
			return model.SeverityCounts{}, fmt.Errorf("failed to scan severity count: %w", err)
		}
		switch severity {
		case "critical":
			counts.Critical = n
		case "warning":
			counts.Warning = n
		case "info":
			counts.Info = n
		}
	}
	if err := rows.Err(); err != nil {
		return model.SeverityCounts{}, err
	}

	update := `UPDATE crawl_jobs SET critical_count = ?, warning_count = ?, info_count = ? WHERE id = ?`
	if _, err := adb.db.ExecContext(ctx, update, counts.Critical, counts.Warning, counts.Info, jobID); err != nil {
		return model.SeverityCounts{}, fmt.Errorf("failed to update severity counters: %w", err)
	}
	return counts, nil
}

// SaveReport saves a complete audit report as JSON alongside a severity
// summary used by the history listing.
func (adb *AuditDB) SaveReport(ctx context.Context, report *model.CrawlReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	summary := map[string]int{
		"critical": report.Job.Counts.Critical,
		"warning":  report.Job.Counts.Warning,
		"info":     report.Job.Counts.Info,
	}
	summaryJSON, _ := json.Marshal(summary) //nolint:errcheck,errchkjson // simple map; Marshal won't fail

	query := `
	INSERT INTO reports (job_id, site_url, created_at, report_json, severity_summary)
	VALUES (?, ?, ?, ?, ?)
	`
	_, err = adb.db.ExecContext(ctx, query,
		report.Job.ID,
		report.Job.SiteURL,
		time.Now().UTC().Format(time.RFC3339),
		string(reportJSON),
		string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LatestReportForSite retrieves the most recent report for a site.
// Returns nil without error when the site was never audited.
func (adb *AuditDB) LatestReportForSite(ctx context.Context, siteURL string) (*model.CrawlReport, error) {
	query := `
	SELECT report_json FROM reports
	WHERE site_url = ?
	ORDER BY created_at DESC, id DESC
	LIMIT 1
	`
	return adb.scanReport(adb.db.QueryRowContext(ctx, query, siteURL))
}

// GetReportByJobID retrieves the report of a specific job.
func (adb *AuditDB) GetReportByJobID(ctx context.Context, jobID string) (*model.CrawlReport, error) {
	query := `SELECT report_json FROM reports WHERE job_id = ?`
	return adb.scanReport(adb.db.QueryRowContext(ctx, query, jobID))
}

func (adb *AuditDB) scanReport(row rowScanner) (*model.CrawlReport, error) {
	var reportJSON string
	err := row.Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.CrawlReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// ReportMetadata summarizes one stored report for history listings
// without loading the full JSON.
type ReportMetadata struct {
	// ID is the report row ID.
	ID int64

	// JobID is the audit job the report belongs to.
	JobID string

	// SiteURL is the audited site.
	SiteURL string

	// CreatedAt is when the report was stored.
	CreatedAt time.Time

	// SeveritySummary holds finding counts keyed by severity name.
	SeveritySummary map[string]int
}

// ReportHistory lists stored reports for a site, newest first.
func (adb *AuditDB) ReportHistory(ctx context.Context, siteURL string) ([]ReportMetadata, error) {
	query := `
	SELECT id, job_id, site_url, created_at, severity_summary
	FROM reports
	WHERE site_url = ?
	ORDER BY created_at DESC, id DESC
	`

	rows, err := adb.db.QueryContext(ctx, query, siteURL)
	if err != nil {
		return nil, fmt.Errorf("failed to query report history: %w", err)
	}
	defer rows.Close()

	var results []ReportMetadata
	for rows.Next() {
		var meta ReportMetadata
		var createdAt string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.JobID, &meta.SiteURL, &createdAt, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report metadata: %w", err)
		}
		meta.CreatedAt = parseTimestamp(createdAt)
		meta.SeveritySummary = make(map[string]int)
		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.SeveritySummary); err != nil {
				meta.SeveritySummary = make(map[string]int)
			}
		}
		results = append(results, meta)
	}
	return results, rows.Err()
}

// ListAuditedSites returns every site that has at least one stored report.
func (adb *AuditDB) ListAuditedSites(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT site_url FROM reports ORDER BY site_url`

	rows, err := adb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []string
	for rows.Next() {
		var site string
		if err := rows.Scan(&site); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// CleanupOldJobs deletes jobs older than the retention window along with
// their pages, issues, and reports. Returns the number of jobs removed.
//
// Design decision: We delete the dependent rows explicitly instead of
// relying on ON DELETE CASCADE because the foreign_keys pragma is
// per-connection in SQLite and a pooled connection may not have it set.
func (adb *AuditDB) CleanupOldJobs(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention).Format(time.RFC3339)

	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	old := `SELECT id FROM crawl_jobs WHERE created_at < ?`
	for _, q := range []string{
		`DELETE FROM pages WHERE job_id IN (` + old + `)`,
		`DELETE FROM issues WHERE job_id IN (` + old + `)`,
		`DELETE FROM reports WHERE job_id IN (` + old + `)`,
	} {
		if _, err := tx.ExecContext(ctx, q, cutoff); err != nil {
			return 0, fmt.Errorf("failed to delete dependent rows: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM crawl_jobs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old jobs: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check cleanup result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit cleanup: %w", err)
	}
	return removed, nil
}

// nullableTime formats a time for storage, mapping the zero value to NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339,              // how this package writes timestamps
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
