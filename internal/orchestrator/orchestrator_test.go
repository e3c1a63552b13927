package orchestrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/crawler"
	"github.com/seoscan/seoscan/internal/database"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/pipeline"
)

// fakeRunner emits a fixed set of page records, optionally failing
// after a prefix of them.
type fakeRunner struct {
	pages    []model.PageRecord
	failWith error
}

func (r *fakeRunner) Run(_ context.Context, _ string, emit crawler.EmitFunc) error {
	for _, page := range r.pages {
		if err := emit(page); err != nil {
			return err
		}
	}
	return r.failWith
}

func htmlPage(path string, n int) model.PageRecord {
	return model.PageRecord{
		URL:          "https://example.com" + path,
		StatusCode:   200,
		ContentType:  "text/html",
		Title:        fmt.Sprintf("Page %d title, long enough to pass the length rules", n),
		ResponseTime: 0.1,
	}
}

func newTestOrchestrator(t *testing.T, runner Runner) (*Orchestrator, *database.AuditDB) {
	t.Helper()
	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.NewConfig()
	o := New(cfg, WithRunner(runner), WithDatabase(db), WithSteps(offlineSteps()))
	return o, db
}

// offlineSteps is the default pipeline minus the robots/sitemap step,
// which would reach out to the real site.
func offlineSteps() []pipeline.Step {
	return []pipeline.Step{
		pipeline.NewAnalyzePagesStep(nil),
		pipeline.NewSiteAnalysisStep(),
		pipeline.NewScoreStep(),
		pipeline.NewFinalizeStep(),
	}
}

func TestAuditSuccess(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{pages: []model.PageRecord{
		htmlPage("/", 1),
		htmlPage("/about", 2),
	}}
	o, db := newTestOrchestrator(t, runner)
	ctx := context.Background()

	report, err := o.Audit(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}

	if report.Job.Status != model.JobCompleted {
		t.Errorf("job status = %q, want completed", report.Job.Status)
	}
	if report.Job.PagesCrawled != 2 {
		t.Errorf("PagesCrawled = %d, want 2", report.Job.PagesCrawled)
	}
	if len(report.Issues) == 0 {
		t.Error("no findings; pages without meta descriptions must produce some")
	}
	if len(report.Performance) != 2 {
		t.Errorf("got %d performance scores, want 2", len(report.Performance))
	}

	// Everything must be in the database too.
	stored, err := db.GetJob(ctx, report.Job.ID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if stored == nil || stored.Status != model.JobCompleted {
		t.Fatalf("stored job = %+v, want completed", stored)
	}
	if stored.Counts != report.Job.Counts {
		t.Errorf("stored counts = %+v, report counts = %+v", stored.Counts, report.Job.Counts)
	}

	pages, err := db.PagesForJob(ctx, report.Job.ID)
	if err != nil {
		t.Fatalf("PagesForJob() error = %v", err)
	}
	if len(pages) != 2 {
		t.Errorf("stored pages = %d, want 2", len(pages))
	}

	saved, err := db.GetReportByJobID(ctx, report.Job.ID)
	if err != nil {
		t.Fatalf("GetReportByJobID() error = %v", err)
	}
	if saved == nil {
		t.Fatal("report was not saved")
	}
}

func TestAuditWithoutDatabase(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{pages: []model.PageRecord{htmlPage("/", 1)}}
	o := New(config.NewConfig(), WithRunner(runner), WithSteps(offlineSteps()))

	report, err := o.Audit(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if report.Job.Status != model.JobCompleted {
		t.Errorf("job status = %q, want completed", report.Job.Status)
	}
}

func TestAuditRunnerFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		pages:    []model.PageRecord{htmlPage("/", 1)},
		failWith: errors.New("fetch process exited with code 2"),
	}
	o, db := newTestOrchestrator(t, runner)
	ctx := context.Background()

	_, err := o.Audit(ctx, "https://example.com")
	if err == nil {
		t.Fatal("Audit() succeeded, want error")
	}

	// The one job row must be failed with the cause recorded.
	active, err := db.ActiveJobForSite(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("ActiveJobForSite() error = %v", err)
	}
	if active != nil {
		t.Errorf("job still active after failure: %+v", active)
	}
}

func TestAuditEmptyCrawlFails(t *testing.T) {
	t.Parallel()

	o, _ := newTestOrchestrator(t, &fakeRunner{})
	_, err := o.Audit(context.Background(), "https://example.com")
	if err == nil {
		t.Fatal("Audit() with zero pages succeeded, want error")
	}
	if !strings.Contains(err.Error(), "no pages") {
		t.Errorf("error = %v, want mention of empty crawl", err)
	}
}

func TestAuditRejectsConcurrentJob(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{pages: []model.PageRecord{htmlPage("/", 1)}}
	o, db := newTestOrchestrator(t, runner)
	ctx := context.Background()

	// Simulate an audit already underway.
	existing := &model.CrawlJob{ID: "job-running", SiteURL: "https://example.com", Status: model.JobRunning}
	if err := db.InsertJob(ctx, existing); err != nil {
		t.Fatalf("InsertJob() error = %v", err)
	}

	_, err := o.Audit(ctx, "https://example.com")
	if err == nil {
		t.Fatal("Audit() succeeded with an active job, want error")
	}
	if !strings.Contains(err.Error(), "active job") {
		t.Errorf("error = %v, want active job rejection", err)
	}
}

func TestAuditPersistsBatchesDuringCrawl(t *testing.T) {
	t.Parallel()

	// More pages than one batch so the mid-crawl flush path runs.
	var pages []model.PageRecord
	for i := 0; i < 23; i++ {
		pages = append(pages, htmlPage(fmt.Sprintf("/page-%d", i), i))
	}
	o, db := newTestOrchestrator(t, &fakeRunner{pages: pages})
	ctx := context.Background()

	report, err := o.Audit(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}

	stored, err := db.PagesForJob(ctx, report.Job.ID)
	if err != nil {
		t.Fatalf("PagesForJob() error = %v", err)
	}
	if len(stored) != 23 {
		t.Errorf("stored pages = %d, want 23", len(stored))
	}
}

// A failing page flush must not abort the crawl: the audit completes,
// with the records kept in memory and the failures only logged.
func TestAuditSurvivesPagePersistenceFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	db, err := database.Open(dir, database.DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	// Break page writes only; job, issue, and report writes keep working.
	raw, err := sql.Open("sqlite", filepath.Join(dir, "seoscan.db"))
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	if _, err := raw.Exec("DROP TABLE pages"); err != nil {
		t.Fatalf("dropping pages table: %v", err)
	}
	if err := raw.Close(); err != nil {
		t.Fatalf("closing raw connection: %v", err)
	}

	var pages []model.PageRecord
	for i := 0; i < 23; i++ {
		pages = append(pages, htmlPage(fmt.Sprintf("/page-%d", i), i))
	}
	o := New(config.NewConfig(),
		WithRunner(&fakeRunner{pages: pages}),
		WithDatabase(db),
		WithSteps(offlineSteps()),
	)

	report, err := o.Audit(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("Audit() error = %v, want success despite page write failures", err)
	}
	if report.Job.Status != model.JobCompleted {
		t.Errorf("job status = %q, want completed", report.Job.Status)
	}
	if len(report.Pages) != 23 {
		t.Errorf("report pages = %d, want all 23 kept in memory", len(report.Pages))
	}
}

func TestFetchArgs(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.MaxPages = 50
	cfg.IgnoreRobots = true
	cfg.FollowExternal = true
	cfg.ExcludePatterns = []string{"/admin/*"}
	cfg.ConfigFilePath = "/tmp/seoscan.yml"

	r := NewSubprocessRunner(cfg)
	args := r.fetchArgs("https://example.com")

	if args[0] != "fetch" || args[1] != "https://example.com" {
		t.Fatalf("args start = %v, want fetch subcommand and site", args[:2])
	}
	joined := strings.Join(args, " ")
	for _, want := range []string{
		"--max-pages 50",
		"--ignore-robots",
		"--follow-external",
		"--exclude /admin/*",
		"--config /tmp/seoscan.yml",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}
}
