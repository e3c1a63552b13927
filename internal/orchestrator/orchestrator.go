package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/database"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/pipeline"
)

// pageBatchSize is how many page records accumulate before they are
// flushed to the database mid-crawl. Batching keeps a long crawl's
// progress durable without one transaction per page.
const pageBatchSize = 10

// Orchestrator runs audits: it owns the job lifecycle, delegates the
// crawl to a Runner, feeds the result through the analysis pipeline,
// and persists everything when a database is configured.
type Orchestrator struct {
	cfg    *config.Config
	runner Runner
	db     *database.AuditDB
	logger *slog.Logger
	steps  []pipeline.Step
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithRunner replaces the crawl runner. The default re-execs the
// binary; tests inject an in-process fake here.
func WithRunner(runner Runner) OrchestratorOption {
	return func(o *Orchestrator) {
		o.runner = runner
	}
}

// WithDatabase enables persistence of jobs, pages, issues, and reports.
// Without it, audits run in memory only.
func WithDatabase(db *database.AuditDB) OrchestratorOption {
	return func(o *Orchestrator) {
		o.db = db
	}
}

// WithOrchestratorLogger sets the logger for job lifecycle events.
func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithSteps replaces the analysis pipeline steps.
func WithSteps(steps []pipeline.Step) OrchestratorOption {
	return func(o *Orchestrator) {
		o.steps = steps
	}
}

// New creates an Orchestrator for the given config.
func New(cfg *config.Config, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{cfg: cfg}
	for _, opt := range opts {
		opt(o)
	}
	if o.runner == nil {
		o.runner = NewSubprocessRunner(cfg)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.steps == nil {
		o.steps = pipeline.DefaultSteps(nil, o.logger)
	}
	return o
}

// Audit runs one complete audit for a site: crawl, analysis, scoring,
// persistence. The returned report is complete even when persistence is
// disabled.
//
// Only one job per site may be active at a time; starting a second one
// returns an error before anything is crawled.
func (o *Orchestrator) Audit(ctx context.Context, siteURL string) (*model.CrawlReport, error) {
	job := &model.CrawlJob{
		ID:        uuid.NewString(),
		SiteURL:   siteURL,
		Status:    model.JobPending,
		CreatedAt: time.Now().UTC(),
	}

	if o.db != nil {
		active, err := o.db.ActiveJobForSite(ctx, siteURL)
		if err != nil {
			return nil, fmt.Errorf("failed to check active jobs: %w", err)
		}
		if active != nil {
			return nil, fmt.Errorf("site %s already has active job %s", siteURL, active.ID)
		}
		if err := o.db.InsertJob(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to create job: %w", err)
		}
	}

	o.logger.Info("audit started", "job", job.ID, "site", siteURL)

	if err := job.Transition(model.JobRunning); err != nil {
		return nil, err
	}
	o.updateJob(ctx, job)

	pages, err := o.crawl(ctx, job, siteURL)
	if err != nil {
		return nil, o.failJob(ctx, job, err)
	}
	if len(pages) == 0 {
		return nil, o.failJob(ctx, job, fmt.Errorf("crawl produced no pages for %s", siteURL))
	}

	report := &model.CrawlReport{
		Job:   *job,
		Pages: pages,
	}

	p := pipeline.New(
		pipeline.WithLogger(o.logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddSteps(o.steps...)
	if err := p.Execute(ctx, report); err != nil {
		return nil, o.failJob(ctx, job, err)
	}

	*job = report.Job
	if err := job.Transition(model.JobCompleted); err != nil {
		return nil, err
	}
	report.Job = *job

	if o.db != nil {
		if err := o.persist(ctx, report); err != nil {
			return report, fmt.Errorf("audit finished but persistence failed: %w", err)
		}
	}

	o.logger.Info("audit completed",
		"job", job.ID,
		"site", siteURL,
		"pages", job.PagesCrawled,
		"critical", job.Counts.Critical,
		"warning", job.Counts.Warning,
		"info", job.Counts.Info,
		"duration", job.Duration(),
	)
	return report, nil
}

// crawl runs the Runner under the fetch timeout, collecting every page
// and flushing batches to the database as they arrive.
func (o *Orchestrator) crawl(ctx context.Context, job *model.CrawlJob, siteURL string) ([]model.PageRecord, error) {
	crawlCtx, cancel := context.WithTimeout(ctx, o.cfg.FetchTimeout)
	defer cancel()

	var pages []model.PageRecord
	unsaved := 0

	emit := func(page model.PageRecord) error {
		pages = append(pages, page)
		unsaved++
		if o.db != nil && unsaved >= pageBatchSize {
			batch := pages[len(pages)-unsaved:]
			if err := o.db.InsertPages(ctx, job.ID, batch); err != nil {
				// A failed flush must not kill the crawl. The records stay
				// in memory and ride along with the next batch; InsertPages
				// upserts, so the retry is harmless.
				o.logger.Error("failed to persist page batch",
					"job", job.ID, "pages", len(batch), "error", err)
				return nil
			}
			unsaved = 0
		}
		return nil
	}

	if err := o.runner.Run(crawlCtx, siteURL, emit); err != nil {
		// Pages already streamed stay persisted; the job fails but the
		// partial crawl remains inspectable.
		return nil, err
	}

	if o.db != nil && unsaved > 0 {
		batch := pages[len(pages)-unsaved:]
		if err := o.db.InsertPages(ctx, job.ID, batch); err != nil {
			o.logger.Error("failed to persist final page batch",
				"job", job.ID, "pages", len(batch), "error", err)
		}
	}
	return pages, nil
}

// persist stores the finished audit: issues, recomputed counters, the
// job row, and the full report.
func (o *Orchestrator) persist(ctx context.Context, report *model.CrawlReport) error {
	jobID := report.Job.ID

	if err := o.db.InsertIssues(ctx, jobID, report.Issues); err != nil {
		return err
	}
	counts, err := o.db.RecomputeSeverityCounters(ctx, jobID)
	if err != nil {
		return err
	}
	report.Job.Counts = counts

	if err := o.db.UpdateJob(ctx, &report.Job); err != nil {
		return err
	}
	return o.db.SaveReport(ctx, report)
}

// failJob marks the job failed, persists the state, and returns the
// original error wrapped with the job ID.
func (o *Orchestrator) failJob(ctx context.Context, job *model.CrawlJob, cause error) error {
	if err := job.Fail(cause.Error()); err != nil {
		o.logger.Error("failed to mark job failed", "job", job.ID, "error", err)
	}
	o.updateJob(ctx, job)
	o.logger.Error("audit failed", "job", job.ID, "site", job.SiteURL, "error", cause)
	return fmt.Errorf("job %s: %w", job.ID, cause)
}

// updateJob persists job state, logging instead of failing when the
// database write goes wrong; lifecycle accounting must not mask the
// real error.
func (o *Orchestrator) updateJob(ctx context.Context, job *model.CrawlJob) {
	if o.db == nil {
		return
	}
	if err := o.db.UpdateJob(ctx, job); err != nil {
		o.logger.Error("failed to persist job state", "job", job.ID, "error", err)
	}
}
