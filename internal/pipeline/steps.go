package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/seoscan/seoscan/internal/analyzer"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/sitecheck"
)

// AnalyzePagesStep runs the per-page rule engine over every crawled page
// and appends the findings to the report.
//
// Design decision: Page analysis is one step for all rule families
// rather than one step per family because the analyzer already owns
// rule ordering, and splitting it here would duplicate that ordering
// in the pipeline wiring.
type AnalyzePagesStep struct {
	analyzer *analyzer.Analyzer
	logger   *slog.Logger
}

// NewAnalyzePagesStep creates the page analysis step.
func NewAnalyzePagesStep(logger *slog.Logger) *AnalyzePagesStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzePagesStep{
		analyzer: analyzer.New(),
		logger:   logger,
	}
}

// Name returns the step name.
func (s *AnalyzePagesStep) Name() string {
	return "analyze_pages"
}

// Do executes the page analysis step.
func (s *AnalyzePagesStep) Do(ctx context.Context, report *model.CrawlReport) error {
	for i := range report.Pages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		issues := s.analyzer.AnalyzePage(&report.Pages[i])
		report.Issues = append(report.Issues, issues...)
	}

	s.logger.Debug("page analysis complete",
		"pages", len(report.Pages),
		"findings", len(report.Issues),
	)
	return nil
}

// SiteAnalysisStep runs the cross-page checks: duplicate content
// detection and the accessibility compliance pages required for
// German-market sites.
type SiteAnalysisStep struct {
	analyzer *analyzer.Analyzer
}

// NewSiteAnalysisStep creates the site-wide analysis step.
func NewSiteAnalysisStep() *SiteAnalysisStep {
	return &SiteAnalysisStep{analyzer: analyzer.New()}
}

// Name returns the step name.
func (s *SiteAnalysisStep) Name() string {
	return "analyze_site"
}

// Do executes the site-wide analysis step.
func (s *SiteAnalysisStep) Do(_ context.Context, report *model.CrawlReport) error {
	issues := s.analyzer.AnalyzeSite(report.Job.SiteURL, report.Pages)
	report.Issues = append(report.Issues, issues...)
	return nil
}

// SiteCheckStep fetches and analyzes robots.txt and the sitemaps it
// advertises, attaching the results and their findings to the report.
type SiteCheckStep struct {
	checker *sitecheck.Checker
	logger  *slog.Logger
}

// NewSiteCheckStep creates the robots and sitemap step.
// A nil checker gets a default one with a standalone HTTP client.
func NewSiteCheckStep(checker *sitecheck.Checker, logger *slog.Logger) *SiteCheckStep {
	if checker == nil {
		checker = sitecheck.NewChecker(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SiteCheckStep{checker: checker, logger: logger}
}

// Name returns the step name.
func (s *SiteCheckStep) Name() string {
	return "site_check"
}

// Do executes the robots and sitemap checks.
func (s *SiteCheckStep) Do(ctx context.Context, report *model.CrawlReport) error {
	robots, sitemaps, err := s.checker.Check(ctx, report.Job.SiteURL)
	if err != nil {
		return fmt.Errorf("site check failed: %w", err)
	}

	report.Robots = robots
	report.Sitemaps = sitemaps

	report.Issues = append(report.Issues, robots.Issues...)
	for _, sm := range sitemaps {
		report.Issues = append(report.Issues, sm.Issues...)
	}

	s.logger.Debug("site check complete",
		"robots_found", robots.Found,
		"sitemaps", len(sitemaps),
	)
	return nil
}

// ScoreStep computes the per-page performance scores and the aggregate
// WCAG summary. It runs after every finding-producing step so the
// summary sees the complete finding list.
type ScoreStep struct{}

// NewScoreStep creates the scoring step.
func NewScoreStep() *ScoreStep {
	return &ScoreStep{}
}

// Name returns the step name.
func (s *ScoreStep) Name() string {
	return "score"
}

// Do executes the scoring step.
func (s *ScoreStep) Do(_ context.Context, report *model.CrawlReport) error {
	report.Performance = analyzer.ScoreAll(report.Pages)
	report.WCAG = analyzer.SummarizeWCAG(report.Issues)
	return nil
}

// FinalizeStep writes the aggregate counters onto the job: pages
// crawled, pages failed, and findings by severity.
type FinalizeStep struct{}

// NewFinalizeStep creates the finalization step.
func NewFinalizeStep() *FinalizeStep {
	return &FinalizeStep{}
}

// Name returns the step name.
func (s *FinalizeStep) Name() string {
	return "finalize"
}

// Do executes the finalization step.
func (s *FinalizeStep) Do(_ context.Context, report *model.CrawlReport) error {
	report.Job.PagesCrawled = len(report.Pages)

	failed := 0
	for i := range report.Pages {
		if report.Pages[i].Failed() {
			failed++
		}
	}
	report.Job.PagesFailed = failed

	report.Job.Counts = model.CountBySeverity(report.Issues)
	return nil
}

// DefaultSteps returns the standard audit pipeline in execution order.
// The sitecheck checker may be nil for a default client.
func DefaultSteps(checker *sitecheck.Checker, logger *slog.Logger) []Step {
	return []Step{
		NewAnalyzePagesStep(logger),
		NewSiteAnalysisStep(),
		NewSiteCheckStep(checker, logger),
		NewScoreStep(),
		NewFinalizeStep(),
	}
}
