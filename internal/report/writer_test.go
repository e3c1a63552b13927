package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/seoscan/seoscan/internal/model"
)

func fixtureReport() *model.CrawlReport {
	return &model.CrawlReport{
		Job: model.CrawlJob{
			ID:           "job-fixture",
			SiteURL:      "https://example.com",
			Status:       model.JobCompleted,
			CreatedAt:    time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC),
			PagesCrawled: 3,
			PagesFailed:  1,
			Counts:       model.SeverityCounts{Critical: 1, Warning: 2, Info: 1},
		},
		Pages: []model.PageRecord{
			{URL: "https://example.com/", StatusCode: 200},
			{URL: "https://example.com/about", StatusCode: 200},
			{URL: "https://example.com/broken", FetchError: "connection refused"},
		},
		Issues: []model.Issue{
			model.NewIssue("missing_title", "https://example.com/", "Page has no title tag."),
			model.NewIssue("title_too_short", "https://example.com/about", "Title is 12 characters."),
			model.NewIssue("missing_lang_attribute", "https://example.com/", "The html element has no lang attribute."),
			model.NewIssue("canonical_mismatch", "https://example.com/about", "Canonical URL points to another page."),
		},
		Performance: []model.PerformanceScore{
			{URL: "https://example.com/", Score: 90},
			{URL: "https://example.com/about", Score: 70},
		},
		WCAG: model.WCAGSummary{
			Score:            92,
			ConformanceLevel: "",
			WarningCount:     1,
		},
		Robots: &model.RobotsResult{
			Found:      true,
			StatusCode: 200,
			UserAgents: []string{"*"},
			Sitemaps:   []string{"https://example.com/sitemap.xml"},
		},
		Sitemaps: []model.SitemapResult{
			{URL: "https://example.com/sitemap.xml", Found: true, URLCount: 25},
		},
	}
}

func TestSimpleWriterSections(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewSimpleWriter(&buf)

	n, err := w.Write(fixtureReport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != buf.Len() {
		t.Errorf("reported %d bytes, buffer has %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"SEOSCAN REPORT",
		"Site:          https://example.com",
		"Pages Crawled: 3",
		"Pages Failed:  1",
		"CRITICAL: 1",
		"WARNING:  2",
		"TOTAL:    4 findings",
		"Performance (avg):  80",
		"WCAG Conformance:   none",
		"robots.txt: found",
		"25 URLs",
		"missing_title",
		"canonical_mismatch",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSimpleWriterVerboseIncludesRecommendations(t *testing.T) {
	t.Parallel()

	var terse, verbose bytes.Buffer
	if _, err := NewSimpleWriter(&terse).Write(fixtureReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := NewSimpleWriter(&verbose, WithVerbose(true)).Write(fixtureReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if strings.Contains(terse.String(), "fix:") {
		t.Error("terse output contains recommendations")
	}
	if !strings.Contains(verbose.String(), "fix:") {
		t.Error("verbose output missing recommendations")
	}
	if !strings.Contains(verbose.String(), "Per-page performance:") {
		t.Error("verbose output missing per-page performance")
	}
}

func TestSimpleWriterNoFindings(t *testing.T) {
	t.Parallel()

	report := fixtureReport()
	report.Issues = nil

	var buf bytes.Buffer
	if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No findings") {
		t.Error("output missing the empty-findings message")
	}
}

func TestJSONWriterRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf).Write(fixtureReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded model.CrawlReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Job.ID != "job-fixture" {
		t.Errorf("Job.ID = %q, want job-fixture", decoded.Job.ID)
	}
	if len(decoded.Issues) != 4 {
		t.Errorf("issues = %d, want 4", len(decoded.Issues))
	}
	if decoded.Robots == nil || !decoded.Robots.Found {
		t.Error("robots result lost in round trip")
	}
}

func TestJSONWriterPrettyPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(fixtureReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"") {
		t.Error("pretty-printed output is not indented")
	}
}

func TestFullJSONWriterWrapsVersion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewFullJSONWriter(&buf, "1.2.3").Write(fixtureReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var wrapped JSONReport
	if err := json.Unmarshal(buf.Bytes(), &wrapped); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if wrapped.Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", wrapped.Version)
	}
	if wrapped.Report == nil || wrapped.Report.Job.ID != "job-fixture" {
		t.Error("wrapped report missing or incomplete")
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(fixtureReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# SEO & Accessibility Audit",
		"## Severity Summary",
		"## Scores",
		"## Robots & Sitemaps",
		"## Findings",
		"🔴 Critical",
		"missing_title",
		"```mermaid",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))

	n, err := mw.Write(fixtureReport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("one of the writers received no output")
	}
	if n != a.Len()+b.Len() {
		t.Errorf("total = %d, want %d", n, a.Len()+b.Len())
	}
}
