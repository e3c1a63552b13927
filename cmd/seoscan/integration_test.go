package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/database"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/orchestrator"
)

// startTestSite starts a small local website with robots.txt and a
// sitemap, enough to exercise the whole audit path.
func startTestSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	var siteURL string

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="en">
<head>
<title>Test Site for Audit Integration Coverage</title>
<meta name="description" content="A small local website used to exercise the crawler, the analyzers, and the report writers end to end in tests.">
</head>
<body>
<h1>Welcome</h1>
<p>This is a test page with enough body text to look like a page.</p>
<a href="/about">About</a>
<a href="/pricing">Pricing</a>
</body>
</html>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		// Deliberately missing title and h1 so the audit finds issues
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="en">
<head></head>
<body><p>About us.</p><a href="/">Home</a></body>
</html>`))
	})
	mux.HandleFunc("/pricing", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="en">
<head><title>Pricing - Test Site</title></head>
<body><h1>Pricing</h1><p>Everything is free.</p><a href="/">Home</a></body>
</html>`))
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /admin/\nSitemap: " + siteURL + "/sitemap.xml\n"))
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>` + siteURL + `/</loc><lastmod>2026-01-01</lastmod><changefreq>weekly</changefreq></url>
  <url><loc>` + siteURL + `/about</loc><lastmod>2026-01-02</lastmod><changefreq>monthly</changefreq></url>
</urlset>`))
	})

	srv := httptest.NewServer(mux)
	siteURL = srv.URL
	t.Cleanup(srv.Close)
	return srv
}

// integrationConfig returns a config tuned for fast local crawling.
func integrationConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.MaxPages = 10
	cfg.DepthLimit = 3
	cfg.CrawlDelay = 0
	cfg.Timeout = 5 * time.Second
	cfg.FetchTimeout = 30 * time.Second
	return cfg
}

// TestIntegrationAuditSingleSite audits a local site in process and
// verifies the report and the database rows.
func TestIntegrationAuditSingleSite(t *testing.T) {
	srv := startTestSite(t)

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	cfg := integrationConfig()
	orch := orchestrator.New(cfg,
		orchestrator.WithRunner(orchestrator.NewInProcessRunner(cfg)),
		orchestrator.WithDatabase(db),
	)

	ctx := context.Background()
	report, err := orch.Audit(ctx, srv.URL)
	if err != nil {
		t.Fatalf("audit failed: %v", err)
	}

	if report.Job.Status != model.JobCompleted {
		t.Errorf("expected completed job, got %s", report.Job.Status)
	}
	if report.Job.PagesCrawled < 3 {
		t.Errorf("expected at least 3 pages, got %d", report.Job.PagesCrawled)
	}
	if report.Robots == nil || !report.Robots.Found {
		t.Error("expected robots.txt to be found")
	}
	if len(report.Sitemaps) == 0 {
		t.Error("expected sitemap results")
	}

	// The about page has no title and no h1
	foundMissingTitle := false
	for _, issue := range report.Issues {
		if issue.Type == "missing_title" {
			foundMissingTitle = true
		}
	}
	if !foundMissingTitle {
		t.Error("expected missing_title finding for the about page")
	}

	// Verify persistence
	stored, err := db.LatestReportForSite(ctx, srv.URL)
	if err != nil {
		t.Fatalf("failed to load stored report: %v", err)
	}
	if stored == nil {
		t.Fatal("expected stored report")
	}
	if stored.Job.ID != report.Job.ID {
		t.Errorf("expected stored job %s, got %s", report.Job.ID, stored.Job.ID)
	}

	pages, err := db.PagesForJob(ctx, report.Job.ID)
	if err != nil {
		t.Fatalf("failed to load pages: %v", err)
	}
	if len(pages) != len(report.Pages) {
		t.Errorf("expected %d stored pages, got %d", len(report.Pages), len(pages))
	}
}

// TestIntegrationAuditAndCompare runs two audits and compares them.
func TestIntegrationAuditAndCompare(t *testing.T) {
	srv := startTestSite(t)

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	cfg := integrationConfig()
	orch := orchestrator.New(cfg,
		orchestrator.WithRunner(orchestrator.NewInProcessRunner(cfg)),
		orchestrator.WithDatabase(db),
	)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := orch.Audit(ctx, srv.URL); err != nil {
			t.Fatalf("audit %d failed: %v", i+1, err)
		}
	}

	history, err := db.ReportHistory(ctx, srv.URL)
	if err != nil {
		t.Fatalf("failed to load history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 stored reports, got %d", len(history))
	}

	if err := runComparison(ctx, db, srv.URL, "", "", true, false); err != nil {
		t.Fatalf("comparison failed: %v", err)
	}

	// The site did not change between audits, so the diff is empty
	current, err := db.GetReportByJobID(ctx, history[0].JobID)
	if err != nil {
		t.Fatalf("failed to load current report: %v", err)
	}
	previous, err := db.GetReportByJobID(ctx, history[1].JobID)
	if err != nil {
		t.Fatalf("failed to load previous report: %v", err)
	}
	result := compareReports(previous, current)
	if len(result.NewFindings) != 0 || len(result.ResolvedFindings) != 0 {
		t.Errorf("expected no diffs between identical audits, got new=%d resolved=%d",
			len(result.NewFindings), len(result.ResolvedFindings))
	}
	if result.HealthChange.Direction != healthDirectionUnchanged {
		t.Errorf("expected unchanged health, got %q", result.HealthChange.Direction)
	}
}

// TestIntegrationOutputReportFile writes a JSON report to disk and
// checks the file contents and permissions.
func TestIntegrationOutputReportFile(t *testing.T) {
	srv := startTestSite(t)

	cfg := integrationConfig()
	orch := orchestrator.New(cfg,
		orchestrator.WithRunner(orchestrator.NewInProcessRunner(cfg)),
	)

	report, err := orch.Audit(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("audit failed: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "nested", "report.json")
	cfg.JSONReport = true
	cfg.ReportFile = outPath

	if err := outputReport(cfg, report); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatalf("expected report file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected permissions 0600, got %o", info.Mode().Perm())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read report file: %v", err)
	}

	var decoded struct {
		Version string             `json:"version"`
		Report  *model.CrawlReport `json:"report"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report file is not valid JSON: %v", err)
	}
	if decoded.Report == nil {
		t.Fatal("expected embedded report")
	}
	if decoded.Report.Job.SiteURL != srv.URL {
		t.Errorf("expected site %q, got %q", srv.URL, decoded.Report.Job.SiteURL)
	}
}
