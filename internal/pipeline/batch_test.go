package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/seoscan/seoscan/internal/model"
)

func TestProcessBatchPreservesOrder(t *testing.T) {
	t.Parallel()

	audit := func(_ context.Context, siteURL string) (*model.CrawlReport, error) {
		return &model.CrawlReport{
			Job: model.CrawlJob{ID: "job-" + siteURL, SiteURL: siteURL, Status: model.JobCompleted},
		}, nil
	}

	bp := NewBatchProcessor(audit, WithBatchConcurrency(2))
	sites := []string{"https://a.example", "https://b.example", "https://c.example"}

	reports, err := bp.ProcessBatch(context.Background(), sites)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}
	if len(reports) != len(sites) {
		t.Fatalf("got %d reports, want %d", len(reports), len(sites))
	}
	for i, site := range sites {
		if reports[i] == nil || reports[i].Job.SiteURL != site {
			t.Errorf("reports[%d] = %+v, want report for %s", i, reports[i], site)
		}
	}
}

func TestProcessBatchContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	audit := func(_ context.Context, siteURL string) (*model.CrawlReport, error) {
		if siteURL == "https://broken.example" {
			return nil, errors.New("crawl failed")
		}
		return &model.CrawlReport{Job: model.CrawlJob{SiteURL: siteURL}}, nil
	}

	bp := NewBatchProcessor(audit)
	sites := []string{"https://ok.example", "https://broken.example", "https://also-ok.example"}

	reports, err := bp.ProcessBatch(context.Background(), sites)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v, want nil; single failures stay in the batch", err)
	}
	if reports[0] == nil || reports[2] == nil {
		t.Error("healthy sites missing their reports")
	}
	if reports[1] != nil {
		t.Errorf("reports[1] = %+v, want nil for failed audit", reports[1])
	}
}

func TestProcessBatchRespectsConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var current, peak int32
	var mu sync.Mutex

	audit := func(_ context.Context, siteURL string) (*model.CrawlReport, error) {
		n := atomic.AddInt32(&current, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		defer atomic.AddInt32(&current, -1)
		return &model.CrawlReport{Job: model.CrawlJob{SiteURL: siteURL}}, nil
	}

	bp := NewBatchProcessor(audit, WithBatchConcurrency(2))
	sites := make([]string, 10)
	for i := range sites {
		sites[i] = "https://example.com"
	}

	if _, err := bp.ProcessBatch(context.Background(), sites); err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if peak > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", peak)
	}
}
