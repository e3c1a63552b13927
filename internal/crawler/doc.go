// Package crawler provides the fetch phase of a site audit: it walks a
// website breadth-first and turns every URL into a model.PageRecord.
//
// # Architecture
//
// The crawler package is designed around the Spider type, which coordinates
// the crawling process. The frontier is processed level by level so every
// page gets the minimal click depth from the start URL, with a bounded
// worker pool fetching each level in parallel.
//
// Design decision: We implement our own frontier rather than using a
// third-party crawling framework because:
//  1. The audit needs error pages as records, not as skipped failures
//  2. Depth accounting must match click depth exactly
//  3. Redirect chains have to be preserved per page for the rule engine
//
// # Components
//
//   - Spider: the frontier; dedupes URLs, enforces scope, budget, and depth
//   - Extractor: goquery-based extraction of SEO and accessibility evidence
//
// # Politeness
//
// The crawler is designed to be polite:
//   - Respects robots.txt (configurable)
//   - Rate-limits requests across all workers (configurable)
//   - Limits concurrent requests
//   - Stays within the site's registrable domain
//
// # Usage
//
//	spider := crawler.NewSpider(httpClient, crawler.WithMaxPages(100))
//	err := spider.Crawl(ctx, "https://www.example.com", func(rec model.PageRecord) error {
//	    return enc.Encode(rec)
//	})
package crawler
