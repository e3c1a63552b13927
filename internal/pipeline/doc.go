// Package pipeline turns a finished crawl into a finished audit.
//
// A Pipeline runs an ordered list of Steps against one CrawlReport:
// page analysis, site-wide analysis, robots and sitemap checks,
// scoring, and finalization. The BatchProcessor runs complete audits
// for several sites concurrently.
package pipeline
