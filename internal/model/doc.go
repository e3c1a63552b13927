// Package model defines the core data structures used throughout seoscan.
//
// This package contains the following main types:
//   - PageRecord: The structured result of fetching and extracting one URL
//   - Issue: One typed, severity-tagged finding about a page
//   - CrawlJob: One run of the fetcher against one site, with lifecycle state
//   - CrawlReport: The finished result set consumed by report writers
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, analyzer, database, report) need
// these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for the fetch-worker
// stream, report output, and database storage.
package model
