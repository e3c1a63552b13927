// Package report renders finished audit reports.
//
// Three formats are supported: plain text for the terminal, JSON for
// tool integration, and Markdown for documentation and sharing. All
// writers render from the same model.CrawlReport.
package report
