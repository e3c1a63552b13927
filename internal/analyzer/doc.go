// Package analyzer turns crawled page records into audit findings.
//
// # Architecture
//
// The analyzer is a pure function over crawl data: it never performs I/O.
// Page rules run per record, site rules run over the whole crawl, and the
// scorers aggregate the results.
//
//   - AnalyzePage: status-class, SEO, performance, and accessibility checks
//   - AnalyzeSite: duplicate content detection and BFSG compliance
//   - ScorePerformance: per-page speed score with an explainable breakdown
//   - SummarizeWCAG: accessibility score and conformance level
//
// Design decision: Rules are split into ordered slices of named check
// functions rather than one long method because:
//  1. Each rule stays independently testable
//  2. The evaluation order is explicit and stable
//  3. Adding a rule is an append, not surgery on a god function
//
// Severity, category, and recommendations come from the issue metadata
// mapping in the model package; rules only decide whether a finding
// applies and describe what was observed.
package analyzer
