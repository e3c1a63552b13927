// Package orchestrator drives one audit run end to end: job creation,
// the crawl, the analysis pipeline, and persistence.
//
// The crawl itself runs in a child process. The orchestrator re-execs
// the seoscan binary with the hidden fetch subcommand and reads page
// records as JSON lines from its stdout. A crashing or hanging crawl
// therefore takes down only the child; the parent fails the job,
// keeps the pages persisted so far, and moves on.
package orchestrator
