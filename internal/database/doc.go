// Package database provides SQLite-based persistence for audit runs.
//
// One database file holds every audit of every site: the job rows track
// run lifecycle, the page and issue rows hold the crawl output in
// queryable form, and the report rows keep the full report as JSON for
// history and comparison.
//
// The pure-Go modernc.org/sqlite driver is used so the binary builds
// without cgo.
package database
