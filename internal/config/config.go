package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values match common crawler etiquette and the limits search
// engines themselves apply when auditing a site.
const (
	// DefaultTimeout is the per-request timeout. 30 seconds is generous
	// for a public website; anything slower is itself a finding.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages is the maximum number of pages to crawl per site.
	// This prevents runaway crawling on large or infinitely-generating
	// sites. Users can override this via the --max-pages CLI flag.
	DefaultMaxPages = 100

	// DefaultDepthLimit is the maximum link depth from the start URL.
	// Pages deeper than ten clicks are effectively invisible to both
	// users and crawlers, so there is little value in fetching them.
	DefaultDepthLimit = 10

	// DefaultConcurrency is the number of parallel fetch workers.
	// Eight workers saturate most small sites without tripping
	// rate limiting or WAF rules.
	DefaultConcurrency = 8

	// DefaultCrawlDelay is the minimum delay between requests to the
	// same host. This is a politeness setting; 500ms keeps a full
	// 100-page crawl under a minute while staying gentle.
	DefaultCrawlDelay = 500 * time.Millisecond

	// DefaultBatchSize of 5 concurrent site audits balances throughput
	// with resource usage when auditing a list of projects.
	DefaultBatchSize = 5

	// DefaultFetchTimeout bounds the whole fetch phase of one audit.
	// A crawl that has not finished after an hour is stuck.
	DefaultFetchTimeout = 1 * time.Hour

	// DefaultUserAgent identifies seoscan in HTTP requests.
	// A descriptive User-Agent lets site operators identify audit
	// traffic in their logs.
	DefaultUserAgent = "seoscan/1.0 (+https://github.com/seoscan/seoscan)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// 5MB is sufficient for any sane HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultRetentionDays is how long finished crawl jobs are kept in
	// the database before maintenance cleanup removes them.
	DefaultRetentionDays = 30

	// AppName is the application name used for XDG directory paths.
	AppName = "seoscan"
)

// Config holds all configuration options for seoscan.
// This struct is designed to be populated from CLI flags and passed
// through the application via dependency injection rather than global
// state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit. If the configuration grows significantly, consider refactoring
// into sub-structs.
type Config struct {
	// Targets is the list of site URLs to audit.
	// Must contain at least one absolute http(s) URL.
	Targets []string

	// Timeout is the timeout for each individual HTTP request.
	Timeout time.Duration

	// FetchTimeout bounds the entire fetch phase of one audit.
	// When it elapses, the fetch process is killed and the job fails.
	FetchTimeout time.Duration

	// MaxPages is the maximum number of pages to crawl per site.
	// A value of 0 means use the default (DefaultMaxPages).
	MaxPages int

	// DepthLimit is the maximum link depth from the start URL.
	// Depth 0 means only fetch the start page.
	DepthLimit int

	// Concurrency is the number of parallel fetch workers per site.
	Concurrency int

	// CrawlDelay is the minimum delay between requests to the same host.
	// Lower values may cause rate limiting or service disruption.
	CrawlDelay time.Duration

	// BatchSize is the number of concurrent site audits when processing
	// multiple targets.
	BatchSize int

	// IncludePatterns restrict the crawl to URLs whose path matches at
	// least one glob pattern. Empty means crawl everything in scope.
	IncludePatterns []string

	// ExcludePatterns skip URLs whose path matches any glob pattern.
	ExcludePatterns []string

	// FollowExternal lets the crawl follow links off the start URL's
	// registrable domain. External links are recorded for analysis
	// either way; this only widens what gets fetched. Off by default
	// because an audit of one site should not crawl the rest of the web.
	FollowExternal bool

	// IgnoreRobots disables robots.txt compliance during the crawl.
	// The robots.txt analysis still runs; only fetch filtering is
	// affected. Intended for auditing one's own staging sites.
	IgnoreRobots bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated. 0 means the default.
	MaxBodySize int64

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .seoscan.yml in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file. Populated by LoadConfigFile and used during audits.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory path for storing the SQLite database.
	// When set, audit results are saved for historical comparison.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save audit results to the database.
	// This is automatically set to true when DBDir is configured.
	SaveToDB bool

	// RetentionDays controls how long finished jobs survive maintenance
	// cleanup. 0 means use the default.
	RetentionDays int
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeouts, worker
// counts). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:        DefaultTimeout,
		FetchTimeout:   DefaultFetchTimeout,
		MaxPages:       DefaultMaxPages,
		DepthLimit:     DefaultDepthLimit,
		Concurrency:    DefaultConcurrency,
		CrawlDelay:     DefaultCrawlDelay,
		BatchSize:      DefaultBatchSize,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
		RetentionDays:  DefaultRetentionDays,
	}
}

// XDGDataDir returns the XDG data directory for seoscan.
// On Linux: ~/.local/share/seoscan
// On macOS: ~/Library/Application Support/seoscan
// On Windows: %LOCALAPPDATA%\seoscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for seoscan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for seoscan.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one target to audit
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	// Timeout must be positive; zero timeout would cause immediate failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.FetchTimeout <= 0 {
		return ErrInvalidFetchTimeout
	}

	// Concurrency must be positive; zero would mean no workers
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// BatchSize must be positive; zero would mean no audits
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	// CrawlDelay must be non-negative
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	// MaxBodySize must be non-negative; 0 selects the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.DepthLimit < 0 {
		return ErrInvalidDepthLimit
	}

	return nil
}
