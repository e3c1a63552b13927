package orchestrator

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strconv"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/crawler"
	"github.com/seoscan/seoscan/internal/model"
)

// Runner executes the crawl phase of an audit and streams page records
// to emit as they finish.
//
// Design decision: The crawl is behind an interface because the
// production runner re-execs the binary while tests need an in-process
// fake. The orchestrator only cares about the stream of records.
type Runner interface {
	Run(ctx context.Context, siteURL string, emit crawler.EmitFunc) error
}

// InProcessRunner runs the spider inside the current process. The fetch
// subcommand uses it; the orchestrator normally does not.
type InProcessRunner struct {
	cfg *config.Config
}

// NewInProcessRunner creates a runner that crawls with the given config.
func NewInProcessRunner(cfg *config.Config) *InProcessRunner {
	return &InProcessRunner{cfg: cfg}
}

// Run crawls the site and forwards every page record to emit.
func (r *InProcessRunner) Run(ctx context.Context, siteURL string, emit crawler.EmitFunc) error {
	cfg := r.cfg

	opts := []crawler.SpiderOption{
		crawler.WithMaxDepth(cfg.DepthLimit),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithConcurrency(cfg.Concurrency),
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithSpiderUserAgent(cfg.UserAgent),
		crawler.WithSpiderMaxBodySize(cfg.MaxBodySize),
		crawler.WithExcludePatterns(cfg.ExcludePatterns),
		crawler.WithIncludePatterns(cfg.IncludePatterns),
		crawler.WithFollowExternal(cfg.FollowExternal),
		crawler.WithIgnoreRobots(cfg.IgnoreRobots),
	}

	// Per-site overrides from the sites file beat the global flags.
	if cfg.SiteConfigs != nil {
		if u, err := url.Parse(siteURL); err == nil {
			site := cfg.SiteConfigs.GetSiteConfig(u.Hostname())
			if site.MaxPages > 0 {
				opts = append(opts, crawler.WithMaxPages(site.MaxPages))
			}
			if site.Depth > 0 {
				opts = append(opts, crawler.WithMaxDepth(site.Depth))
			}
			if len(site.ExcludePatterns) > 0 {
				opts = append(opts, crawler.WithExcludePatterns(site.ExcludePatterns))
			}
			if len(site.IncludePatterns) > 0 {
				opts = append(opts, crawler.WithIncludePatterns(site.IncludePatterns))
			}
			if site.Cookie != "" {
				opts = append(opts, crawler.WithCookie(site.Cookie))
			}
			if len(site.Headers) > 0 {
				opts = append(opts, crawler.WithHeaders(site.Headers))
			}
		}
	}

	client := &http.Client{Timeout: cfg.Timeout}
	spider := crawler.NewSpider(client, opts...)
	return spider.Crawl(ctx, siteURL, emit)
}

// maxRecordLine bounds one serialized page record on the pipe between
// the fetch child and the orchestrator. Body samples are capped at the
// extractor, so a record far above this means a corrupted stream.
const maxRecordLine = 10 * 1024 * 1024

// SubprocessRunner runs the crawl in a child process by re-execing the
// seoscan binary with the hidden fetch subcommand, reading one JSON
// page record per stdout line.
//
// Design decision: A child process per crawl rather than a goroutine
// because:
// 1. A parser crash on hostile HTML kills only the child
// 2. The kernel reclaims the child's memory after every run
// 3. The fetch timeout can hard-kill a stuck crawl via the context
type SubprocessRunner struct {
	cfg *config.Config

	// executable overrides the binary to run. Empty means the current
	// executable, which is the production configuration.
	executable string
}

// NewSubprocessRunner creates a runner that re-execs the current binary.
func NewSubprocessRunner(cfg *config.Config) *SubprocessRunner {
	return &SubprocessRunner{cfg: cfg}
}

// fetchArgs builds the argument list for the fetch subcommand from the
// runner's config. Site-specific overrides stay in the sites file, which
// the child re-reads itself when --sites is set.
func (r *SubprocessRunner) fetchArgs(siteURL string) []string {
	cfg := r.cfg
	args := []string{
		"fetch", siteURL,
		"--max-pages", strconv.Itoa(cfg.MaxPages),
		"--depth", strconv.Itoa(cfg.DepthLimit),
		"--concurrency", strconv.Itoa(cfg.Concurrency),
		"--delay", cfg.CrawlDelay.String(),
		"--timeout", cfg.Timeout.String(),
		"--user-agent", cfg.UserAgent,
		"--max-body-size", strconv.FormatInt(cfg.MaxBodySize, 10),
	}
	if cfg.IgnoreRobots {
		args = append(args, "--ignore-robots")
	}
	if cfg.FollowExternal {
		args = append(args, "--follow-external")
	}
	for _, p := range cfg.ExcludePatterns {
		args = append(args, "--exclude", p)
	}
	for _, p := range cfg.IncludePatterns {
		args = append(args, "--include", p)
	}
	if cfg.ConfigFilePath != "" {
		// The child re-reads the config file itself so per-site
		// overrides apply inside the crawl process.
		args = append(args, "--config", cfg.ConfigFilePath)
	}
	return args
}

// Run crawls the site in a child process and forwards every decoded
// page record to emit. It returns an error when the child exits
// non-zero, the stream carries a malformed record, or the context is
// cancelled before the child finishes.
func (r *SubprocessRunner) Run(ctx context.Context, siteURL string, emit crawler.EmitFunc) error {
	exe := r.executable
	if exe == "" {
		var err error
		exe, err = os.Executable()
		if err != nil {
			return fmt.Errorf("failed to locate own executable: %w", err)
		}
	}

	cmd := exec.CommandContext(ctx, exe, r.fetchArgs(siteURL)...)
	cmd.Stderr = os.Stderr // child logs pass through, records do not

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open fetch stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start fetch process: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), maxRecordLine)

	var streamErr error
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var page model.PageRecord
		if err := json.Unmarshal(line, &page); err != nil {
			streamErr = fmt.Errorf("malformed page record from fetch process: %w", err)
			break
		}
		if err := emit(page); err != nil {
			streamErr = err
			break
		}
	}
	if streamErr == nil {
		streamErr = scanner.Err()
	}

	waitErr := cmd.Wait()
	if streamErr != nil {
		return streamErr
	}
	if waitErr != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("crawl aborted: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return fmt.Errorf("fetch process exited with code %d", exitErr.ExitCode())
		}
		return fmt.Errorf("fetch process failed: %w", waitErr)
	}
	return nil
}

// WriteRecords is the child-side half of the record stream: it returns
// an EmitFunc that writes each page record as one JSON line to w.
// The fetch subcommand wires this to stdout.
func WriteRecords(w *json.Encoder) crawler.EmitFunc {
	return func(page model.PageRecord) error {
		return w.Encode(page)
	}
}
