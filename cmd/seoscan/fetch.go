package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/seoscan/seoscan/internal/config"
	seolog "github.com/seoscan/seoscan/internal/log"
	"github.com/seoscan/seoscan/internal/orchestrator"
	"github.com/spf13/cobra"
)

// NewFetchCmd creates the hidden fetch command.
//
// fetch is the worker half of the process isolation scheme: the crawl
// orchestrator re-executes the seoscan binary with this subcommand and
// reads one JSON page record per line from its stdout. Logs go to
// stderr so they never mix with the record stream.
//
// The command is hidden because its flag set is an internal protocol
// between the parent and child process, not a user-facing surface.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "fetch <site-url>",
		Short:  "Crawl a site and stream page records to stdout",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE:   runFetchCmd,
	}

	cmd.Flags().Int("max-pages", config.DefaultMaxPages,
		"Maximum number of pages to crawl")
	cmd.Flags().Int("depth", config.DefaultDepthLimit,
		"Maximum crawl recursion depth")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of concurrent page fetches")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Politeness delay between request dispatches")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().Bool("ignore-robots", false,
		"Crawl pages disallowed by robots.txt")
	cmd.Flags().Bool("follow-external", false,
		"Follow links to other domains")
	cmd.Flags().StringSlice("exclude", nil,
		"URL path patterns to skip (repeatable)")
	cmd.Flags().StringSlice("include", nil,
		"URL path patterns to restrict the crawl to (repeatable)")
	cmd.Flags().String("config", "",
		"Configuration file path for per-site overrides")

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildFetchConfig(cmd, args)
	if err != nil {
		return err
	}

	// JSON logs on stderr; stdout belongs to the record stream
	logger := seolog.NewSecureJSONLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The parent kills the child on its own timeout, but an interrupt
	// delivered to the process group should also stop the crawl.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	runner := orchestrator.NewInProcessRunner(cfg)
	emit := orchestrator.WriteRecords(json.NewEncoder(os.Stdout))

	logger.Info("fetch started", "site", cfg.Targets[0], "maxPages", cfg.MaxPages)
	if err := runner.Run(ctx, cfg.Targets[0], emit); err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}
	logger.Info("fetch finished", "site", cfg.Targets[0])

	return nil
}

// buildFetchConfig creates a Config from the fetch command's flags.
func buildFetchConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.DepthLimit, err = cmd.Flags().GetInt("depth")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.IgnoreRobots, err = cmd.Flags().GetBool("ignore-robots")
	if err != nil {
		return nil, err
	}

	cfg.FollowExternal, err = cmd.Flags().GetBool("follow-external")
	if err != nil {
		return nil, err
	}

	cfg.ExcludePatterns, err = cmd.Flags().GetStringSlice("exclude")
	if err != nil {
		return nil, err
	}

	cfg.IncludePatterns, err = cmd.Flags().GetStringSlice("include")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// The parent only passes --config when a file exists, so a missing
	// file here is an error rather than a silent fallback.
	if cfg.ConfigFilePath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(cfg.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", cfg.ConfigFilePath, err)
		}
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	return cfg, nil
}
