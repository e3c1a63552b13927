package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewFetchCmd tests the fetch command creation.
func TestNewFetchCmd(t *testing.T) {
	t.Parallel()

	cmd := NewFetchCmd()

	t.Run("is hidden", func(t *testing.T) {
		t.Parallel()
		if !cmd.Hidden {
			t.Error("expected fetch command to be hidden")
		}
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		t.Parallel()
		if err := cmd.Args(cmd, []string{}); err == nil {
			t.Error("expected error for zero arguments")
		}
		if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
			t.Error("expected error for two arguments")
		}
		if err := cmd.Args(cmd, []string{"https://example.com"}); err != nil {
			t.Errorf("unexpected error for one argument: %v", err)
		}
	})

	// The flag set is the wire protocol with the subprocess runner.
	// Every flag the parent passes must exist here.
	t.Run("has all runner protocol flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{
			"max-pages", "depth", "concurrency", "delay", "timeout",
			"user-agent", "max-body-size", "ignore-robots",
			"follow-external", "exclude", "include", "config",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestBuildFetchConfig tests configuration building for the fetch command.
func TestBuildFetchConfig(t *testing.T) {
	t.Run("builds config from flags", func(t *testing.T) {
		cmd := NewFetchCmd()
		_ = cmd.Flags().Set("max-pages", "25")
		_ = cmd.Flags().Set("depth", "2")
		_ = cmd.Flags().Set("concurrency", "4")
		_ = cmd.Flags().Set("delay", "250ms")
		_ = cmd.Flags().Set("timeout", "10s")
		_ = cmd.Flags().Set("user-agent", "test-bot/1.0")
		_ = cmd.Flags().Set("max-body-size", "2048")
		_ = cmd.Flags().Set("ignore-robots", "true")
		_ = cmd.Flags().Set("follow-external", "true")

		cfg, err := buildFetchConfig(cmd, []string{"https://www.example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.MaxPages != 25 {
			t.Errorf("expected MaxPages 25, got %d", cfg.MaxPages)
		}
		if cfg.DepthLimit != 2 {
			t.Errorf("expected DepthLimit 2, got %d", cfg.DepthLimit)
		}
		if cfg.Concurrency != 4 {
			t.Errorf("expected Concurrency 4, got %d", cfg.Concurrency)
		}
		if cfg.CrawlDelay != 250*time.Millisecond {
			t.Errorf("expected CrawlDelay 250ms, got %s", cfg.CrawlDelay)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("expected Timeout 10s, got %s", cfg.Timeout)
		}
		if cfg.UserAgent != "test-bot/1.0" {
			t.Errorf("expected UserAgent 'test-bot/1.0', got %q", cfg.UserAgent)
		}
		if cfg.MaxBodySize != 2048 {
			t.Errorf("expected MaxBodySize 2048, got %d", cfg.MaxBodySize)
		}
		if !cfg.IgnoreRobots {
			t.Error("expected IgnoreRobots to be true")
		}
		if !cfg.FollowExternal {
			t.Error("expected FollowExternal to be true")
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://www.example.com" {
			t.Errorf("expected targets [https://www.example.com], got %v", cfg.Targets)
		}
	})

	t.Run("loads site configs from explicit file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "seoscan.yml")

		content := []byte(`
sites:
  www.example.com:
    maxPages: 10
`)
		if err := os.WriteFile(configPath, content, 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cmd := NewFetchCmd()
		_ = cmd.Flags().Set("config", configPath)
		cfg, err := buildFetchConfig(cmd, []string{"https://www.example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.SiteConfigs.Sites["www.example.com"].MaxPages != 10 {
			t.Error("expected site maxPages override to be loaded")
		}
	})

	t.Run("returns error for missing config file", func(t *testing.T) {
		cmd := NewFetchCmd()
		_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "no-such.yml"))
		_, err := buildFetchConfig(cmd, []string{"https://www.example.com"})
		if err == nil {
			t.Fatal("expected error for missing config file")
		}
	})

	t.Run("uses empty site configs without file", func(t *testing.T) {
		cmd := NewFetchCmd()
		cfg, err := buildFetchConfig(cmd, []string{"https://www.example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SiteConfigs == nil {
			t.Fatal("expected non-nil SiteConfigs")
		}
	})
}
