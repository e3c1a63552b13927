package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected
// default values. This test ensures that defaults are documented through
// tests and that changes to defaults are intentional (tests will fail if
// defaults change unexpectedly).
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	// Verify each default value explicitly
	// This serves as living documentation of the defaults
	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default FetchTimeout is 1 hour", func(t *testing.T) {
		t.Parallel()
		if cfg.FetchTimeout != time.Hour {
			t.Errorf("expected FetchTimeout to be 1h, got %v", cfg.FetchTimeout)
		}
	})

	t.Run("default MaxPages is 100", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxPages != 100 {
			t.Errorf("expected MaxPages to be 100, got %d", cfg.MaxPages)
		}
	})

	t.Run("default DepthLimit is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.DepthLimit != 10 {
			t.Errorf("expected DepthLimit to be 10, got %d", cfg.DepthLimit)
		}
	})

	t.Run("default Concurrency is 8", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 8 {
			t.Errorf("expected Concurrency to be 8, got %d", cfg.Concurrency)
		}
	})

	t.Run("default CrawlDelay is 500ms", func(t *testing.T) {
		t.Parallel()
		if cfg.CrawlDelay != 500*time.Millisecond {
			t.Errorf("expected CrawlDelay to be 500ms, got %v", cfg.CrawlDelay)
		}
	})

	t.Run("default FollowExternal is false", func(t *testing.T) {
		t.Parallel()
		if cfg.FollowExternal {
			t.Error("expected FollowExternal to be false; auditing one site must not crawl the web")
		}
	})

	t.Run("default RetentionDays is 30", func(t *testing.T) {
		t.Parallel()
		if cfg.RetentionDays != 30 {
			t.Errorf("expected RetentionDays to be 30, got %d", cfg.RetentionDays)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests can modify specific fields to test validation rules.
	validConfig := func() *Config {
		return &Config{
			Targets:      []string{"https://www.example.com"},
			Timeout:      30 * time.Second,
			FetchTimeout: time.Hour,
			Concurrency:  8,
			BatchSize:    5,
		}
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("multiple targets is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Targets = []string{"https://one.example", "https://two.example"}

		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty targets returns ErrNoTarget", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Targets = nil

		if !errors.Is(cfg.Validate(), ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", cfg.Validate())
		}
	})

	t.Run("zero timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = 0

		if !errors.Is(cfg.Validate(), ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", cfg.Validate())
		}
	})

	t.Run("zero fetch timeout returns ErrInvalidFetchTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.FetchTimeout = 0

		if !errors.Is(cfg.Validate(), ErrInvalidFetchTimeout) {
			t.Errorf("expected ErrInvalidFetchTimeout, got %v", cfg.Validate())
		}
	})

	t.Run("zero concurrency returns ErrInvalidConcurrency", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Concurrency = 0

		if !errors.Is(cfg.Validate(), ErrInvalidConcurrency) {
			t.Errorf("expected ErrInvalidConcurrency, got %v", cfg.Validate())
		}
	})

	t.Run("zero batch size returns ErrInvalidBatchSize", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.BatchSize = 0

		if !errors.Is(cfg.Validate(), ErrInvalidBatchSize) {
			t.Errorf("expected ErrInvalidBatchSize, got %v", cfg.Validate())
		}
	})

	t.Run("json and markdown together return ErrConflictingReportFormats", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.JSONReport = true
		cfg.MarkdownReport = true

		if !errors.Is(cfg.Validate(), ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", cfg.Validate())
		}
	})

	t.Run("negative crawl delay returns ErrInvalidCrawlDelay", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.CrawlDelay = -time.Second

		if !errors.Is(cfg.Validate(), ErrInvalidCrawlDelay) {
			t.Errorf("expected ErrInvalidCrawlDelay, got %v", cfg.Validate())
		}
	})

	t.Run("negative max body size returns ErrInvalidMaxBodySize", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxBodySize = -1

		if !errors.Is(cfg.Validate(), ErrInvalidMaxBodySize) {
			t.Errorf("expected ErrInvalidMaxBodySize, got %v", cfg.Validate())
		}
	})

	t.Run("negative depth limit returns ErrInvalidDepthLimit", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.DepthLimit = -1

		if !errors.Is(cfg.Validate(), ErrInvalidDepthLimit) {
			t.Errorf("expected ErrInvalidDepthLimit, got %v", cfg.Validate())
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads site overrides and defaults", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		content := `
defaults:
  depth: 5
sites:
  www.example.com:
    cookie: "consent=accepted"
    maxPages: 250
    excludePatterns:
      - "/admin/*"
      - "*.pdf"
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error: %v", err)
		}

		sc := cf.GetSiteConfig("www.example.com")
		if sc.Cookie != "consent=accepted" {
			t.Errorf("cookie = %q", sc.Cookie)
		}
		if sc.MaxPages != 250 {
			t.Errorf("maxPages = %d, want 250", sc.MaxPages)
		}
		// merged from defaults
		if sc.Depth != 5 {
			t.Errorf("depth = %d, want 5 from defaults", sc.Depth)
		}
		if len(sc.ExcludePatterns) != 2 {
			t.Errorf("excludePatterns = %v", sc.ExcludePatterns)
		}
	})

	t.Run("unknown site gets defaults only", func(t *testing.T) {
		t.Parallel()

		cf := &File{Defaults: SiteConfig{Depth: 3}}
		sc := cf.GetSiteConfig("other.example")
		if sc.Depth != 3 {
			t.Errorf("depth = %d, want 3", sc.Depth)
		}
		if sc.Cookie != "" {
			t.Errorf("cookie = %q, want empty", sc.Cookie)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [broken"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error for invalid YAML")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit path that exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("sites: {}"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile(%q) = %q", path, got)
		}
	})

	t.Run("explicit path that does not exist", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile("/nonexistent/seoscan.yml"); got != "" {
			t.Errorf("FindConfigFile() = %q, want empty", got)
		}
	})
}
