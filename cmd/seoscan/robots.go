package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/sitecheck"
	"github.com/spf13/cobra"
)

// NewRobotsCmd creates the robots command.
func NewRobotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "robots <site-url>",
		Short: "Check robots.txt and XML sitemaps without crawling",
		Long: `Robots fetches and analyzes a site's robots.txt and XML sitemaps
without crawling any pages.

It reports:
- Whether robots.txt exists and parses
- Declared Sitemap directives and User-agent groups
- Whether the site blocks all crawlers
- Sitemap health (entry counts, index children, lastmod/changefreq hints)

Examples:
  # Check a site
  seoscan robots https://www.example.com

  # JSON output for scripting
  seoscan robots --json https://www.example.com`,
		Args: cobra.ExactArgs(1),
		RunE: runRobotsCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output result in JSON format")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	return cmd
}

// runRobotsCmd executes the robots command.
func runRobotsCmd(cmd *cobra.Command, args []string) error {
	siteURL, err := normalizeTarget(args[0])
	if err != nil {
		return fmt.Errorf("invalid site URL %q: %w", args[0], err)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	userAgent, err := cmd.Flags().GetString("user-agent")
	if err != nil {
		return err
	}

	checker := sitecheck.NewChecker(
		&http.Client{Timeout: timeout},
		sitecheck.WithCheckerUserAgent(userAgent),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	robots, sitemaps, err := checker.Check(ctx, siteURL)
	if err != nil {
		return fmt.Errorf("site check failed: %w", err)
	}

	if jsonOutput {
		result := struct {
			Site     string                `json:"site"`
			Robots   *model.RobotsResult   `json:"robots"`
			Sitemaps []model.SitemapResult `json:"sitemaps,omitempty"`
		}{Site: siteURL, Robots: robots, Sitemaps: sitemaps}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	printRobotsResult(siteURL, robots, sitemaps)
	return nil
}

// printRobotsResult renders the check result as human-readable text.
func printRobotsResult(siteURL string, robots *model.RobotsResult, sitemaps []model.SitemapResult) {
	fmt.Printf("Site check: %s\n", siteURL)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Println("\nrobots.txt:")
	if robots.Found {
		fmt.Println("  found:          yes")
		fmt.Printf("  user agents:    %s\n", joinOrDash(robots.UserAgents))
		fmt.Printf("  sitemaps:       %s\n", joinOrDash(robots.Sitemaps))
		fmt.Printf("  disallowed:     %s\n", joinOrDash(robots.DisallowedPaths))
		if robots.CrawlDelay > 0 {
			fmt.Printf("  crawl delay:    %gs\n", robots.CrawlDelay)
		}
		fmt.Printf("  blocks all:     %v\n", robots.DisallowAll)
	} else {
		fmt.Println("  found:          no")
	}

	fmt.Printf("\nSitemaps (%d):\n", len(sitemaps))
	for _, sm := range sitemaps {
		fmt.Printf("  %s\n", sm.URL)
		if !sm.Found {
			fmt.Println("    found:        no")
			continue
		}
		if sm.IsIndex {
			fmt.Printf("    index:        yes (%d children)\n", sm.ChildCount)
		} else {
			fmt.Printf("    entries:      %d\n", sm.URLCount)
		}
	}

	var findings []model.Issue
	if robots != nil {
		findings = append(findings, robots.Issues...)
	}
	for _, sm := range sitemaps {
		findings = append(findings, sm.Issues...)
	}

	if len(findings) == 0 {
		fmt.Println("\nNo findings.")
		return
	}

	fmt.Printf("\nFindings (%d):\n", len(findings))
	for _, issue := range findings {
		fmt.Printf("  [%s] %s: %s\n",
			strings.ToUpper(issue.Severity.String()), issue.Type, issue.Description)
	}
}

// joinOrDash joins values with commas, or returns a dash when empty.
func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
