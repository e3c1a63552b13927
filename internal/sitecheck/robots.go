package sitecheck

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/temoto/robotstxt"

	"github.com/seoscan/seoscan/internal/model"
)

// CheckRobots fetches /robots.txt and reports what it declares.
//
// A missing or unreachable robots.txt is a finding, not an error:
// the returned result carries the issue and the audit continues. An
// error is only returned for a malformed site URL.
//
// Design decision: We combine the robotstxt library with a manual
// directive scan because:
//  1. The library answers "is path X allowed" correctly, including
//     wildcard and longest-match rules we do not want to reimplement
//  2. The library does not expose the raw Sitemap, User-agent,
//     Disallow and Crawl-delay lines, which the report needs verbatim
//  3. A line scan over an already size-limited body is cheap
func (c *Checker) CheckRobots(ctx context.Context, siteURL string) (*model.RobotsResult, error) {
	root, err := siteRoot(siteURL)
	if err != nil {
		return nil, err
	}
	robotsURL := root.JoinPath("/robots.txt").String()

	result := &model.RobotsResult{}

	status, body, err := c.fetch(ctx, robotsURL)
	if err != nil {
		result.Issues = append(result.Issues, model.NewIssue(
			"robots_fetch_error", siteURL,
			fmt.Sprintf("robots.txt could not be fetched: %v", err)))
		return result, nil
	}
	result.StatusCode = status

	if status != http.StatusOK {
		result.Issues = append(result.Issues, model.NewIssue(
			"robots_not_found", siteURL,
			fmt.Sprintf("robots.txt returned HTTP %d.", status)))
		return result, nil
	}
	result.Found = true

	scanDirectives(body, result)

	// The library decides whether the wildcard group blocks the root.
	// A parse failure here means the file exists but is not usable,
	// which for crawlers is the same as having no rules.
	if data, perr := robotstxt.FromBytes(body); perr == nil {
		result.DisallowAll = !data.TestAgent("/", "*")
	}

	if result.DisallowAll {
		result.Issues = append(result.Issues, model.NewIssue(
			"robots_all_blocked", siteURL,
			"robots.txt disallows the entire site for all crawlers."))
	}
	if !hasWildcardAgent(result.UserAgents) {
		result.Issues = append(result.Issues, model.NewIssue(
			"robots_no_wildcard_agent", siteURL,
			"robots.txt has no 'User-agent: *' group."))
	}
	if len(result.Sitemaps) == 0 {
		result.Issues = append(result.Issues, model.NewIssue(
			"robots_no_sitemap", siteURL,
			"robots.txt does not reference a sitemap."))
	}

	return result, nil
}

// scanDirectives pulls the Sitemap, User-agent, Disallow and
// Crawl-delay lines out of a robots.txt body into the result,
// preserving declaration order and dropping duplicates. When several
// groups declare a Crawl-delay the first one wins.
func scanDirectives(body []byte, result *model.RobotsResult) {
	seenSitemap := make(map[string]bool)
	seenAgent := make(map[string]bool)

	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "sitemap":
			// Sitemap values are absolute URLs, so the value we cut
			// at the first colon lost its "//host" part. Re-split on
			// the directive name only.
			full := strings.TrimSpace(line[len("sitemap:"):])
			if full != "" && !seenSitemap[full] {
				seenSitemap[full] = true
				result.Sitemaps = append(result.Sitemaps, full)
			}
		case "user-agent":
			if !seenAgent[value] {
				seenAgent[value] = true
				result.UserAgents = append(result.UserAgents, value)
			}
		case "disallow":
			result.DisallowedPaths = append(result.DisallowedPaths, value)
		case "crawl-delay":
			if result.CrawlDelay == 0 {
				if delay, err := strconv.ParseFloat(value, 64); err == nil && delay > 0 {
					result.CrawlDelay = delay
				}
			}
		}
	}
}

func hasWildcardAgent(agents []string) bool {
	for _, a := range agents {
		if a == "*" {
			return true
		}
	}
	return false
}
