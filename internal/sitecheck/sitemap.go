package sitecheck

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/seoscan/seoscan/internal/model"
)

// CheckSitemaps resolves and analyzes the sitemaps of a site.
//
// advertised holds the sitemap URLs robots.txt declared. When it is
// empty the conventional /sitemap.xml location is probed instead.
// Each top-level sitemap yields one result; a sitemap index
// additionally yields one result per fetched child, up to
// maxSitemapChildren.
func (c *Checker) CheckSitemaps(ctx context.Context, siteURL string, advertised []string) ([]model.SitemapResult, error) {
	candidates := advertised
	if len(candidates) == 0 {
		root, err := siteRoot(siteURL)
		if err != nil {
			return nil, err
		}
		candidates = []string{root.JoinPath("/sitemap.xml").String()}
	}

	var results []model.SitemapResult
	for _, sitemapURL := range candidates {
		result, children := c.checkOne(ctx, sitemapURL)
		results = append(results, result)
		results = append(results, children...)
	}
	return results, nil
}

// checkOne analyzes a single sitemap URL. When the sitemap is an index
// its children are fetched and returned as additional results.
func (c *Checker) checkOne(ctx context.Context, sitemapURL string) (model.SitemapResult, []model.SitemapResult) {
	result := model.SitemapResult{URL: sitemapURL}

	status, body, err := c.fetch(ctx, sitemapURL)
	if err != nil || status != http.StatusOK {
		detail := fmt.Sprintf("HTTP %d", status)
		if err != nil {
			detail = err.Error()
		}
		result.Issues = append(result.Issues, model.NewIssue(
			"sitemap_not_found", sitemapURL,
			fmt.Sprintf("Sitemap could not be fetched: %s.", detail)))
		return result, nil
	}
	result.Found = true

	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		result.Issues = append(result.Issues, model.NewIssue(
			"sitemap_parse_error", sitemapURL,
			fmt.Sprintf("Sitemap is not valid XML: %v", err)))
		return result, nil
	}

	if xmlquery.FindOne(doc, "//sitemapindex") != nil {
		return c.analyzeIndex(ctx, doc, result)
	}
	analyzeURLSet(doc, &result)
	return result, nil
}

// analyzeIndex handles a <sitemapindex> document: it records the child
// count and fetches up to maxSitemapChildren children for analysis.
// A child that fails to fetch or parse is reported against the index,
// not returned as its own result.
func (c *Checker) analyzeIndex(ctx context.Context, doc *xmlquery.Node, result model.SitemapResult) (model.SitemapResult, []model.SitemapResult) {
	result.IsIndex = true

	var childURLs []string
	for _, node := range xmlquery.Find(doc, "//sitemapindex/sitemap/loc") {
		if loc := trimText(node); loc != "" {
			childURLs = append(childURLs, loc)
		}
	}
	result.ChildCount = len(childURLs)

	if len(childURLs) > maxSitemapChildren {
		childURLs = childURLs[:maxSitemapChildren]
	}
	result.ChildSitemaps = childURLs

	var children []model.SitemapResult
	for _, childURL := range childURLs {
		child, _ := c.checkOne(ctx, childURL)
		if !child.Found {
			result.Issues = append(result.Issues, model.NewIssue(
				"sitemap_child_fetch_error", result.URL,
				fmt.Sprintf("Child sitemap %s is not reachable.", childURL)))
			continue
		}
		children = append(children, child)
	}
	return result, children
}

// analyzeURLSet handles a <urlset> document: it counts URLs, keeps a
// capped sample of them, and checks the optional freshness hints.
func analyzeURLSet(doc *xmlquery.Node, result *model.SitemapResult) {
	urls := xmlquery.Find(doc, "//urlset/url")
	result.URLCount = len(urls)

	for _, u := range urls {
		if len(result.URLs) >= maxRetainedURLs {
			break
		}
		if loc := xmlquery.FindOne(u, "loc"); loc != nil {
			if text := trimText(loc); text != "" {
				result.URLs = append(result.URLs, text)
			}
		}
	}

	if result.URLCount > maxSitemapURLs {
		result.Issues = append(result.Issues, model.NewIssue(
			"sitemap_too_large", result.URL,
			fmt.Sprintf("Sitemap lists %d URLs; the protocol limit is %d per file.", result.URLCount, maxSitemapURLs)))
	}

	missingLastmod := 0
	missingChangefreq := 0
	for _, u := range urls {
		if xmlquery.FindOne(u, "lastmod") == nil {
			missingLastmod++
		}
		if xmlquery.FindOne(u, "changefreq") == nil {
			missingChangefreq++
		}
	}
	if result.URLCount > 0 && missingLastmod == result.URLCount {
		result.Issues = append(result.Issues, model.NewIssue(
			"sitemap_no_lastmod", result.URL,
			"No sitemap entry carries a lastmod date."))
	}
	if result.URLCount > 0 && missingChangefreq == result.URLCount {
		result.Issues = append(result.Issues, model.NewIssue(
			"sitemap_no_changefreq", result.URL,
			"No sitemap entry carries a changefreq hint."))
	}
}

func trimText(node *xmlquery.Node) string {
	return strings.TrimSpace(node.InnerText())
}
