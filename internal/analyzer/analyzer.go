package analyzer

import (
	"fmt"
	"net/http"

	"github.com/seoscan/seoscan/internal/crawler"
	"github.com/seoscan/seoscan/internal/model"
)

// pageRule inspects one page record and returns zero or more findings.
type pageRule struct {
	name  string
	check func(*model.PageRecord) []model.Issue
}

// Analyzer evaluates audit rules against crawl results.
// The zero value is not usable; call New.
type Analyzer struct {
	seoRules  []pageRule
	a11yRules []pageRule
}

// New creates an Analyzer with the full rule set.
func New() *Analyzer {
	return &Analyzer{
		seoRules:  seoRules(),
		a11yRules: accessibilityRules(),
	}
}

// AnalyzePage runs all page-level rules against one record.
//
// The status-class finding always leads the list, and short-circuits: a
// page that failed to load, errored, or redirected gets only its
// transport findings. Content rules would report nonsense like "missing
// title" on a 404 body. Redirect-chain findings close the list.
func (a *Analyzer) AnalyzePage(page *model.PageRecord) []model.Issue {
	var issues []model.Issue

	if issue, done := statusIssue(page); done {
		if issue != nil {
			issues = append(issues, *issue)
		}
		return append(issues, redirectIssues(page)...)
	}

	for _, rule := range a.seoRules {
		issues = append(issues, rule.check(page)...)
	}
	if page.IsHTML() {
		for _, rule := range a.a11yRules {
			issues = append(issues, rule.check(page)...)
		}
	}
	return append(issues, redirectIssues(page)...)
}

// AnalyzeSite runs the cross-page rules over a finished crawl.
// siteURL labels findings that belong to the site rather than one page.
func (a *Analyzer) AnalyzeSite(siteURL string, pages []model.PageRecord) []model.Issue {
	var issues []model.Issue
	issues = append(issues, DetectDuplicates(pages)...)
	issues = append(issues, bfsgIssues(siteURL, pages)...)
	return issues
}

// statusIssue maps the HTTP status class to a finding. The second return
// reports whether the status short-circuits all content rules.
func statusIssue(page *model.PageRecord) (*model.Issue, bool) {
	switch {
	case page.Failed():
		issue := model.NewIssue("server_error", page.URL,
			fmt.Sprintf("Page could not be fetched: %s", page.FetchError))
		return &issue, true
	case page.StatusCode >= http.StatusInternalServerError:
		issue := model.NewIssue("server_error", page.URL,
			fmt.Sprintf("Server error: HTTP %d", page.StatusCode))
		return &issue, true
	case page.StatusCode >= http.StatusBadRequest:
		issue := model.NewIssue("client_error", page.URL,
			fmt.Sprintf("Broken page: HTTP %d", page.StatusCode))
		return &issue, true
	case page.StatusCode >= http.StatusMultipleChoices:
		// Final status is 3xx only when the chain was cut off. The hop
		// findings already cover a recorded chain.
		if len(page.Redirects) > 0 {
			return nil, true
		}
		issue := model.NewIssue("redirect", page.URL,
			fmt.Sprintf("Page answers with HTTP %d and no final destination", page.StatusCode))
		return &issue, true
	case page.StatusCode != http.StatusOK:
		return nil, true
	}
	return nil, false
}

// redirectChainThreshold is the number of hops above which a chain is
// reported. One intermediate hop is tolerated (http to https upgrades);
// anything longer wastes crawl budget on every visit.
const redirectChainThreshold = 2

// redirectIssues reports findings about how the page was reached.
// These run even on healthy pages because the chain precedes the 200.
func redirectIssues(page *model.PageRecord) []model.Issue {
	if len(page.Redirects) == 0 {
		return nil
	}

	var issues []model.Issue
	issues = append(issues, model.NewIssue("redirect", page.URL,
		fmt.Sprintf("URL redirects to %s (%d hop(s))", page.EffectiveURL(), len(page.Redirects))))

	seen := map[string]bool{}
	for _, hop := range page.Redirects {
		norm := crawler.NormalizeURL(hop.FromURL)
		if seen[norm] {
			issues = append(issues, model.NewIssue("redirect_loop", page.URL,
				fmt.Sprintf("Redirect chain revisits %s", hop.FromURL)))
			return issues
		}
		seen[norm] = true
	}

	if len(page.Redirects) > redirectChainThreshold {
		issues = append(issues, model.NewIssue("redirect_chain_too_long", page.URL,
			fmt.Sprintf("Redirect chain has %d hops (more than %d)", len(page.Redirects), redirectChainThreshold)))
	}
	return issues
}
