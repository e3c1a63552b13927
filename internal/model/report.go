package model

// PerformanceScore is the per-page speed assessment. Points breaks the
// total down into its components so reports can explain the number.
type PerformanceScore struct {
	URL    string         `json:"url"`
	Score  int            `json:"score"`
	Points map[string]int `json:"points,omitempty"`
}

// RobotsResult is what the robots.txt analyzer learned about a site.
// CrawlDelay is zero when the file declares none.
type RobotsResult struct {
	Found           bool     `json:"found"`
	StatusCode      int      `json:"status_code,omitempty"`
	Sitemaps        []string `json:"sitemaps,omitempty"`
	UserAgents      []string `json:"user_agents,omitempty"`
	DisallowedPaths []string `json:"disallowed_paths,omitempty"`
	CrawlDelay      float64  `json:"crawl_delay,omitempty"`
	DisallowAll     bool     `json:"disallow_all,omitempty"`
	Issues          []Issue  `json:"issues,omitempty"`
}

// SitemapResult is what the sitemap analyzer learned about one sitemap,
// including children of a sitemap index. URLs and ChildSitemaps are
// capped samples; URLCount and ChildCount carry the full totals.
type SitemapResult struct {
	URL           string   `json:"url"`
	Found         bool     `json:"found"`
	IsIndex       bool     `json:"is_index"`
	URLCount      int      `json:"url_count"`
	URLs          []string `json:"urls,omitempty"`
	ChildCount    int      `json:"child_count,omitempty"`
	ChildSitemaps []string `json:"child_sitemaps,omitempty"`
	Issues        []Issue  `json:"issues,omitempty"`
}

// CrawlReport is the complete output of one audit run: the job, every
// page, every finding, the site-level analyses, and the aggregate scores.
// All report writers render from this one struct.
type CrawlReport struct {
	Job    CrawlJob     `json:"job"`
	Pages  []PageRecord `json:"pages"`
	Issues []Issue      `json:"issues"`

	Performance []PerformanceScore `json:"performance,omitempty"`
	WCAG        WCAGSummary        `json:"wcag"`

	Robots   *RobotsResult   `json:"robots,omitempty"`
	Sitemaps []SitemapResult `json:"sitemaps,omitempty"`
}

// AveragePerformance returns the mean page performance score, or zero
// when no pages were scored.
func (r *CrawlReport) AveragePerformance() float64 {
	if len(r.Performance) == 0 {
		return 0
	}
	sum := 0
	for _, p := range r.Performance {
		sum += p.Score
	}
	return float64(sum) / float64(len(r.Performance))
}

// IssuesForPage returns the findings attached to one page URL.
func (r *CrawlReport) IssuesForPage(pageURL string) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.PageURL == pageURL {
			out = append(out, issue)
		}
	}
	return out
}

// IssuesByCategory groups the findings by audit category.
func (r *CrawlReport) IssuesByCategory() map[Category][]Issue {
	out := make(map[Category][]Issue)
	for _, issue := range r.Issues {
		out[issue.Category] = append(out[issue.Category], issue)
	}
	return out
}
