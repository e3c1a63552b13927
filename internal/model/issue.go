package model

// Issue is one typed, severity-tagged finding about a page.
// Issues are append-only: once created they are never updated.
type Issue struct {
	// Severity is how urgent the finding is.
	Severity Severity `json:"severity"`

	// Category is the audit area the finding belongs to.
	Category Category `json:"category"`

	// Type is the stable machine-readable code, e.g. "missing_title".
	Type string `json:"type"`

	// Description is the human-readable explanation, including the
	// observed values (lengths, counts, URLs).
	Description string `json:"description"`

	// Recommendation tells the site owner how to fix the finding.
	Recommendation string `json:"recommendation,omitempty"`

	// PageURL is the URL of the page the finding refers to.
	// Empty for site-level findings (robots.txt, sitemap).
	PageURL string `json:"page_url,omitempty"`

	// WCAG carries accessibility metadata. Nil for non-accessibility issues.
	WCAG *WCAGInfo `json:"wcag,omitempty"`
}

// IssueInfo contains the static metadata for an issue type: its severity,
// category, default recommendation, and (for accessibility) WCAG metadata.
type IssueInfo struct {
	Severity       Severity
	Category       Category
	Recommendation string
	WCAG           *WCAGInfo
}

// issueInfoMapping maps issue type codes to their metadata.
// This centralized mapping ensures consistent classification across the
// rule engine, the robots/sitemap analyzer, and the duplicate detector.
//
// Design decision: We use a map rather than embedding severity in each rule
// because:
// 1. It allows updating classifications without modifying rule predicates
// 2. It provides a single source of truth for severity and category
// 3. It makes it easy to generate issue-type documentation
var issueInfoMapping = map[string]IssueInfo{
	// === Status class ===
	"server_error": {
		Severity:       SeverityCritical,
		Category:       CategorySEO,
		Recommendation: "Fix server errors immediately. These pages are not crawlable by search engines.",
	},
	"client_error": {
		Severity:       SeverityCritical,
		Category:       CategorySEO,
		Recommendation: "Fix or redirect broken URLs. These pages waste crawl budget.",
	},
	"redirect": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Ensure redirects point directly to the final URL. Avoid redirect chains.",
	},

	// === Title ===
	"missing_title": {
		Severity:       SeverityCritical,
		Category:       CategorySEO,
		Recommendation: "Add a unique, descriptive title tag (30-60 characters) to every page.",
	},
	"title_too_short": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Expand the title to at least 30 characters.",
	},
	"title_too_long": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Shorten the title to max 60 characters to avoid SERP truncation.",
	},

	// === Meta description ===
	"missing_meta_description": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Add a compelling meta description (70-160 characters) to improve CTR.",
	},
	"meta_description_too_short": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Expand the meta description to at least 70 characters.",
	},
	"meta_description_too_long": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Shorten the meta description to max 160 characters.",
	},

	// === Headings ===
	"missing_h1": {
		Severity:       SeverityCritical,
		Category:       CategorySEO,
		Recommendation: "Add exactly one H1 heading describing the main topic of the page.",
	},
	"multiple_h1": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Use only one H1 per page. Convert extra H1s to H2 or H3.",
	},

	// === Images (aggregate) ===
	"images_missing_alt": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Add descriptive alt text to all images for accessibility and image SEO.",
	},

	// === Content ===
	"low_word_count": {
		Severity:       SeverityInfo,
		Category:       CategorySEO,
		Recommendation: "Consider adding more quality content. Thin pages may rank poorly.",
	},
	"thin_content": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Expand the page to at least 300 words of unique, useful content.",
	},
	"keyword_density": {
		Severity:       SeverityInfo,
		Category:       CategorySEO,
		Recommendation: "Review the dominant keywords and keep density natural (below 3%).",
	},

	// === Performance ===
	"slow_response": {
		Severity:       SeverityWarning,
		Category:       CategoryPerformance,
		Recommendation: "Optimize server response time. Page speed is a ranking factor.",
	},

	// === Canonical / indexability ===
	"canonical_mismatch": {
		Severity:       SeverityInfo,
		Category:       CategorySEO,
		Recommendation: "Verify this canonical is intentional. Non-canonical pages won't rank.",
	},
	"noindex": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Remove the noindex directive if this page should appear in search results.",
	},

	// === URL hygiene ===
	"url_too_long": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Keep URLs under 100 characters for readability and sharing.",
	},
	"url_uppercase": {
		Severity:       SeverityInfo,
		Category:       CategorySEO,
		Recommendation: "Use lowercase path segments to avoid duplicate-content variants.",
	},
	"url_contains_spaces": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Replace spaces in URLs with hyphens.",
	},
	"url_too_deep": {
		Severity:       SeverityInfo,
		Category:       CategorySEO,
		Recommendation: "Flatten the URL structure. Deeply nested pages are crawled less often.",
	},

	// === Social metadata ===
	"missing_og_tags": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Add Open Graph tags (og:title, og:description, og:image) for link previews.",
	},
	"missing_twitter_card": {
		Severity:       SeverityInfo,
		Category:       CategorySEO,
		Recommendation: "Add Twitter Card meta tags for richer link previews.",
	},
	"missing_structured_data": {
		Severity:       SeverityInfo,
		Category:       CategorySEO,
		Recommendation: "Add JSON-LD structured data so search engines can show rich results.",
	},

	// === Links ===
	"no_internal_links": {
		Severity:       SeverityInfo,
		Category:       CategorySEO,
		Recommendation: "Link to related pages so crawlers and visitors can discover them.",
	},
	"too_many_external_links": {
		Severity:       SeverityInfo,
		Category:       CategorySEO,
		Recommendation: "Review external links. Excessive outbound linking can look spammy.",
	},

	// === Per-image findings ===
	"image_alt_missing": {
		Severity: SeverityWarning,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelA, Version: "2.1", Criterion: "1.1.1", Principle: "Perceivable",
		},
		Recommendation: "Add an alt attribute describing the image content.",
	},
	"image_alt_empty": {
		Severity: SeverityInfo,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelA, Version: "2.1", Criterion: "1.1.1", Principle: "Perceivable",
		},
		Recommendation: "Empty alt text is only correct for decorative images. Verify intent.",
	},
	"image_alt_too_long": {
		Severity: SeverityInfo,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelA, Version: "2.1", Criterion: "1.1.1", Principle: "Perceivable",
		},
		Recommendation: "Keep alt text under 125 characters. Move longer descriptions into the page.",
	},
	"image_missing_dimensions": {
		Severity:       SeverityInfo,
		Category:       CategoryPerformance,
		Recommendation: "Set width and height attributes to avoid layout shift while loading.",
	},
	"image_too_large": {
		Severity:       SeverityWarning,
		Category:       CategoryPerformance,
		Recommendation: "Compress the image or serve a modern format (WebP/AVIF) under 200KB.",
	},
	"image_broken": {
		Severity:       SeverityWarning,
		Category:       CategoryTechnical,
		Recommendation: "Fix or remove the broken image reference.",
	},

	// === Redirect chains ===
	"redirect_loop": {
		Severity:       SeverityCritical,
		Category:       CategoryTechnical,
		Recommendation: "Break the redirect loop. Looping pages are unreachable for users and crawlers.",
	},
	"redirect_chain_too_long": {
		Severity:       SeverityWarning,
		Category:       CategoryTechnical,
		Recommendation: "Point the first redirect directly at the final URL.",
	},

	// === Accessibility (page-level) ===
	"missing_lang_attribute": {
		Severity: SeverityWarning,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelA, Version: "2.1", Criterion: "3.1.1", Principle: "Understandable",
		},
		Recommendation: "Set the lang attribute on the <html> element so screen readers pick the right voice.",
	},
	"viewport_scaling_disabled": {
		Severity: SeverityWarning,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelAA, Version: "2.1", Criterion: "1.4.4", Principle: "Perceivable",
		},
		Recommendation: "Remove user-scalable=no and maximum-scale so users can zoom text.",
	},
	"missing_viewport": {
		Severity: SeverityInfo,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelAA, Version: "2.1", Criterion: "1.4.10", Principle: "Perceivable",
		},
		Recommendation: "Add a responsive viewport meta tag so content reflows on small screens.",
	},
	"low_contrast_text": {
		Severity: SeverityWarning,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelAA, Version: "2.1", Criterion: "1.4.3", Principle: "Perceivable",
		},
		Recommendation: "Increase the contrast ratio to at least 4.5:1 for normal text.",
	},
	"low_contrast_enhanced": {
		Severity: SeverityInfo,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelAAA, Version: "2.1", Criterion: "1.4.6", Principle: "Perceivable",
		},
		Recommendation: "For AAA conformance, increase the contrast ratio to at least 7:1.",
	},
	"form_input_missing_label": {
		Severity: SeverityCritical,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelA, Version: "2.1", Criterion: "3.3.2", Principle: "Understandable",
		},
		Recommendation: "Associate every form input with a <label> (or aria-label).",
	},
	"missing_landmarks": {
		Severity: SeverityWarning,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelA, Version: "2.1", Criterion: "1.3.1", Principle: "Perceivable",
		},
		Recommendation: "Use <main>, <nav>, and <header> landmarks so assistive tech can navigate.",
	},
	"generic_link_text": {
		Severity: SeverityWarning,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelA, Version: "2.1", Criterion: "2.4.4", Principle: "Operable",
		},
		Recommendation: "Replace generic link text (\"click here\", \"mehr\") with descriptive text.",
	},
	"missing_skip_link": {
		Severity: SeverityInfo,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelA, Version: "2.1", Criterion: "2.4.1", Principle: "Operable",
		},
		Recommendation: "Add a skip-to-content link as the first focusable element.",
	},
	"positive_tabindex": {
		Severity: SeverityWarning,
		Category: CategoryAccessibility,
		WCAG: &WCAGInfo{
			Level: WCAGLevelA, Version: "2.2", Criterion: "2.4.3", Principle: "Operable",
		},
		Recommendation: "Remove positive tabindex values. They break the natural focus order.",
	},

	// === BFSG (German accessibility-disclosure law) ===
	"bfsg_missing_accessibility_statement": {
		Severity:       SeverityWarning,
		Category:       CategoryAccessibility,
		Recommendation: "Link an accessibility statement (Erklärung zur Barrierefreiheit) from every page.",
	},
	"bfsg_missing_imprint_link": {
		Severity:       SeverityWarning,
		Category:       CategoryAccessibility,
		Recommendation: "Link an imprint (Impressum) page. German law requires it to be reachable.",
	},
	"bfsg_missing_contact_link": {
		Severity:       SeverityInfo,
		Category:       CategoryAccessibility,
		Recommendation: "Provide an easy-to-find contact link for accessibility feedback.",
	},

	// === Duplicate content (cross-page) ===
	"duplicate_title": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Write a unique title for every page.",
	},
	"duplicate_meta_description": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Write a unique meta description for every page.",
	},
	"duplicate_h1": {
		Severity:       SeverityWarning,
		Category:       CategorySEO,
		Recommendation: "Use a distinct H1 per page so each page targets its own topic.",
	},

	// === robots.txt ===
	"robots_not_found": {
		Severity:       SeverityWarning,
		Category:       CategoryTechnical,
		Recommendation: "Create a robots.txt file in the web root.",
	},
	"robots_fetch_error": {
		Severity:       SeverityWarning,
		Category:       CategoryTechnical,
		Recommendation: "Make sure robots.txt is publicly reachable.",
	},
	"robots_no_wildcard_agent": {
		Severity:       SeverityWarning,
		Category:       CategoryTechnical,
		Recommendation: "Add a User-agent: * block so all crawlers are addressed.",
	},
	"robots_no_sitemap": {
		Severity:       SeverityInfo,
		Category:       CategoryTechnical,
		Recommendation: "Add a 'Sitemap: https://domain.example/sitemap.xml' line to robots.txt.",
	},
	"robots_all_blocked": {
		Severity:       SeverityCritical,
		Category:       CategoryTechnical,
		Recommendation: "Review robots.txt: all pages are currently blocked for search engines.",
	},

	// === Sitemap ===
	"sitemap_not_found": {
		Severity:       SeverityWarning,
		Category:       CategoryTechnical,
		Recommendation: "Create a sitemap.xml and reference it from robots.txt.",
	},
	"sitemap_parse_error": {
		Severity:       SeverityCritical,
		Category:       CategoryTechnical,
		Recommendation: "Make sure the sitemap is valid XML.",
	},
	"sitemap_no_lastmod": {
		Severity:       SeverityInfo,
		Category:       CategoryTechnical,
		Recommendation: "Add lastmod tags so search engines detect changes faster.",
	},
	"sitemap_no_changefreq": {
		Severity:       SeverityInfo,
		Category:       CategoryTechnical,
		Recommendation: "Add changefreq tags as a crawl hint.",
	},
	"sitemap_too_large": {
		Severity:       SeverityWarning,
		Category:       CategoryTechnical,
		Recommendation: "Split the sitemap into multiple files and use a sitemap index.",
	},
	"sitemap_child_fetch_error": {
		Severity:       SeverityWarning,
		Category:       CategoryTechnical,
		Recommendation: "Check that every child sitemap referenced by the index is reachable.",
	},
}

// GetIssueInfo returns the metadata for an issue type.
// Unknown types default to an informational SEO finding so a missing map
// entry never drops a finding on the floor.
func GetIssueInfo(issueType string) IssueInfo {
	if info, ok := issueInfoMapping[issueType]; ok {
		return info
	}
	return IssueInfo{
		Severity:       SeverityInfo,
		Category:       CategorySEO,
		Recommendation: "Review this finding manually.",
	}
}

// NewIssue builds an Issue for the given type and description, filling
// severity, category, recommendation, and WCAG metadata from the mapping.
func NewIssue(issueType, pageURL, description string) Issue {
	info := GetIssueInfo(issueType)
	return Issue{
		Severity:       info.Severity,
		Category:       info.Category,
		Type:           issueType,
		Description:    description,
		Recommendation: info.Recommendation,
		PageURL:        pageURL,
		WCAG:           info.WCAG,
	}
}

// SeverityCounts tallies issues by severity.
type SeverityCounts struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// Add increments the counter matching the issue's severity.
func (c *SeverityCounts) Add(issue Issue) {
	switch issue.Severity {
	case SeverityCritical:
		c.Critical++
	case SeverityWarning:
		c.Warning++
	case SeverityInfo:
		c.Info++
	}
}

// Total returns the sum of all severity counters.
func (c SeverityCounts) Total() int {
	return c.Critical + c.Warning + c.Info
}

// CountBySeverity performs a full scan of the issue slice and returns
// fresh counters. The orchestrator uses this after the duplicate pass to
// recompute aggregates instead of trusting incremental counts.
func CountBySeverity(issues []Issue) SeverityCounts {
	var counts SeverityCounts
	for _, issue := range issues {
		counts.Add(issue)
	}
	return counts
}
