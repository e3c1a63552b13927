package analyzer

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/seoscan/seoscan/internal/crawler"
	"github.com/seoscan/seoscan/internal/model"
)

// SEO thresholds. The title and description bounds follow what Google
// actually renders in result snippets.
const (
	titleMinLen = 30
	titleMaxLen = 60

	metaDescriptionMinLen = 70
	metaDescriptionMaxLen = 160

	lowWordCountWords  = 100
	thinContentWords   = 300
	slowResponseSecs   = 3.0
	urlMaxLen          = 100
	urlMaxPathSegments = 5
	maxExternalLinks   = 100

	keywordSummaryMinWords = 100
	keywordSummaryCount    = 10

	imageAltMaxLen = 125
	imageMaxBytes  = 200 * 1024
)

// seoRules returns the SEO page rules in evaluation order.
func seoRules() []pageRule {
	return []pageRule{
		{name: "title", check: checkTitle},
		{name: "meta_description", check: checkMetaDescription},
		{name: "headings", check: checkHeadings},
		{name: "images", check: checkImages},
		{name: "content", check: checkContent},
		{name: "keywords", check: checkKeywords},
		{name: "response_time", check: checkResponseTime},
		{name: "indexability", check: checkIndexability},
		{name: "url_hygiene", check: checkURLHygiene},
		{name: "social", check: checkSocial},
		{name: "links", check: checkLinks},
	}
}

func checkTitle(page *model.PageRecord) []model.Issue {
	title := strings.TrimSpace(page.Title)
	// Length limits are in characters, not bytes; umlauts must not
	// double-count on German pages.
	length := utf8.RuneCountInString(title)
	switch {
	case title == "":
		return []model.Issue{model.NewIssue("missing_title", page.URL, "Page has no title tag")}
	case length < titleMinLen:
		return []model.Issue{model.NewIssue("title_too_short", page.URL,
			fmt.Sprintf("Title is %d characters (minimum %d): %q", length, titleMinLen, title))}
	case length > titleMaxLen:
		return []model.Issue{model.NewIssue("title_too_long", page.URL,
			fmt.Sprintf("Title is %d characters (maximum %d)", length, titleMaxLen))}
	}
	return nil
}

func checkMetaDescription(page *model.PageRecord) []model.Issue {
	desc := strings.TrimSpace(page.MetaDescription)
	length := utf8.RuneCountInString(desc)
	switch {
	case desc == "":
		return []model.Issue{model.NewIssue("missing_meta_description", page.URL, "Page has no meta description")}
	case length < metaDescriptionMinLen:
		return []model.Issue{model.NewIssue("meta_description_too_short", page.URL,
			fmt.Sprintf("Meta description is %d characters (minimum %d)", length, metaDescriptionMinLen))}
	case length > metaDescriptionMaxLen:
		return []model.Issue{model.NewIssue("meta_description_too_long", page.URL,
			fmt.Sprintf("Meta description is %d characters (maximum %d)", length, metaDescriptionMaxLen))}
	}
	return nil
}

func checkHeadings(page *model.PageRecord) []model.Issue {
	// Blank headings don't count; an empty <h1></h1> names nothing.
	var h1 []string
	for _, h := range page.H1 {
		if strings.TrimSpace(h) != "" {
			h1 = append(h1, h)
		}
	}

	switch {
	case len(h1) == 0:
		return []model.Issue{model.NewIssue("missing_h1", page.URL, "Page has no H1 heading")}
	case len(h1) > 1:
		return []model.Issue{model.NewIssue("multiple_h1", page.URL,
			fmt.Sprintf("Page has %d H1 headings", len(h1)))}
	}
	return nil
}

func checkImages(page *model.PageRecord) []model.Issue {
	var issues []model.Issue

	if missing := page.ImagesWithoutAlt(); missing > 0 {
		issues = append(issues, model.NewIssue("images_missing_alt", page.URL,
			fmt.Sprintf("%d of %d images have no alt text", missing, page.ImageCount)))
	}

	for _, img := range page.Images {
		switch {
		case !img.AltPresent:
			issues = append(issues, model.NewIssue("image_alt_missing", page.URL,
				fmt.Sprintf("Image %s has no alt attribute", img.URL)))
		case strings.TrimSpace(img.Alt) == "":
			issues = append(issues, model.NewIssue("image_alt_empty", page.URL,
				fmt.Sprintf("Image %s has an empty alt attribute", img.URL)))
		case utf8.RuneCountInString(img.Alt) > imageAltMaxLen:
			issues = append(issues, model.NewIssue("image_alt_too_long", page.URL,
				fmt.Sprintf("Alt text of %s is %d characters (maximum %d)",
					img.URL, utf8.RuneCountInString(img.Alt), imageAltMaxLen)))
		}

		if img.Width == "" || img.Height == "" {
			issues = append(issues, model.NewIssue("image_missing_dimensions", page.URL,
				fmt.Sprintf("Image %s has no explicit width/height", img.URL)))
		}
		if img.Broken {
			issues = append(issues, model.NewIssue("image_broken", page.URL,
				fmt.Sprintf("Image %s could not be loaded", img.URL)))
		}
		if img.SizeBytes > imageMaxBytes {
			issues = append(issues, model.NewIssue("image_too_large", page.URL,
				fmt.Sprintf("Image %s is %d KB (maximum %d KB)",
					img.URL, img.SizeBytes/1024, imageMaxBytes/1024)))
		}
	}
	return issues
}

func checkContent(page *model.PageRecord) []model.Issue {
	// Zero words usually means a non-text page, not thin content.
	switch {
	case page.WordCount == 0:
		return nil
	case page.WordCount < lowWordCountWords:
		return []model.Issue{model.NewIssue("low_word_count", page.URL,
			fmt.Sprintf("Page has only %d words", page.WordCount))}
	case page.WordCount < thinContentWords:
		return []model.Issue{model.NewIssue("thin_content", page.URL,
			fmt.Sprintf("Page has %d words (below %d)", page.WordCount, thinContentWords))}
	}
	return nil
}

// checkKeywords reports the dominant keywords of a page as one
// informational finding. Pages under 100 words carry too little text for
// the densities to mean anything, so they are skipped.
func checkKeywords(page *model.PageRecord) []model.Issue {
	if page.WordCount < keywordSummaryMinWords || strings.TrimSpace(page.BodyTextSample) == "" {
		return nil
	}
	keywords := TopKeywords(page.BodyTextSample, keywordSummaryCount)
	if len(keywords) == 0 {
		return nil
	}

	parts := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		parts = append(parts, fmt.Sprintf("%s (%.1f%%)", kw.Word, kw.Density*100))
	}
	desc := "Top keywords: " + strings.Join(parts, ", ")
	if top := keywords[0]; top.Density > keywordDensityMax {
		desc += fmt.Sprintf("; %q exceeds %.0f%% and may read as keyword stuffing",
			top.Word, keywordDensityMax*100)
	}
	return []model.Issue{model.NewIssue("keyword_density", page.URL, desc)}
}

func checkResponseTime(page *model.PageRecord) []model.Issue {
	if page.ResponseTime <= slowResponseSecs {
		return nil
	}
	return []model.Issue{model.NewIssue("slow_response", page.URL,
		fmt.Sprintf("Response took %.2fs (threshold %.1fs)", page.ResponseTime, slowResponseSecs))}
}

func checkIndexability(page *model.PageRecord) []model.Issue {
	var issues []model.Issue

	if strings.Contains(page.MetaRobots, "noindex") {
		issues = append(issues, model.NewIssue("noindex", page.URL,
			"Page carries a noindex robots directive"))
	}

	if page.Canonical != "" {
		canonical := crawler.NormalizeURL(page.Canonical)
		self := crawler.NormalizeURL(page.EffectiveURL())
		if canonical != self {
			issues = append(issues, model.NewIssue("canonical_mismatch", page.URL,
				fmt.Sprintf("Canonical points to %s", page.Canonical)))
		}
	}
	return issues
}

func checkURLHygiene(page *model.PageRecord) []model.Issue {
	var issues []model.Issue

	if len(page.URL) > urlMaxLen {
		issues = append(issues, model.NewIssue("url_too_long", page.URL,
			fmt.Sprintf("URL is %d characters (maximum %d)", len(page.URL), urlMaxLen)))
	}

	u, err := url.Parse(page.URL)
	if err != nil {
		return issues
	}

	if u.Path != strings.ToLower(u.Path) {
		issues = append(issues, model.NewIssue("url_uppercase", page.URL,
			"URL path contains uppercase characters"))
	}
	if strings.Contains(u.Path, " ") || strings.Contains(page.URL, "%20") {
		issues = append(issues, model.NewIssue("url_contains_spaces", page.URL,
			"URL contains spaces"))
	}

	segments := 0
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			segments++
		}
	}
	if segments > urlMaxPathSegments {
		issues = append(issues, model.NewIssue("url_too_deep", page.URL,
			fmt.Sprintf("URL path has %d segments (maximum %d)", segments, urlMaxPathSegments)))
	}
	return issues
}

func checkSocial(page *model.PageRecord) []model.Issue {
	var issues []model.Issue

	if page.Social.OGTitle == "" && page.Social.OGDescription == "" {
		issues = append(issues, model.NewIssue("missing_og_tags", page.URL,
			"Page has no Open Graph tags"))
	}
	if page.Social.TwitterCard == "" {
		issues = append(issues, model.NewIssue("missing_twitter_card", page.URL,
			"Page has no Twitter Card meta tag"))
	}
	if !page.Social.HasJSONLD {
		issues = append(issues, model.NewIssue("missing_structured_data", page.URL,
			"Page has no JSON-LD structured data"))
	}
	return issues
}

func checkLinks(page *model.PageRecord) []model.Issue {
	var issues []model.Issue

	if page.InternalLinkCount == 0 {
		issues = append(issues, model.NewIssue("no_internal_links", page.URL,
			"Page links to no other page of the site"))
	}
	if page.ExternalLinkCount > maxExternalLinks {
		issues = append(issues, model.NewIssue("too_many_external_links", page.URL,
			fmt.Sprintf("Page has %d external links (more than %d)", page.ExternalLinkCount, maxExternalLinks)))
	}
	return issues
}
