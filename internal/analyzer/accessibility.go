package analyzer

import (
	"fmt"
	"strings"

	"github.com/seoscan/seoscan/internal/model"
)

// accessibilityRules returns the WCAG page rules in evaluation order.
func accessibilityRules() []pageRule {
	return []pageRule{
		{name: "lang", check: checkLang},
		{name: "viewport", check: checkViewport},
		{name: "form_labels", check: checkFormLabels},
		{name: "landmarks", check: checkLandmarks},
		{name: "link_text", check: checkLinkText},
		{name: "skip_link", check: checkSkipLink},
		{name: "tabindex", check: checkTabindex},
		{name: "contrast", check: checkContrast},
	}
}

func checkLang(page *model.PageRecord) []model.Issue {
	if strings.TrimSpace(page.Accessibility.LangAttribute) != "" {
		return nil
	}
	return []model.Issue{model.NewIssue("missing_lang_attribute", page.URL,
		"The html element has no lang attribute")}
}

func checkViewport(page *model.PageRecord) []model.Issue {
	a11y := page.Accessibility

	if !a11y.HasViewportMeta {
		return []model.Issue{model.NewIssue("missing_viewport", page.URL,
			"Page has no viewport meta tag")}
	}

	content := a11y.ViewportContent
	if strings.Contains(content, "user-scalable=no") ||
		strings.Contains(content, "user-scalable=0") ||
		strings.Contains(content, "maximum-scale=1.0") ||
		strings.Contains(content, "maximum-scale=1,") ||
		strings.HasSuffix(content, "maximum-scale=1") {
		return []model.Issue{model.NewIssue("viewport_scaling_disabled", page.URL,
			fmt.Sprintf("Viewport forbids zooming: %q", a11y.ViewportContent))}
	}
	return nil
}

func checkFormLabels(page *model.PageRecord) []model.Issue {
	a11y := page.Accessibility
	if a11y.UnlabeledInputs == 0 {
		return nil
	}
	return []model.Issue{model.NewIssue("form_input_missing_label", page.URL,
		fmt.Sprintf("%d of %d form inputs have no associated label", a11y.UnlabeledInputs, a11y.TotalInputs))}
}

func checkLandmarks(page *model.PageRecord) []model.Issue {
	a11y := page.Accessibility
	if a11y.HasMainLandmark {
		return nil
	}
	missing := []string{"main"}
	if !a11y.HasNavLandmark {
		missing = append(missing, "nav")
	}
	if !a11y.HasHeaderLandmark {
		missing = append(missing, "header")
	}
	return []model.Issue{model.NewIssue("missing_landmarks", page.URL,
		fmt.Sprintf("Page lacks landmark elements: %s", strings.Join(missing, ", ")))}
}

func checkLinkText(page *model.PageRecord) []model.Issue {
	texts := page.Accessibility.GenericLinkTexts
	if len(texts) == 0 {
		return nil
	}
	return []model.Issue{model.NewIssue("generic_link_text", page.URL,
		fmt.Sprintf("%d link(s) use generic text such as %q", len(texts), texts[0]))}
}

func checkSkipLink(page *model.PageRecord) []model.Issue {
	if page.Accessibility.HasSkipLink {
		return nil
	}
	return []model.Issue{model.NewIssue("missing_skip_link", page.URL,
		"Page has no skip-to-content link")}
}

func checkTabindex(page *model.PageRecord) []model.Issue {
	n := page.Accessibility.PositiveTabindexes
	if n == 0 {
		return nil
	}
	return []model.Issue{model.NewIssue("positive_tabindex", page.URL,
		fmt.Sprintf("%d element(s) use a positive tabindex", n))}
}

// checkContrast evaluates the inline color samples the extractor recorded.
// A pair below the AA minimum is the real finding; a pair that passes AA
// but misses AAA is only informational.
func checkContrast(page *model.PageRecord) []model.Issue {
	var issues []model.Issue

	for _, sample := range page.Accessibility.ContrastSamples {
		ratio, err := ContrastRatio(sample.Foreground, sample.Background)
		if err != nil {
			continue
		}
		switch {
		case ratio < contrastMinAA:
			issues = append(issues, model.NewIssue("low_contrast_text", page.URL,
				fmt.Sprintf("Text contrast %.2f:1 on <%s> is below %.1f:1 (%s on %s)",
					ratio, sample.Selector, contrastMinAA, sample.Foreground, sample.Background)))
		case ratio < contrastMinAAA:
			issues = append(issues, model.NewIssue("low_contrast_enhanced", page.URL,
				fmt.Sprintf("Text contrast %.2f:1 on <%s> misses the enhanced %.0f:1 minimum",
					ratio, sample.Selector, contrastMinAAA)))
		}
	}
	return issues
}
