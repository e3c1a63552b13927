package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/seoscan/seoscan/internal/model"
	"golang.org/x/text/cases"
)

// maxListedSiblings caps how many duplicate URLs one finding names.
// Beyond that the description says how many more exist; a hundred-page
// template bug would otherwise bloat every single finding.
const maxListedSiblings = 3

// foldCaser normalizes duplicate keys case-insensitively across scripts.
var foldCaser = cases.Fold()

// duplicateField describes one deduplicated page attribute.
type duplicateField struct {
	issueType string
	label     string
	value     func(*model.PageRecord) string
}

var duplicateFields = []duplicateField{
	{
		issueType: "duplicate_title",
		label:     "title",
		value:     func(p *model.PageRecord) string { return p.Title },
	},
	{
		issueType: "duplicate_meta_description",
		label:     "meta description",
		value:     func(p *model.PageRecord) string { return p.MetaDescription },
	},
	{
		issueType: "duplicate_h1",
		label:     "H1",
		value: func(p *model.PageRecord) string {
			if len(p.H1) == 0 {
				return ""
			}
			return p.H1[0]
		},
	},
}

// DetectDuplicates finds pages sharing a title, meta description, or
// primary H1. Every member of a duplicate group gets a finding naming up
// to maxListedSiblings other members.
//
// Only healthy HTML pages participate: error pages share boilerplate by
// nature and already carry their own findings.
func DetectDuplicates(pages []model.PageRecord) []model.Issue {
	var issues []model.Issue

	for _, field := range duplicateFields {
		groups := make(map[string][]string)
		for i := range pages {
			page := &pages[i]
			if page.Failed() || page.StatusCode != 200 || !page.IsHTML() {
				continue
			}
			key := normalizeDuplicateKey(field.value(page))
			if key == "" {
				continue
			}
			groups[key] = append(groups[key], page.URL)
		}

		// Deterministic output order regardless of map iteration.
		keys := make([]string, 0, len(groups))
		for key, urls := range groups {
			if len(urls) > 1 {
				keys = append(keys, key)
			}
		}
		sort.Strings(keys)

		for _, key := range keys {
			urls := groups[key]
			sort.Strings(urls)
			for _, pageURL := range urls {
				issues = append(issues, model.NewIssue(field.issueType, pageURL,
					describeDuplicates(field.label, pageURL, urls)))
			}
		}
	}
	return issues
}

// describeDuplicates builds "Same title as: a, b, c (+2 more)".
func describeDuplicates(label, self string, urls []string) string {
	siblings := make([]string, 0, len(urls)-1)
	for _, u := range urls {
		if u != self {
			siblings = append(siblings, u)
		}
	}

	listed := siblings
	overflow := 0
	if len(listed) > maxListedSiblings {
		overflow = len(listed) - maxListedSiblings
		listed = listed[:maxListedSiblings]
	}

	desc := fmt.Sprintf("Same %s as: %s", label, strings.Join(listed, ", "))
	if overflow > 0 {
		desc += fmt.Sprintf(" (+%d more)", overflow)
	}
	return desc
}

// normalizeDuplicateKey folds case and collapses whitespace so cosmetic
// differences don't hide real duplication.
func normalizeDuplicateKey(s string) string {
	return foldCaser.String(strings.Join(strings.Fields(s), " "))
}
