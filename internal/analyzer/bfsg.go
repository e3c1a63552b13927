package analyzer

import "github.com/seoscan/seoscan/internal/model"

// bfsgIssues checks the disclosure links the German Barrierefreiheits-
// stärkungsgesetz expects a site to offer. These are site-level findings:
// one reachable link anywhere on the site satisfies each requirement.
func bfsgIssues(siteURL string, pages []model.PageRecord) []model.Issue {
	var statement, imprint, contact bool
	crawledHTML := false

	for _, page := range pages {
		if page.Failed() || !page.IsHTML() {
			continue
		}
		crawledHTML = true
		if page.Accessibility.StatementLinkFound {
			statement = true
		}
		if page.Accessibility.ImprintLinkFound {
			imprint = true
		}
		if page.Accessibility.ContactLinkFound {
			contact = true
		}
	}

	// A crawl that saw no HTML can't prove anything is missing.
	if !crawledHTML {
		return nil
	}

	var issues []model.Issue
	if !statement {
		issues = append(issues, model.NewIssue("bfsg_missing_accessibility_statement", siteURL,
			"No page links an accessibility statement (Erklärung zur Barrierefreiheit)"))
	}
	if !imprint {
		issues = append(issues, model.NewIssue("bfsg_missing_imprint_link", siteURL,
			"No page links an imprint (Impressum)"))
	}
	if !contact {
		issues = append(issues, model.NewIssue("bfsg_missing_contact_link", siteURL,
			"No page links a contact page"))
	}
	return issues
}
