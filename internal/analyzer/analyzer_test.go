package analyzer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/seoscan/seoscan/internal/model"
)

// variedText returns n distinct words so no keyword dominates.
func variedText(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "wort%03d ", i)
	}
	return sb.String()
}

// healthyPage returns a page that triggers no findings at all. Tests
// break one aspect at a time and assert on the single resulting issue.
func healthyPage() *model.PageRecord {
	return &model.PageRecord{
		URL:             "https://www.example.com/artikel/barrierefreies-webdesign",
		StatusCode:      200,
		ContentType:     "text/html; charset=utf-8",
		ResponseTime:    0.1,
		Title:           "Barrierefreies Webdesign: der komplette Leitfaden",
		MetaDescription: strings.Repeat("Eine gute Beschreibung. ", 4), // 96 chars
		H1:              []string{"Barrierefreies Webdesign"},
		WordCount:       800,
		BodyTextSample:  variedText(400),
		InternalLinkCount: 12,
		ExternalLinkCount: 3,
		Social: model.SocialMeta{
			OGTitle:     "Barrierefreies Webdesign",
			TwitterCard: "summary",
			HasJSONLD:   true,
		},
		Accessibility: model.AccessibilitySignals{
			LangAttribute:     "de",
			HasViewportMeta:   true,
			ViewportContent:   "width=device-width, initial-scale=1",
			HasMainLandmark:   true,
			HasNavLandmark:    true,
			HasHeaderLandmark: true,
			HasSkipLink:       true,
		},
	}
}

func issueTypes(issues []model.Issue) map[string]int {
	types := make(map[string]int)
	for _, issue := range issues {
		types[issue.Type]++
	}
	return types
}

func TestAnalyzePageHealthyPageHasOnlyKeywordSummary(t *testing.T) {
	t.Parallel()

	// The keyword summary is informational and fires on every page with
	// enough text, so it is the one finding a healthy page carries.
	issues := New().AnalyzePage(healthyPage())
	if len(issues) != 1 {
		t.Fatalf("healthy page produced %d issues: %v", len(issues), issueTypes(issues))
	}
	if issues[0].Type != "keyword_density" || issues[0].Severity != model.SeverityInfo {
		t.Errorf("got %s (%s), want informational keyword_density", issues[0].Type, issues[0].Severity)
	}
}

// Status classes short-circuit content rules: a 404 page must not also be
// flagged for missing title or thin content.
func TestAnalyzePageStatusShortCircuit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*model.PageRecord)
		wantType string
	}{
		{
			name:     "500 yields only server_error",
			mutate:   func(p *model.PageRecord) { p.StatusCode = 500 },
			wantType: "server_error",
		},
		{
			name:     "404 yields only client_error",
			mutate:   func(p *model.PageRecord) { p.StatusCode = 404 },
			wantType: "client_error",
		},
		{
			name:     "fetch error yields only server_error",
			mutate:   func(p *model.PageRecord) { p.FetchError = "dial tcp: timeout" },
			wantType: "server_error",
		},
		{
			name: "uncut 3xx yields only redirect",
			mutate: func(p *model.PageRecord) {
				p.StatusCode = 301
				p.Redirects = nil
			},
			wantType: "redirect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := healthyPage()
			page.Title = "" // would trigger missing_title if rules ran
			tt.mutate(page)

			issues := New().AnalyzePage(page)
			if len(issues) != 1 {
				t.Fatalf("got %d issues, want 1: %v", len(issues), issueTypes(issues))
			}
			if issues[0].Type != tt.wantType {
				t.Errorf("issue type = %q, want %q", issues[0].Type, tt.wantType)
			}
		})
	}
}

// The status-class finding leads the issue list even when the page was
// reached through redirects.
func TestAnalyzePageStatusFindingLeads(t *testing.T) {
	t.Parallel()

	page := healthyPage()
	page.StatusCode = 500
	page.FinalURL = "https://www.example.com/ziel"
	page.Redirects = []model.RedirectHop{
		{FromURL: "https://www.example.com/alt", ToURL: "https://www.example.com/ziel", Status: 301},
	}

	issues := New().AnalyzePage(page)
	if len(issues) < 2 {
		t.Fatalf("got %d issues, want server_error plus redirect: %v", len(issues), issueTypes(issues))
	}
	if issues[0].Type != "server_error" {
		t.Errorf("first issue = %q, want server_error", issues[0].Type)
	}
	if issues[1].Type != "redirect" {
		t.Errorf("second issue = %q, want redirect", issues[1].Type)
	}
}

func TestAnalyzePageRedirectChain(t *testing.T) {
	t.Parallel()

	t.Run("single hop is just a redirect finding", func(t *testing.T) {
		t.Parallel()

		page := healthyPage()
		page.FinalURL = "https://www.example.com/neu"
		page.Redirects = []model.RedirectHop{
			{FromURL: "https://www.example.com/alt", ToURL: "https://www.example.com/neu", Status: 301},
		}

		types := issueTypes(New().AnalyzePage(page))
		if types["redirect"] != 1 {
			t.Errorf("redirect findings = %d, want 1", types["redirect"])
		}
		if types["redirect_chain_too_long"] != 0 || types["redirect_loop"] != 0 {
			t.Errorf("unexpected chain findings: %v", types)
		}
	})

	t.Run("three hops flag a long chain", func(t *testing.T) {
		t.Parallel()

		page := healthyPage()
		page.Redirects = []model.RedirectHop{
			{FromURL: "https://a.example/1", Status: 301},
			{FromURL: "https://a.example/2", Status: 302},
			{FromURL: "https://a.example/3", Status: 301},
		}

		types := issueTypes(New().AnalyzePage(page))
		if types["redirect_chain_too_long"] != 1 {
			t.Errorf("redirect_chain_too_long = %d, want 1: %v", types["redirect_chain_too_long"], types)
		}
	})

	t.Run("revisited URL flags a loop", func(t *testing.T) {
		t.Parallel()

		page := healthyPage()
		page.StatusCode = 302
		page.Redirects = []model.RedirectHop{
			{FromURL: "https://a.example/x", Status: 302},
			{FromURL: "https://a.example/y", Status: 302},
			{FromURL: "https://a.example/x", Status: 302},
		}

		types := issueTypes(New().AnalyzePage(page))
		if types["redirect_loop"] != 1 {
			t.Errorf("redirect_loop = %d, want 1: %v", types["redirect_loop"], types)
		}
	})
}

func TestAnalyzeSite(t *testing.T) {
	t.Parallel()

	pageWithLinks := healthyPage()
	pageWithLinks.Accessibility.ImprintLinkFound = true
	pageWithLinks.Accessibility.ContactLinkFound = true
	pageWithLinks.Accessibility.StatementLinkFound = true

	issues := New().AnalyzeSite("https://www.example.com", []model.PageRecord{*pageWithLinks})
	if len(issues) != 0 {
		t.Errorf("compliant site produced issues: %v", issueTypes(issues))
	}

	bare := healthyPage()
	issues = New().AnalyzeSite("https://www.example.com", []model.PageRecord{*bare})
	types := issueTypes(issues)
	for _, want := range []string{
		"bfsg_missing_accessibility_statement",
		"bfsg_missing_imprint_link",
		"bfsg_missing_contact_link",
	} {
		if types[want] != 1 {
			t.Errorf("missing site finding %s: %v", want, types)
		}
	}
}

func TestBFSGNeedsCrawledHTML(t *testing.T) {
	t.Parallel()

	failed := model.PageRecord{URL: "https://a.example/", FetchError: "timeout"}
	issues := bfsgIssues("https://a.example", []model.PageRecord{failed})
	if len(issues) != 0 {
		t.Errorf("failed-only crawl produced BFSG findings: %v", issueTypes(issues))
	}
}
