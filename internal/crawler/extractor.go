package crawler

import (
	"bytes"
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/seoscan/seoscan/internal/model"
)

// Extractor pulls SEO and accessibility evidence out of an HTML document.
// It fills the content fields of a model.PageRecord; interpreting the
// evidence is the analyzer's job.
//
// Design decision: We use goquery rather than walking the x/net/html tree
// by hand because:
//  1. Selector-based extraction reads like the audit rules it feeds
//  2. goquery tolerates the malformed HTML real sites serve
//  3. One Document parse serves all extraction passes
type Extractor struct {
	// baseURL is the URL of the page being parsed, used for resolving
	// relative URLs and classifying links.
	baseURL *url.URL
}

// NewExtractor creates an Extractor for a page at the given URL.
func NewExtractor(pageURL string) (*Extractor, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	return &Extractor{baseURL: u}, nil
}

// genericLinkTexts are anchor texts that tell a screen reader user nothing
// about the link target. Both English and German variants are checked
// because the tool is used on German-market sites.
var genericLinkTexts = map[string]bool{
	"click here":   true,
	"here":         true,
	"read more":    true,
	"more":         true,
	"link":         true,
	"mehr":         true,
	"weiterlesen":  true,
	"hier":         true,
	"hier klicken": true,
	"weiter":       true,
}

// skipLinkTexts identify skip-to-content links by their anchor text.
var skipLinkTexts = []string{
	"skip to content", "skip to main", "skip navigation",
	"zum inhalt", "zum hauptinhalt", "navigation überspringen",
}

// inlineColorPair matches elements that set both text and background color
// inline. Only inline styles are sampled; full CSS resolution is out of
// reach for a static crawler.
var (
	inlineColorRe   = regexp.MustCompile(`(?i)(?:^|;)\s*color\s*:\s*([^;]+)`)
	inlineBgColorRe = regexp.MustCompile(`(?i)background(?:-color)?\s*:\s*([^;]+)`)
)

// Extract parses the HTML body and fills the content fields of page.
// The record's URL, status, and timing fields are left untouched.
func (e *Extractor) Extract(body []byte, page *model.PageRecord) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return err
	}

	e.extractHead(doc, page)
	e.extractHeadings(doc, page)
	e.extractBodyText(doc, page)
	e.extractLinks(doc, page)
	e.extractImages(doc, page)
	e.extractSocial(doc, page)
	e.extractAccessibility(doc, page)

	return nil
}

func (e *Extractor) extractHead(doc *goquery.Document, page *model.PageRecord) {
	page.Title = strings.TrimSpace(doc.Find("head title").First().Text())

	doc.Find("head meta").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		switch strings.ToLower(name) {
		case "description":
			page.MetaDescription = strings.TrimSpace(content)
		case "robots":
			page.MetaRobots = strings.ToLower(strings.TrimSpace(content))
		case "viewport":
			page.Accessibility.HasViewportMeta = true
			page.Accessibility.ViewportContent = strings.ToLower(strings.TrimSpace(content))
		}
	})

	if href, ok := doc.Find(`head link[rel="canonical"]`).First().Attr("href"); ok {
		page.Canonical = e.resolveURL(href)
	}
}

func (e *Extractor) extractHeadings(doc *goquery.Document, page *model.PageRecord) {
	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		page.H1 = append(page.H1, strings.TrimSpace(s.Text()))
	})
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		page.H2 = append(page.H2, strings.TrimSpace(s.Text()))
	})
	page.H3Count = doc.Find("h3").Length()
}

func (e *Extractor) extractBodyText(doc *goquery.Document, page *model.PageRecord) {
	// Clone so removing non-content elements does not disturb later passes.
	body := doc.Find("body").Clone()
	body.Find("script, style, noscript, template").Remove()

	text := strings.Join(strings.Fields(body.Text()), " ")
	page.WordCount = len(strings.Fields(text))

	if len(text) > model.MaxBodyTextSample {
		text = text[:model.MaxBodyTextSample]
	}
	page.BodyTextSample = text
}

func (e *Extractor) extractLinks(doc *goquery.Document, page *model.PageRecord) {
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved := e.resolveURL(href)
		if resolved == "" {
			return
		}

		link := model.LinkInfo{
			URL:        resolved,
			AnchorText: strings.TrimSpace(s.Text()),
		}
		if rel, ok := s.Attr("rel"); ok && strings.Contains(strings.ToLower(rel), "nofollow") {
			link.NoFollow = true
		}

		if e.isInternal(resolved) {
			page.InternalLinkCount++
			if len(page.InternalLinks) < model.MaxStoredInternalLinks {
				page.InternalLinks = append(page.InternalLinks, link)
			}
		} else {
			page.ExternalLinkCount++
			if len(page.ExternalLinks) < model.MaxStoredExternalLinks {
				page.ExternalLinks = append(page.ExternalLinks, link)
			}
		}

		e.classifyComplianceLink(s, resolved, page)

		// Generic anchor text is an accessibility finding, recorded here
		// because only the extractor sees the anchor.
		lower := strings.ToLower(link.AnchorText)
		if genericLinkTexts[lower] {
			page.Accessibility.GenericLinkTexts = append(page.Accessibility.GenericLinkTexts, link.AnchorText)
		}
	})
}

// classifyComplianceLink spots imprint, contact, and accessibility-statement
// links required for German-market sites.
func (e *Extractor) classifyComplianceLink(s *goquery.Selection, resolved string, page *model.PageRecord) {
	text := strings.ToLower(strings.TrimSpace(s.Text()))
	target := strings.ToLower(resolved)

	matches := func(needles ...string) bool {
		for _, n := range needles {
			if strings.Contains(text, n) || strings.Contains(target, n) {
				return true
			}
		}
		return false
	}

	switch {
	case matches("barrierefreiheit", "accessibility-statement", "accessibility_statement", "erklaerung-zur-barrierefreiheit"):
		page.Accessibility.StatementLinkFound = true
		page.Accessibility.AccessibilityLinks = append(page.Accessibility.AccessibilityLinks, resolved)
	case matches("impressum", "imprint", "legal-notice"):
		page.Accessibility.ImprintLinkFound = true
	case matches("kontakt", "contact"):
		page.Accessibility.ContactLinkFound = true
	}
}

func (e *Extractor) extractImages(doc *goquery.Document, page *model.PageRecord) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		resolved := e.resolveURL(src)
		if resolved == "" {
			return
		}

		alt, altPresent := s.Attr("alt")
		width, _ := s.Attr("width")
		height, _ := s.Attr("height")

		page.ImageCount++
		page.Images = append(page.Images, model.ImageInfo{
			URL:        resolved,
			Alt:        strings.TrimSpace(alt),
			AltPresent: altPresent,
			Width:      width,
			Height:     height,
		})
	})
}

func (e *Extractor) extractSocial(doc *goquery.Document, page *model.PageRecord) {
	doc.Find("head meta").Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")

		switch strings.ToLower(prop) {
		case "og:title":
			page.Social.OGTitle = content
		case "og:description":
			page.Social.OGDescription = content
		case "og:image":
			page.Social.OGImage = content
		}
		if strings.ToLower(name) == "twitter:card" {
			page.Social.TwitterCard = content
		}
	})

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		page.Social.HasJSONLD = true
		if t := jsonLDType(s.Text()); t != "" {
			page.Social.JSONLDTypes = append(page.Social.JSONLDTypes, t)
		}
	})
}

// jsonLDType extracts the @type of a JSON-LD block. Best effort; invalid
// JSON still counts as structured data being present.
func jsonLDType(raw string) string {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return ""
	}
	switch t := obj["@type"].(type) {
	case string:
		return t
	case []any:
		if len(t) > 0 {
			if s, ok := t[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

func (e *Extractor) extractAccessibility(doc *goquery.Document, page *model.PageRecord) {
	a11y := &page.Accessibility

	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		a11y.LangAttribute = strings.TrimSpace(lang)
	}

	a11y.HasMainLandmark = doc.Find(`main, [role="main"]`).Length() > 0
	a11y.HasNavLandmark = doc.Find(`nav, [role="navigation"]`).Length() > 0
	a11y.HasHeaderLandmark = doc.Find(`header, [role="banner"]`).Length() > 0

	e.extractFormLabels(doc, a11y)
	e.extractSkipLink(doc, a11y)
	e.extractTabindex(doc, a11y)
	e.extractContrastSamples(doc, a11y)
}

// extractFormLabels counts form inputs that no label, aria attribute, or
// title names. Hidden and button-like inputs need no label.
func (e *Extractor) extractFormLabels(doc *goquery.Document, a11y *model.AccessibilitySignals) {
	labeledIDs := make(map[string]bool)
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		if id, ok := s.Attr("for"); ok {
			labeledIDs[id] = true
		}
	})

	doc.Find("input, select, textarea").Each(func(_ int, s *goquery.Selection) {
		typ, _ := s.Attr("type")
		switch strings.ToLower(typ) {
		case "hidden", "submit", "button", "reset", "image":
			return
		}
		a11y.TotalInputs++

		if id, ok := s.Attr("id"); ok && labeledIDs[id] {
			return
		}
		if _, ok := s.Attr("aria-label"); ok {
			return
		}
		if _, ok := s.Attr("aria-labelledby"); ok {
			return
		}
		if _, ok := s.Attr("title"); ok {
			return
		}
		if s.ParentsFiltered("label").Length() > 0 {
			return
		}
		a11y.UnlabeledInputs++
	})
}

func (e *Extractor) extractSkipLink(doc *goquery.Document, a11y *model.AccessibilitySignals) {
	doc.Find(`a[href^="#"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(s.Text()))
		for _, candidate := range skipLinkTexts {
			if strings.Contains(text, candidate) {
				a11y.HasSkipLink = true
				return false
			}
		}
		return true
	})
}

func (e *Extractor) extractTabindex(doc *goquery.Document, a11y *model.AccessibilitySignals) {
	doc.Find("[tabindex]").Each(func(_ int, s *goquery.Selection) {
		raw, _ := s.Attr("tabindex")
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 0 {
			a11y.PositiveTabindexes++
		}
	})
}

// extractContrastSamples records inline foreground/background color pairs.
// The analyzer computes the actual contrast ratios.
func (e *Extractor) extractContrastSamples(doc *goquery.Document, a11y *model.AccessibilitySignals) {
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		fg := inlineColorRe.FindStringSubmatch(style)
		bg := inlineBgColorRe.FindStringSubmatch(style)
		if fg == nil || bg == nil {
			return
		}
		a11y.ContrastSamples = append(a11y.ContrastSamples, model.ContrastSample{
			Foreground: strings.TrimSpace(fg[1]),
			Background: strings.TrimSpace(bg[1]),
			Selector:   goquery.NodeName(s),
		})
	})
}

// resolveURL resolves a relative URL against the page URL.
// Non-navigable schemes and bare fragments resolve to "".
func (e *Extractor) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}
	if strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return e.baseURL.ResolveReference(u).String()
}

// isInternal reports whether a link targets the same site as the page.
// Hosts are compared at the registrable-domain level so www and bare
// domain variants count as the same site.
func (e *Extractor) isInternal(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return SameSite(e.baseURL.Hostname(), u.Hostname())
}
