package model

import "time"

// Caps applied while building a PageRecord. Pages with thousands of links
// would otherwise dominate storage without adding analytical value.
const (
	// MaxStoredInternalLinks caps how many internal links are kept per page.
	MaxStoredInternalLinks = 200

	// MaxStoredExternalLinks caps how many external links are kept per page.
	MaxStoredExternalLinks = 100

	// MaxBodyTextSample caps the stored body text sample in characters.
	MaxBodyTextSample = 5000
)

// LinkInfo describes one outgoing link found on a page.
type LinkInfo struct {
	URL        string `json:"url"`
	AnchorText string `json:"anchor_text,omitempty"`
	NoFollow   bool   `json:"nofollow,omitempty"`
}

// ImageInfo describes one image reference found on a page.
// AltPresent distinguishes a missing alt attribute from an empty one;
// the two are different accessibility findings.
type ImageInfo struct {
	URL        string `json:"url"`
	Alt        string `json:"alt,omitempty"`
	AltPresent bool   `json:"alt_present"`
	Width      string `json:"width,omitempty"`
	Height     string `json:"height,omitempty"`
	SizeBytes  int64  `json:"size_bytes,omitempty"`
	Broken     bool   `json:"broken,omitempty"`
}

// RedirectHop is one step in a redirect chain, in the order followed.
type RedirectHop struct {
	FromURL string `json:"from_url"`
	ToURL   string `json:"to_url"`
	Status  int    `json:"status"`
}

// ContrastSample is a foreground/background color pair sampled from
// inline styles, used for WCAG contrast checks.
type ContrastSample struct {
	Foreground string  `json:"foreground"`
	Background string  `json:"background"`
	Ratio      float64 `json:"ratio,omitempty"`
	LargeText  bool    `json:"large_text,omitempty"`
	Selector   string  `json:"selector,omitempty"`
}

// AccessibilitySignals is the raw accessibility evidence extracted from a
// page, before any rules run. The extractor fills it; the rule engine
// interprets it.
type AccessibilitySignals struct {
	LangAttribute       string           `json:"lang_attribute,omitempty"`
	HasViewportMeta     bool             `json:"has_viewport_meta"`
	ViewportContent     string           `json:"viewport_content,omitempty"`
	UnlabeledInputs     int              `json:"unlabeled_inputs,omitempty"`
	TotalInputs         int              `json:"total_inputs,omitempty"`
	HasMainLandmark     bool             `json:"has_main_landmark"`
	HasNavLandmark      bool             `json:"has_nav_landmark"`
	HasHeaderLandmark   bool             `json:"has_header_landmark"`
	GenericLinkTexts    []string         `json:"generic_link_texts,omitempty"`
	HasSkipLink         bool             `json:"has_skip_link"`
	PositiveTabindexes  int              `json:"positive_tabindexes,omitempty"`
	ContrastSamples     []ContrastSample `json:"contrast_samples,omitempty"`
	AccessibilityLinks  []string         `json:"accessibility_links,omitempty"`
	ImprintLinkFound    bool             `json:"imprint_link_found"`
	ContactLinkFound    bool             `json:"contact_link_found"`
	StatementLinkFound  bool             `json:"statement_link_found"`
}

// SocialMeta holds Open Graph, Twitter Card, and structured-data markers.
type SocialMeta struct {
	OGTitle        string `json:"og_title,omitempty"`
	OGDescription  string `json:"og_description,omitempty"`
	OGImage        string `json:"og_image,omitempty"`
	TwitterCard    string `json:"twitter_card,omitempty"`
	HasJSONLD      bool   `json:"has_jsonld"`
	JSONLDTypes    []string `json:"jsonld_types,omitempty"`
}

// PageRecord is everything the fetcher and extractor learned about one URL.
// It is the unit streamed from the isolated fetch process to the
// orchestrator, and the input to the rule engine.
type PageRecord struct {
	URL          string  `json:"url"`
	FinalURL     string  `json:"final_url,omitempty"`
	StatusCode   int     `json:"status_code"`
	ContentType  string  `json:"content_type,omitempty"`
	ResponseTime float64 `json:"response_time"`
	Depth        int     `json:"depth"`
	FetchedAt    time.Time `json:"fetched_at"`

	// FetchError is set when the request failed before a response arrived
	// (DNS, timeout, TLS). Such records carry no extracted content.
	FetchError string `json:"fetch_error,omitempty"`

	Redirects []RedirectHop `json:"redirects,omitempty"`

	// Extracted content. Only populated for HTML responses.
	Title           string   `json:"title,omitempty"`
	MetaDescription string   `json:"meta_description,omitempty"`
	MetaRobots      string   `json:"meta_robots,omitempty"`
	Canonical       string   `json:"canonical,omitempty"`
	H1              []string `json:"h1,omitempty"`
	H2              []string `json:"h2,omitempty"`
	H3Count         int      `json:"h3_count,omitempty"`
	WordCount       int      `json:"word_count"`
	BodyTextSample  string   `json:"body_text_sample,omitempty"`

	InternalLinks      []LinkInfo `json:"internal_links,omitempty"`
	ExternalLinks      []LinkInfo `json:"external_links,omitempty"`
	InternalLinkCount  int        `json:"internal_link_count"`
	ExternalLinkCount  int        `json:"external_link_count"`

	Images     []ImageInfo `json:"images,omitempty"`
	ImageCount int         `json:"image_count"`

	Social        SocialMeta           `json:"social"`
	Accessibility AccessibilitySignals `json:"accessibility"`
}

// IsHTML reports whether the page delivered an HTML document.
func (p *PageRecord) IsHTML() bool {
	ct := p.ContentType
	for i := 0; i < len(ct); i++ {
		if ct[i] == ';' {
			ct = ct[:i]
			break
		}
	}
	return ct == "text/html" || ct == "application/xhtml+xml"
}

// Failed reports whether the fetch errored before producing a response.
func (p *PageRecord) Failed() bool {
	return p.FetchError != ""
}

// EffectiveURL returns the URL content was served from, falling back to
// the requested URL when there were no redirects.
func (p *PageRecord) EffectiveURL() string {
	if p.FinalURL != "" {
		return p.FinalURL
	}
	return p.URL
}

// ImagesWithoutAlt counts images whose alt attribute is absent or blank.
func (p *PageRecord) ImagesWithoutAlt() int {
	n := 0
	for _, img := range p.Images {
		if !img.AltPresent || isBlank(img.Alt) {
			n++
		}
	}
	return n
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
