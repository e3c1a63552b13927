package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/seoscan/seoscan/internal/model"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// denyExtensions are URL path extensions that are never fetched.
// Binary assets carry no SEO-auditable markup; image findings come from
// <img> attributes, not from downloading the files.
var denyExtensions = map[string]bool{
	".pdf": true, ".zip": true, ".gz": true, ".tar": true, ".rar": true, ".7z": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".svg": true,
	".webp": true, ".ico": true, ".bmp": true, ".avif": true,
	".css": true, ".js": true, ".mjs": true, ".map": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wmv": true, ".webm": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true,
	".exe": true, ".dmg": true, ".apk": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
}

// maxRedirects is the most redirect hops followed for one URL.
// The chain itself is recorded on the page record for the rule engine.
const maxRedirects = 10

// Spider crawls one website breadth-first and emits a PageRecord per URL.
// It manages the frontier, dedupes URLs, respects robots.txt, and stays
// within the site's registrable domain unless told to follow external
// links.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
type Spider struct {
	// client performs the HTTP requests. Its CheckRedirect is left at
	// the default; redirect chains are reconstructed from the response.
	client *http.Client

	// maxDepth limits how deep to crawl from the starting URL.
	// 0 means only the starting page, 1 means one level of links, etc.
	maxDepth int

	// maxPages limits the total number of pages to crawl.
	// This prevents runaway crawling on large sites.
	maxPages int

	// concurrency is the number of parallel fetch workers.
	concurrency int

	// limiter enforces the politeness delay across all workers.
	limiter *rate.Limiter

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// excludePatterns are URL path patterns to skip during crawling.
	// Patterns use glob syntax (e.g., "/admin/*", "*.pdf").
	excludePatterns []string

	// includePatterns are URL path patterns to follow during crawling.
	// If set, only URLs matching these patterns are crawled.
	// Empty means all URLs are allowed (subject to excludePatterns).
	includePatterns []string

	// recordExternal controls whether external links appear on records.
	recordExternal bool

	// followExternal lets the frontier leave the start URL's registrable
	// domain. Page budget, depth limit, and patterns still apply, which
	// keeps the crawl finite.
	followExternal bool

	// ignoreRobots disables robots.txt compliance for the fetch phase.
	ignoreRobots bool

	// cookie and headers are applied to every request, from per-site config.
	cookie  string
	headers map[string]string

	// robots is the parsed robots.txt group for our user agent.
	// Nil when robots.txt is absent, unreadable, or ignored.
	robots *robotstxt.Group

	// scopeDomain is the registrable domain of the start URL.
	scopeDomain string

	// visited tracks normalized URLs already claimed by a worker.
	visited map[string]bool

	// claimed counts URLs claimed against the page budget.
	claimed int

	mutex sync.Mutex
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxDepth sets the maximum crawl depth.
// 0 = only the starting page, 1 = starting page plus linked pages, etc.
func WithMaxDepth(depth int) SpiderOption {
	return func(s *Spider) { s.maxDepth = depth }
}

// WithMaxPages sets the maximum number of pages to crawl.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) { s.maxPages = maxPages }
}

// WithConcurrency sets the number of parallel fetch workers.
func WithConcurrency(n int) SpiderOption {
	return func(s *Spider) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithDelay sets the minimum delay between requests.
// Zero disables rate limiting.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		if d > 0 {
			s.limiter = rate.NewLimiter(rate.Every(d), 1)
		} else {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
		}
	}
}

// WithSpiderUserAgent sets a custom User-Agent header.
func WithSpiderUserAgent(ua string) SpiderOption {
	return func(s *Spider) { s.userAgent = ua }
}

// WithSpiderMaxBodySize sets the maximum response body size.
func WithSpiderMaxBodySize(size int64) SpiderOption {
	return func(s *Spider) { s.maxBodySize = size }
}

// WithExcludePatterns sets URL path patterns to skip during crawling.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf", "/logout*").
func WithExcludePatterns(patterns []string) SpiderOption {
	return func(s *Spider) { s.excludePatterns = patterns }
}

// WithIncludePatterns sets URL path patterns to follow during crawling.
// If set, only URLs matching at least one pattern are crawled.
func WithIncludePatterns(patterns []string) SpiderOption {
	return func(s *Spider) { s.includePatterns = patterns }
}

// WithRecordExternal controls whether external links are kept on records.
func WithRecordExternal(record bool) SpiderOption {
	return func(s *Spider) { s.recordExternal = record }
}

// WithFollowExternal allows the crawl to follow links off the start
// URL's registrable domain. Off by default.
func WithFollowExternal(follow bool) SpiderOption {
	return func(s *Spider) { s.followExternal = follow }
}

// WithIgnoreRobots disables robots.txt compliance during the crawl.
func WithIgnoreRobots(ignore bool) SpiderOption {
	return func(s *Spider) { s.ignoreRobots = ignore }
}

// WithCookie sets a cookie sent with every request.
func WithCookie(cookie string) SpiderOption {
	return func(s *Spider) { s.cookie = cookie }
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) SpiderOption {
	return func(s *Spider) { s.headers = headers }
}

// NewSpider creates a new Spider with the given HTTP client.
//
// Design decision: We require an external client because:
//  1. Timeout and transport tuning belong to the caller
//  2. Tests can inject httptest clients
//  3. The fetch subprocess and the robots analyzer share one client
func NewSpider(client *http.Client, opts ...SpiderOption) *Spider {
	s := &Spider{
		client:         client,
		maxDepth:       10,
		maxPages:       100,
		concurrency:    8,
		limiter:        rate.NewLimiter(rate.Inf, 1),
		userAgent:      "seoscan/1.0 (+https://github.com/seoscan/seoscan)",
		maxBodySize:    5 * 1024 * 1024,
		recordExternal: true,
		visited:        make(map[string]bool),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Stop following after maxRedirects but keep the last response, so
	// redirect loops surface as a recorded chain instead of an error.
	if client.CheckRedirect == nil {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		}
	}

	return s
}

// EmitFunc receives each finished page record. The spider serializes calls,
// so implementations need no locking of their own. Returning an error
// aborts the crawl.
type EmitFunc func(model.PageRecord) error

// Crawl fetches the site breadth-first starting at startURL, calling emit
// for every page record as it is produced.
//
// Design decision: We stream records through a callback instead of
// returning a slice because the fetch subprocess forwards each record to
// its parent as soon as it exists; buffering a whole site would delay
// persistence and lose everything on a crash.
func (s *Spider) Crawl(ctx context.Context, startURL string, emit EmitFunc) error {
	start, err := url.Parse(startURL)
	if err != nil {
		return fmt.Errorf("invalid start URL: %w", err)
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q: start URL must be http or https", start.Scheme)
	}

	s.scopeDomain = registrableDomain(start.Hostname())
	if !s.ignoreRobots {
		s.loadRobots(ctx, start)
	}

	var emitMu sync.Mutex
	emitLocked := func(rec model.PageRecord) error {
		emitMu.Lock()
		defer emitMu.Unlock()
		return emit(rec)
	}

	type task struct {
		url   string
		depth int
	}

	frontier := []task{{url: start.String(), depth: 0}}

	// Breadth-first by level: each level is fetched by a bounded worker
	// pool, and the links it discovers form the next level. Level order
	// gives every record the minimal click depth from the start page.
	for len(frontier) > 0 {
		var (
			nextMu   sync.Mutex
			nextSeen = make(map[string]bool)
			next     []task
		)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.concurrency)

		for _, t := range frontier {
			if !s.claim(t.url) {
				continue
			}

			g.Go(func() error {
				if err := s.limiter.Wait(gctx); err != nil {
					return err
				}

				rec, links := s.fetchPage(gctx, t.url, t.depth)
				if err := emitLocked(rec); err != nil {
					return err
				}

				if t.depth >= s.maxDepth {
					return nil
				}
				nextMu.Lock()
				defer nextMu.Unlock()
				for _, link := range links {
					norm := NormalizeURL(link)
					if nextSeen[norm] {
						continue
					}
					nextSeen[norm] = true
					next = append(next, task{url: link, depth: t.depth + 1})
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}
		frontier = next
	}

	return nil
}

// claim atomically marks a URL visited and takes a slot from the page
// budget. It returns false when the URL was already claimed or the
// budget is exhausted.
func (s *Spider) claim(pageURL string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.claimed >= s.maxPages {
		return false
	}
	norm := NormalizeURL(pageURL)
	if s.visited[norm] {
		return false
	}
	s.visited[norm] = true
	s.claimed++
	return true
}

// fetchPage fetches one URL and returns its record plus the in-scope links
// to enqueue. Fetch failures still produce a record; the rule engine
// reports unreachable pages as findings, not process errors.
func (s *Spider) fetchPage(ctx context.Context, pageURL string, depth int) (model.PageRecord, []string) {
	rec := model.PageRecord{
		URL:       pageURL,
		Depth:     depth,
		FetchedAt: time.Now().UTC(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		rec.FetchError = err.Error()
		return rec, nil
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if s.cookie != "" {
		req.Header.Set("Cookie", s.cookie)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := s.client.Do(req)
	rec.ResponseTime = time.Since(started).Seconds()
	if err != nil {
		rec.FetchError = err.Error()
		return rec, nil
	}
	defer resp.Body.Close()

	rec.StatusCode = resp.StatusCode
	rec.ContentType = resp.Header.Get("Content-Type")
	rec.Redirects = redirectChain(resp)
	if final := resp.Request.URL.String(); final != pageURL {
		rec.FinalURL = final
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		rec.FetchError = fmt.Sprintf("read body: %v", err)
		return rec, nil
	}

	if resp.StatusCode != http.StatusOK || !rec.IsHTML() {
		return rec, nil
	}

	extractor, err := NewExtractor(rec.EffectiveURL())
	if err != nil {
		return rec, nil
	}
	if err := extractor.Extract(body, &rec); err != nil {
		rec.FetchError = fmt.Sprintf("parse html: %v", err)
		return rec, nil
	}

	s.probeImages(ctx, &rec)

	var links []string
	for _, link := range rec.InternalLinks {
		if s.shouldCrawl(link.URL) {
			links = append(links, link.URL)
		}
	}
	if s.followExternal {
		for _, link := range rec.ExternalLinks {
			if s.shouldCrawl(link.URL) {
				links = append(links, link.URL)
			}
		}
	}

	if !s.recordExternal {
		rec.ExternalLinks = nil
	}
	return rec, links
}

// maxImageProbes bounds the HEAD requests issued per page to determine
// image sizes and availability.
const maxImageProbes = 10

// probeImages fills SizeBytes and Broken on a page's image list. HEAD
// requests transfer no body, so the probes stay outside the politeness
// limiter; the per-page cap keeps image-heavy pages from flooding the
// server anyway.
func (s *Spider) probeImages(ctx context.Context, rec *model.PageRecord) {
	probed := make(map[string]int, maxImageProbes)
	for i := range rec.Images {
		img := &rec.Images[i]
		if img.URL == "" {
			continue
		}
		if j, ok := probed[img.URL]; ok {
			img.SizeBytes = rec.Images[j].SizeBytes
			img.Broken = rec.Images[j].Broken
			continue
		}
		if len(probed) >= maxImageProbes {
			break
		}
		probed[img.URL] = i

		req, err := http.NewRequestWithContext(ctx, http.MethodHead, img.URL, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", s.userAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			img.Broken = true
			continue
		}
		resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			img.Broken = true
			continue
		}
		if resp.ContentLength > 0 {
			img.SizeBytes = resp.ContentLength
		}
	}
}

// redirectChain reconstructs the redirect hops from the final response.
// net/http links each followed request to the response that caused it.
func redirectChain(resp *http.Response) []model.RedirectHop {
	var hops []model.RedirectHop
	for r := resp.Request.Response; r != nil; r = r.Request.Response {
		hop := model.RedirectHop{
			FromURL: r.Request.URL.String(),
			Status:  r.StatusCode,
		}
		if loc, err := r.Location(); err == nil {
			hop.ToURL = loc.String()
		}
		hops = append(hops, hop)
	}
	// Walking the chain backwards yielded newest-first; reverse in place.
	for i, j := 0, len(hops)-1; i < j; i, j = i+1, j-1 {
		hops[i], hops[j] = hops[j], hops[i]
	}
	return hops
}

// loadRobots fetches and parses robots.txt for the start host.
// Any failure leaves s.robots nil, which allows everything; an unreadable
// robots.txt must not abort the audit.
func (s *Spider) loadRobots(ctx context.Context, start *url.URL) {
	robotsURL := start.Scheme + "://" + start.Host + "/robots.txt"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return
	}
	s.robots = data.FindGroup(s.userAgent)
}

// shouldCrawl decides whether a discovered URL enters the frontier.
// The checks are ordered cheapest first.
func (s *Spider) shouldCrawl(targetURL string) bool {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if !s.followExternal && !SameSite(s.scopeHost(), u.Hostname()) {
		return false
	}

	path := u.Path
	if path == "" {
		path = "/"
	}

	if denyExtensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}

	// Exclude patterns win over include patterns.
	for _, pattern := range s.excludePatterns {
		if matchPattern(pattern, path) {
			return false
		}
	}
	if len(s.includePatterns) > 0 {
		matched := false
		for _, pattern := range s.includePatterns {
			if matchPattern(pattern, path) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if s.robots != nil && !s.robots.Test(u.Path) {
		return false
	}
	return true
}

func (s *Spider) scopeHost() string {
	return s.scopeDomain
}

// Stats returns current crawl statistics.
func (s *Spider) Stats() SpiderStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return SpiderStats{
		PagesClaimed: s.claimed,
		URLsSeen:     len(s.visited),
	}
}

// SpiderStats contains crawl statistics.
type SpiderStats struct {
	// PagesClaimed is the number of pages taken from the budget.
	PagesClaimed int

	// URLsSeen is the number of unique URLs encountered.
	URLsSeen int
}

// NormalizeURL canonicalizes a URL for frontier deduplication.
//
// Design decision: We normalize because:
//  1. Same page can have different URL representations
//  2. Fragment (#anchor) doesn't change content
//  3. Scheme and host are case-insensitive per RFC 3986
//
// Query parameter order is deliberately left untouched: reordering can
// change semantics on some sites, and a few duplicate fetches are cheaper
// than missing distinct pages.
func NormalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	// Empty path and "/" are the same resource
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

// SameSite reports whether two hosts belong to the same registrable
// domain, so www.example.com and example.com count as one site while
// example.co.uk and other.co.uk stay separate.
func SameSite(hostA, hostB string) bool {
	if strings.EqualFold(hostA, hostB) {
		return true
	}
	a := registrableDomain(hostA)
	b := registrableDomain(hostB)
	return a != "" && strings.EqualFold(a, b)
}

// registrableDomain returns the eTLD+1 for a host, or the host itself
// when the public suffix list cannot resolve it (IP literals, localhost).
func registrableDomain(host string) string {
	host = strings.ToLower(host)
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

// matchPattern checks if a path matches a glob pattern.
// Patterns can use:
//   - * to match any sequence of non-separator characters
//   - ? to match any single character
//
// Examples:
//   - "/admin/*" matches "/admin/dashboard", "/admin/users"
//   - "*.pdf" matches "/docs/file.pdf"
//   - "/api/v?" matches "/api/v1", "/api/v2"
func matchPattern(pattern, path string) bool {
	// For patterns like "/admin/*", match the whole subtree
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	// Handle extension patterns like "*.pdf"
	if strings.HasPrefix(pattern, "*.") {
		ext := strings.TrimPrefix(pattern, "*")
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	// Also try matching just the filename for patterns like "*.pdf"
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}

	return false
}
