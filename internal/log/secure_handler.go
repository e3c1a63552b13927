package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue replaces any attribute value judged sensitive.
const MaskValue = "***REDACTED***"

// Per-site config can carry consent cookies and Authorization headers for
// crawling gated pages. The spider logs request metadata, so any attribute
// keyed like a credential is masked before it reaches a handler.
var sensitiveKeys = func() map[string]bool {
	keys := []string{
		// request headers the fetcher forwards
		"authorization", "cookie", "set-cookie",
		"x-api-key", "x-auth-token", "proxy-authorization",
		// credential material
		"password", "passwd", "secret", "token",
		"api_key", "apikey", "api-key",
		"access_token", "refresh_token",
		"private_key", "secret_key",
		// session identifiers
		"session", "session_id", "sessionid", "sid", "jsessionid",
		"credential", "credentials", "auth",
	}
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}()

// Value shapes masked regardless of key name. Pages under audit sometimes
// leak tokens into URLs or meta tags, and those values flow through crawl
// logs verbatim unless caught here.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`), // opaque API keys
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`), // AWS access key IDs
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// SecureHandler is an slog.Handler middleware that masks sensitive
// attributes before delegating to the wrapped handler.
//
// Design decision: masking lives in a handler wrapper, not a logger type,
// so the text logger used by the CLI and the JSON logger used by the fetch
// subprocess share one redaction path and callers keep the plain slog API.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler wraps handler with attribute masking. A nil handler
// falls back to slog.Default().Handler().
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled delegates to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rebuilds the record with masked attributes and forwards it.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs masks the attributes before binding them to the wrapped handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(masked)}
}

// WithGroup delegates to the wrapped handler and keeps masking active.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		members := a.Value.Group()
		masked := make([]slog.Attr, len(members))
		for i, m := range members {
			masked[i] = h.sanitizeAttr(m)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	key := strings.ToLower(a.Key)
	if sensitiveKeys[key] || containsSensitiveKeyword(key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString && isSensitiveValue(a.Value.String()) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

// containsSensitiveKeyword catches keys the exact-match table misses, such
// as "site_password" or "oauth_token". The bare substring "key" is
// deliberately not matched: it false-positives on "primary_key" and
// "keyboard", and the credential spellings are already in sensitiveKeys.
func containsSensitiveKeyword(key string) bool {
	for _, kw := range []string{
		"password", "passwd", "secret", "token", "auth",
		"credential", "private",
	} {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, p := range sensitivePatterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

func secureHandlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}

// NewSecureLogger returns a text-format logger with attribute masking,
// writing to w. Verbose lowers the level from Warn to Debug. The CLI
// installs it as the default logger on stderr.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, secureHandlerOptions(verbose))))
}

// NewSecureJSONLogger is the JSON-format variant. The fetch subprocess logs
// to stderr with it so the parent can forward child logs without mixing
// them into the page record stream on stdout.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, secureHandlerOptions(verbose))))
}
