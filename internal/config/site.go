package config

// SiteConfig holds site-specific configuration for a single audited site.
// This allows customizing crawl behavior per project without CLI flags.
type SiteConfig struct {
	// Cookie is an HTTP cookie to use when crawling this site, for
	// example a consent cookie that suppresses interstitials.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the global page limit for this site.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// Depth overrides the global depth limit for this site.
	// If zero, the global DepthLimit is used.
	Depth int `yaml:"depth,omitempty"`

	// ExcludePatterns are URL patterns to skip during crawling.
	// Patterns are matched against the URL path using glob syntax.
	ExcludePatterns []string `yaml:"excludePatterns,omitempty"`

	// IncludePatterns are URL patterns to follow during crawling.
	// If specified, only URLs matching these patterns are crawled.
	IncludePatterns []string `yaml:"includePatterns,omitempty"`
}

// File represents the structure of the .seoscan.yml configuration file.
type File struct {
	// Sites maps host names to their site-specific configurations.
	// Keys are the bare host (e.g., "www.example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.Depth != 0 {
			result.Depth = siteConfig.Depth
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
		if len(siteConfig.ExcludePatterns) > 0 {
			result.ExcludePatterns = siteConfig.ExcludePatterns
		}
		if len(siteConfig.IncludePatterns) > 0 {
			result.IncludePatterns = siteConfig.IncludePatterns
		}
	}

	return result
}
