// Package main provides the entry point for the seoscan CLI.
//
// seoscan is an SEO and accessibility auditing tool for websites.
// It crawls a site, analyzes every page against SEO and WCAG rules,
// and verifies robots.txt and XML sitemaps.
//
// Usage:
//
//	seoscan crawl https://www.example.com
//	seoscan robots https://www.example.com
//
// See --help for all available options.
package main

// main is the entry point for seoscan.
func main() {
	Execute()
}
