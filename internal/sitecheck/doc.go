// Package sitecheck verifies the crawl control files of a site:
// robots.txt and the XML sitemaps it advertises.
//
// These checks run once per site, not per page. The Checker fetches
// robots.txt from the web root, inspects its directives, then resolves
// every advertised sitemap (falling back to /sitemap.xml when none is
// listed). Sitemap indexes are followed one level deep.
//
// Results are returned as model.RobotsResult and model.SitemapResult
// values so the report layer can render them next to the page findings.
package sitecheck
