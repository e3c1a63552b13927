// Package config provides configuration structures and utilities for seoscan.
// It defines the main configuration options for crawling websites,
// per-site overrides, and report generation preferences.
package config
