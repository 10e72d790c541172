package config

import "maps"

// SiteConfig holds site-specific configuration for a single host.
// This allows customizing crawl behavior per site from the config file.
type SiteConfig struct {
	// Scope overrides the crawl scope for this site with a URL prefix.
	// If empty, the crawl is scoped to the seed's host.
	Scope string `yaml:"scope,omitempty"`

	// Depth overrides the global crawl depth for this site.
	// If zero, the global MaxDepth is used.
	Depth int `yaml:"depth,omitempty"`

	// UserAgent overrides the global User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .sitegrep configuration file.
type File struct {
	// Sites maps hostnames to their site-specific configurations.
	// Keys should be the host without the protocol (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
//
// The returned config never aliases the File's internal maps: the defaults
// header map is cloned before merging, so one host's headers can never bleed
// into another host's lookup, and concurrent lookups from batch crawls stay
// read-only on the shared state.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults, with the headers map cloned rather than aliased
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Scope != "" {
			result.Scope = siteConfig.Scope
		}
		if siteConfig.Depth != 0 {
			result.Depth = siteConfig.Depth
		}
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string, len(siteConfig.Headers))
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
	}

	return result
}
