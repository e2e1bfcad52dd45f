// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateArtifacts(); err != nil {
		return err
	}

	if err := c.validateOMDb(); err != nil {
		return err
	}

	if err := c.validateDomains(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if err := c.validateRateLimitRequests(); err != nil {
		return err
	}
	return c.validateRateLimitWindow()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimitRequests validates the rate limit requests value
func (c *Config) validateRateLimitRequests() error {
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	return nil
}

// validateRateLimitWindow validates the rate limit window value
func (c *Config) validateRateLimitWindow() error {
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateArtifacts validates artifact location and refresh settings
func (c *Config) validateArtifacts() error {
	if c.Artifacts.FetchTimeout <= 0 {
		return fmt.Errorf("ARTIFACTS_FETCH_TIMEOUT must be positive")
	}
	if c.Artifacts.ReloadInterval < 0 {
		return fmt.Errorf("ARTIFACTS_RELOAD_INTERVAL must not be negative")
	}
	return nil
}

// validateOMDb validates enrichment settings (only if enabled)
func (c *Config) validateOMDb() error {
	if !c.OMDb.Enabled {
		return nil
	}
	if err := validateHTTPURL(c.OMDb.BaseURL, "OMDB_BASE_URL"); err != nil {
		return fmt.Errorf("OMDB_BASE_URL is invalid: %w", err)
	}
	if c.OMDb.Timeout <= 0 {
		return fmt.Errorf("OMDB_TIMEOUT must be positive")
	}
	if c.OMDb.MaxConcurrency < 0 {
		return fmt.Errorf("OMDB_MAX_CONCURRENCY must not be negative")
	}
	if c.OMDb.RateLimit < 0 {
		return fmt.Errorf("OMDB_RATE_LIMIT must not be negative")
	}
	if c.OMDb.RateLimit > 0 && c.OMDb.RateBurst < 1 {
		return fmt.Errorf("OMDB_RATE_BURST must be at least 1 when OMDB_RATE_LIMIT is set")
	}
	if c.OMDb.CacheSize < 0 {
		return fmt.Errorf("OMDB_CACHE_SIZE must not be negative")
	}
	return nil
}

// validateDomains validates every enabled dataset
func (c *Config) validateDomains() error {
	if !c.Movies.Enabled && !c.Books.Enabled {
		return fmt.Errorf("at least one of MOVIES_ENABLED or BOOKS_ENABLED must be true")
	}
	if c.Movies.Enabled {
		if err := c.Movies.validate("MOVIES"); err != nil {
			return err
		}
	}
	if c.Books.Enabled {
		if err := c.Books.validate("BOOKS"); err != nil {
			return err
		}
	}
	return nil
}

// validate checks one domain; prefix names the env namespace in messages.
func (d *DomainConfig) validate(prefix string) error {
	if !d.Entities.IsSet() {
		return fmt.Errorf("%s_ENTITIES_PATH is required", prefix)
	}
	if !d.Matrix.IsSet() {
		return fmt.Errorf("%s_MATRIX_PATH is required", prefix)
	}
	if d.KeyColumn == "" {
		return fmt.Errorf("%s key_column is required", strings.ToLower(prefix))
	}
	if d.Aux.IsSet() && d.AuxKeyColumn == "" {
		return fmt.Errorf("%s aux_key_column is required when %s_AUX_PATH is set", strings.ToLower(prefix), prefix)
	}
	if d.Details.IsSet() && d.DetailsKeyColumn == "" {
		return fmt.Errorf("%s details_key_column is required when %s_DETAILS_PATH is set", strings.ToLower(prefix), prefix)
	}
	if d.CategoryColumn != "" && !containsString(d.ListColumns, d.CategoryColumn) {
		return fmt.Errorf("%s category_column %q must also be listed in %s_LIST_COLUMNS",
			strings.ToLower(prefix), d.CategoryColumn, prefix)
	}
	if (d.Enrich || d.CapitalizeTitle) && d.TitleColumn == "" {
		return fmt.Errorf("%s title_column is required when enrich or capitalize_title is set", strings.ToLower(prefix))
	}
	for _, src := range []struct {
		name string
		url  string
	}{
		{prefix + "_ENTITIES_URL", d.Entities.URL},
		{prefix + "_MATRIX_URL", d.Matrix.URL},
		{prefix + "_AUX_URL", d.Aux.URL},
		{prefix + "_DETAILS_URL", d.Details.URL},
		{prefix + "_POPULAR_URL", d.Popular.URL},
	} {
		if src.url == "" {
			continue
		}
		if err := validateArtifactURL(src.url, src.name); err != nil {
			return err
		}
	}
	if err := d.Limits.validate(strings.ToLower(prefix) + " limits"); err != nil {
		return err
	}
	return d.PopularLimits.validate(strings.ToLower(prefix) + " popular_limits")
}

// validate checks that min <= default <= max and min >= 1.
func (l CountLimits) validate(name string) error {
	if l.Min < 1 {
		return fmt.Errorf("%s: min must be at least 1, got %d", name, l.Min)
	}
	if l.Min > l.Max {
		return fmt.Errorf("%s: min (%d) must not exceed max (%d)", name, l.Min, l.Max)
	}
	if l.Default < l.Min || l.Default > l.Max {
		return fmt.Errorf("%s: default (%d) must be within [%d, %d]", name, l.Default, l.Min, l.Max)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if err := c.validateLogLevel(); err != nil {
		return err
	}
	return c.validateLogFormat()
}

// validateLogLevel validates the log level configuration
func (c *Config) validateLogLevel() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	return nil
}

// validateLogFormat validates the log format configuration
func (c *Config) validateLogFormat() error {
	if c.Logging.Format == "" {
		return nil
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// IsProduction returns true when running with ENVIRONMENT=production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
