package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Validate ensures the configuration is usable. Credentials are checked
// separately by RequireSpotify and RequireLastFM because read-only commands
// work without them.
func (c *Config) Validate() error {
	if err := c.validateChart(); err != nil {
		return err
	}
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if err := ensurePositiveMap(map[string]int{
		"workflow.poll_interval_minutes":   c.Workflow.PollIntervalMinutes,
		"workflow.request_timeout_seconds": c.Workflow.RequestTimeoutSeconds,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateChart() error {
	if _, err := time.LoadLocation(c.Chart.Timezone); err != nil {
		return fmt.Errorf("chart.timezone %q is not a known timezone: %w", c.Chart.Timezone, err)
	}
	if c.Chart.GroupDepth < 1 {
		return errors.New("chart.group_depth must be at least 1")
	}
	return nil
}

func (c *Config) validateEndpoints() error {
	endpoints := map[string]string{
		"lastfm.base_url":    c.LastFM.BaseURL,
		"wikipedia.base_url": c.Wikipedia.BaseURL,
		"spotify.base_url":   c.Spotify.BaseURL,
		"spotify.token_url":  c.Spotify.TokenURL,
	}
	for key, value := range endpoints {
		if value == "" {
			continue
		}
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", key, value)
		}
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
