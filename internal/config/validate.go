package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validatePlayer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	if c.Paths.APIBind != "" {
		if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
			return fmt.Errorf("paths.api_bind: %w", err)
		}
	}
	return nil
}

func (c *Config) validateProvider() error {
	if c.Provider.MaxPoints < 1 {
		return errors.New("provider.max_points must be at least 1")
	}
	if c.Provider.MinSentenceLength < 0 {
		return errors.New("provider.min_sentence_length must be zero or positive")
	}
	if c.Provider.WordDurationSeconds <= 0 {
		return errors.New("provider.word_duration_seconds must be positive")
	}
	if c.Provider.LatencyMillis < 0 {
		return errors.New("provider.latency_ms must be zero or positive")
	}
	if c.Provider.RateLimitPerMinute < 0 {
		return errors.New("provider.rate_limit_per_minute must be zero (unlimited) or positive")
	}
	if c.Provider.RequestTimeoutSeconds < 0 {
		return errors.New("provider.request_timeout must be zero or positive")
	}
	return nil
}

func (c *Config) validatePlayer() error {
	if c.Player.HighlightHoldMillis < 0 {
		return errors.New("player.highlight_hold_ms must be zero or positive")
	}
	if c.Player.LocatorLengthTolerance <= 0 || c.Player.LocatorLengthTolerance > 1 {
		return errors.New("player.locator_length_tolerance must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
