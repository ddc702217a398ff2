package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeProvider()
	c.normalizePlayer()
	c.normalizeWatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.StateDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.InboxDir, err = expandPath(strings.TrimSpace(c.Paths.InboxDir)); err != nil {
		return fmt.Errorf("paths.inbox_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SocketPath) == "" {
		c.Paths.SocketPath = filepath.Join(c.Paths.StateDir, defaultSocketName)
	}
	if c.Paths.SocketPath, err = expandPath(c.Paths.SocketPath); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv(apiTokenEnv); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeProvider() {
	if c.Provider.MaxPoints == 0 {
		c.Provider.MaxPoints = defaultMaxPoints
	}
	if c.Provider.WordDurationSeconds == 0 {
		c.Provider.WordDurationSeconds = defaultWordDurationSeconds
	}
	if c.Provider.RequestTimeoutSeconds == 0 {
		c.Provider.RequestTimeoutSeconds = defaultProviderRequestTimeout
	}
}

func (c *Config) normalizePlayer() {
	if c.Player.HighlightHoldMillis == 0 {
		c.Player.HighlightHoldMillis = defaultHighlightHoldMillis
	}
	if c.Player.LocatorLengthTolerance == 0 {
		c.Player.LocatorLengthTolerance = defaultLocatorLengthTolerance
	}
	c.Player.ContainerID = strings.TrimSpace(c.Player.ContainerID)
	if c.Player.ContainerID == "" {
		c.Player.ContainerID = defaultOverlayContainerID
	}
	c.Player.HighlightClass = strings.TrimSpace(c.Player.HighlightClass)
	if c.Player.HighlightClass == "" {
		c.Player.HighlightClass = defaultHighlightClass
	}
}

func (c *Config) normalizeWatch() {
	if c.Watch.MaxConcurrent <= 0 {
		c.Watch.MaxConcurrent = defaultWatchMaxConcurrent
	}
	if c.Watch.SettleDelayMillis < 0 {
		c.Watch.SettleDelayMillis = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
