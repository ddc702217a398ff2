package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory, socket, and bind address configuration.
type Paths struct {
	StateDir   string `toml:"state_dir"`
	LogDir     string `toml:"log_dir"`
	InboxDir   string `toml:"inbox_dir"`
	SocketPath string `toml:"socket_path"`
	APIBind    string `toml:"api_bind"`
	APIToken   string `toml:"api_token"`
}

// Provider contains tunables for the summary provider.
type Provider struct {
	MaxPoints             int     `toml:"max_points"`
	MinSentenceLength     int     `toml:"min_sentence_length"`
	WordDurationSeconds   float64 `toml:"word_duration_seconds"`
	LatencyMillis         int     `toml:"latency_ms"`
	RateLimitPerMinute    int     `toml:"rate_limit_per_minute"`
	RequestTimeoutSeconds int     `toml:"request_timeout"`
}

// Player contains overlay and section locator settings.
type Player struct {
	HighlightHoldMillis    int     `toml:"highlight_hold_ms"`
	LocatorLengthTolerance float64 `toml:"locator_length_tolerance"`
	AutoScrollDefault      bool    `toml:"auto_scroll_default"`
	ContainerID            string  `toml:"container_id"`
	HighlightClass         string  `toml:"highlight_class"`
}

// Watch contains configuration for the inbox watcher.
type Watch struct {
	SettleDelayMillis int `toml:"settle_delay_ms"`
	MaxConcurrent     int `toml:"max_concurrent"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for readaloud.
//
// Configuration sections by subsystem:
//   - Paths: state/log/inbox directories, daemon socket and HTTP bind address
//   - Provider: summary splitting and timing knobs plus HTTP rate limiting
//   - Player: overlay highlight timings and locator tolerance
//   - Watch: inbox watcher pacing
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Provider Provider `toml:"provider"`
	Player   Player   `toml:"player"`
	Watch    Watch    `toml:"watch"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPathValue)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPathValue)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigFileName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon and player operation.
// The inbox directory is created on a best-effort basis since only the watcher
// needs it.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.InboxDir) != "" {
		_ = os.MkdirAll(c.Paths.InboxDir, 0o755)
	}
	return nil
}

// SettingsDBPath returns the sqlite database backing persisted player settings.
func (c *Config) SettingsDBPath() string {
	return filepath.Join(c.Paths.StateDir, "settings.db")
}

// LockPath returns the flock file guarding single daemon execution.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "readaloudd.lock")
}

// LogFilePath returns the daemon log file location.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.Paths.LogDir, "readaloud.log")
}

// WordDuration returns the fixed per-word duration used by the stub summarizer.
func (c *Config) WordDuration() time.Duration {
	return time.Duration(c.Provider.WordDurationSeconds * float64(time.Second))
}

// ProviderLatency returns the simulated provider latency.
func (c *Config) ProviderLatency() time.Duration {
	return time.Duration(c.Provider.LatencyMillis) * time.Millisecond
}

// ProviderRequestTimeout bounds a single processPage round-trip made by the CLI.
func (c *Config) ProviderRequestTimeout() time.Duration {
	return time.Duration(c.Provider.RequestTimeoutSeconds) * time.Second
}

// HighlightHold returns how long the transient section highlight stays applied.
func (c *Config) HighlightHold() time.Duration {
	return time.Duration(c.Player.HighlightHoldMillis) * time.Millisecond
}

// WatchSettleDelay returns the pause between a create event and reading the file.
func (c *Config) WatchSettleDelay() time.Duration {
	return time.Duration(c.Watch.SettleDelayMillis) * time.Millisecond
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
