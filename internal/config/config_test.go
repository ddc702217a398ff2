package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"readaloud/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("READALOUD_API_TOKEN", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "readaloud")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.SocketPath != filepath.Join(wantState, "readaloud.sock") {
		t.Fatalf("unexpected socket path: %q", cfg.Paths.SocketPath)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7488" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Provider.MaxPoints != 5 {
		t.Fatalf("expected 5 max points, got %d", cfg.Provider.MaxPoints)
	}
	if cfg.Provider.WordDurationSeconds != 0.4 {
		t.Fatalf("expected 0.4s word duration, got %v", cfg.Provider.WordDurationSeconds)
	}
	if cfg.HighlightHold().Milliseconds() != 1500 {
		t.Fatalf("expected 1.5s highlight hold, got %v", cfg.HighlightHold())
	}
	if cfg.Player.ContainerID != "readaloud-summary-player-container" {
		t.Fatalf("unexpected container id: %q", cfg.Player.ContainerID)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir, cfg.Paths.InboxDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "readaloud.toml")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
			APIBind  string `toml:"api_bind"`
		} `toml:"paths"`
		Provider struct {
			MaxPoints int `toml:"max_points"`
			LatencyMS int `toml:"latency_ms"`
		} `toml:"provider"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.Paths.APIBind = ""
	custom.Provider.MaxPoints = 3
	custom.Provider.LatencyMS = 0
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom path to resolve, got %q exists=%v", resolved, exists)
	}
	if cfg.Provider.MaxPoints != 3 {
		t.Fatalf("expected max points 3, got %d", cfg.Provider.MaxPoints)
	}
	if cfg.ProviderLatency() != 0 {
		t.Fatalf("expected zero latency, got %v", cfg.ProviderLatency())
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}
	if cfg.Paths.APIBind != "" {
		t.Fatalf("expected HTTP API disabled, got %q", cfg.Paths.APIBind)
	}
	if !strings.HasPrefix(cfg.Paths.SocketPath, filepath.Join(tempDir, "state")) {
		t.Fatalf("expected socket under state dir, got %q", cfg.Paths.SocketPath)
	}
}

func TestAPITokenFallsBackToEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("READALOUD_API_TOKEN", " secret ")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.APIToken != "secret" {
		t.Fatalf("expected token from env, got %q", cfg.Paths.APIToken)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"max points", func(c *config.Config) { c.Provider.MaxPoints = 0 }, "provider.max_points"},
		{"word duration", func(c *config.Config) { c.Provider.WordDurationSeconds = -1 }, "provider.word_duration_seconds"},
		{"tolerance", func(c *config.Config) { c.Player.LocatorLengthTolerance = 2 }, "player.locator_length_tolerance"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bind", func(c *config.Config) { c.Paths.APIBind = "nope" }, "paths.api_bind"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.StateDir = t.TempDir()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Provider.MinSentenceLength != 10 {
		t.Fatalf("unexpected min sentence length: %d", cfg.Provider.MinSentenceLength)
	}
}
