package config

const (
	defaultStateDir               = "~/.local/share/readaloud"
	defaultLogDir                 = "~/.local/share/readaloud/logs"
	defaultInboxDir               = "~/.local/share/readaloud/inbox"
	defaultSocketName             = "readaloud.sock"
	defaultAPIBind                = "127.0.0.1:7488"
	defaultMaxPoints              = 5
	defaultMinSentenceLength      = 10
	defaultWordDurationSeconds    = 0.4
	defaultLatencyMillis          = 1000
	defaultRateLimitPerMinute     = 60
	defaultHighlightHoldMillis    = 1500
	defaultLocatorLengthTolerance = 0.3
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultProviderRequestTimeout = 30
	defaultWatchSettleDelayMillis = 500
	defaultWatchMaxConcurrent     = 2
	apiTokenEnv                   = "READALOUD_API_TOKEN"
	defaultConfigPathValue        = "~/.config/readaloud/config.toml"
	projectConfigFileName         = "readaloud.toml"
	defaultOverlayContainerID     = "readaloud-summary-player-container"
	defaultHighlightClass         = "readaloud-summary-highlight"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
			InboxDir: defaultInboxDir,
			APIBind:  defaultAPIBind,
		},
		Provider: Provider{
			MaxPoints:             defaultMaxPoints,
			MinSentenceLength:     defaultMinSentenceLength,
			WordDurationSeconds:   defaultWordDurationSeconds,
			LatencyMillis:         defaultLatencyMillis,
			RateLimitPerMinute:    defaultRateLimitPerMinute,
			RequestTimeoutSeconds: defaultProviderRequestTimeout,
		},
		Player: Player{
			HighlightHoldMillis:    defaultHighlightHoldMillis,
			LocatorLengthTolerance: defaultLocatorLengthTolerance,
			ContainerID:            defaultOverlayContainerID,
			HighlightClass:         defaultHighlightClass,
		},
		Watch: Watch{
			SettleDelayMillis: defaultWatchSettleDelayMillis,
			MaxConcurrent:     defaultWatchMaxConcurrent,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
