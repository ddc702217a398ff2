package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"readaloud/internal/api"
	"readaloud/internal/config"
	"readaloud/internal/daemon"
	"readaloud/internal/extract"
	"readaloud/internal/ipc"
	"readaloud/internal/logging"
	"readaloud/internal/page"
	"readaloud/internal/provider"
)

// Backend names accepted by --backend.
const (
	backendLocal = "local"
	backendIPC   = "ipc"
	backendHTTP  = "http"
)

type commandContext struct {
	socketFlag   *string
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(socketFlag, configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		socketFlag:   socketFlag,
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.socketFlag != nil && strings.TrimSpace(*c.socketFlag) != "" {
			cfg.Paths.SocketPath = strings.TrimSpace(*c.socketFlag)
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// cliLogger returns the stderr logger shared by commands other than daemon.
func (c *commandContext) cliLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warn: unable to initialise logger: %v\n", err)
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) localGenerator() (*provider.Generator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return provider.New(provider.OptionsFromConfig(cfg), c.cliLogger()), nil
}

// backend resolves --backend into a processPage backend and a release func.
func (c *commandContext) backend(name string) (backendClient, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", backendLocal:
		gen, err := c.localGenerator()
		if err != nil {
			return nil, nil, err
		}
		return api.Local{Service: api.NewProcessPageService(gen, c.cliLogger())}, func() {}, nil
	case backendIPC:
		client, err := c.dialClient()
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	case backendHTTP:
		if strings.TrimSpace(cfg.Paths.APIBind) == "" {
			return nil, nil, errors.New("http backend requires paths.api_bind")
		}
		client := daemon.NewHTTPClient(cfg.Paths.APIBind, cfg.Paths.APIToken, &http.Client{Timeout: cfg.ProviderRequestTimeout()})
		return client, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want local, ipc or http)", name)
	}
}

type backendClient interface {
	ProcessPage(ctx context.Context, req api.ProcessPageRequest) (api.ProcessPageResponse, error)
}

func (c *commandContext) socketPath() string {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		if c.socketFlag != nil {
			return *c.socketFlag
		}
		return ""
	}
	return cfg.Paths.SocketPath
}

func (c *commandContext) dialClient() (*ipc.Client, error) {
	socket := c.socketPath()
	client, err := ipc.Dial(socket)
	if err != nil {
		return nil, wrapDialError(err, socket)
	}
	return client, nil
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to daemon: socket %s not found; start the daemon with `readaloud daemon`", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to daemon: socket %s refused the connection; verify the daemon is running", socket)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}

// loadPage reads a page from a local file or an http(s) URL.
func loadPage(ctx context.Context, target string, client *http.Client) (*page.Document, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, errors.New("page path or URL is required")
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return extract.Fetch(ctx, client, target)
	}
	path, err := config.ExpandPath(target)
	if err != nil {
		return nil, err
	}
	return extract.LoadFile(path)
}

func (c *commandContext) httpClient() *http.Client {
	cfg, _ := c.ensureConfig()
	if cfg == nil {
		return http.DefaultClient
	}
	return &http.Client{Timeout: cfg.ProviderRequestTimeout()}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
