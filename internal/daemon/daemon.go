package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"readaloud/internal/api"
	"readaloud/internal/config"
	"readaloud/internal/ipc"
	"readaloud/internal/logging"
)

// ErrAlreadyRunning reports that another daemon holds the lock.
var ErrAlreadyRunning = errors.New("another readaloud daemon instance is already running")

// Daemon serves processPage requests.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *api.ProcessPageService

	lockPath string
	lock     *flock.Flock

	mu        sync.Mutex
	running   atomic.Bool
	startedAt time.Time
	apiAddr   string
}

// New constructs a daemon around generator.
func New(cfg *config.Config, generator api.SummaryGenerator, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || generator == nil {
		return nil, errors.New("daemon requires config and summary generator")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "daemon")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		service:  api.NewProcessPageService(generator, logger),
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
	}, nil
}

// Start acquires the daemon lock.
func (d *Daemon) Start() error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	d.mu.Lock()
	d.startedAt = time.Now().UTC()
	d.mu.Unlock()
	d.running.Store(true)
	d.logger.Info("readaloud daemon started",
		logging.String(logging.FieldEventType, "daemon_start"),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Stop releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_unlock_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "next daemon start may report a running instance"),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if no daemon is running"),
		)
	}
	d.running.Store(false)
	d.logger.Info("readaloud daemon stopped", logging.String(logging.FieldEventType, "daemon_stop"))
}

// Run starts the daemon and its transports and blocks until ctx is done.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(); err != nil {
		return err
	}
	defer d.Stop()

	group, groupCtx := errgroup.WithContext(ctx)

	ipcServer, err := ipc.NewServer(groupCtx, d.cfg.Paths.SocketPath, d, d.logger)
	if err != nil {
		return fmt.Errorf("start ipc server: %w", err)
	}
	ipcServer.Serve()

	httpServer, err := newAPIServer(d.cfg, d, d.logger)
	if err != nil {
		ipcServer.Close()
		return err
	}
	if httpServer != nil {
		if err := httpServer.listen(); err != nil {
			ipcServer.Close()
			return err
		}
		d.mu.Lock()
		d.apiAddr = httpServer.addr()
		d.mu.Unlock()
		group.Go(httpServer.serve)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		httpServer.stop()
		ipcServer.Close()
		return nil
	})

	d.logger.Info("daemon ready",
		logging.String("socket", d.cfg.Paths.SocketPath),
		logging.String("api", d.APIAddr()),
	)
	return group.Wait()
}

// ProcessPage answers a processPage request.
func (d *Daemon) ProcessPage(ctx context.Context, req api.ProcessPageRequest) api.ProcessPageResponse {
	return d.service.ProcessPage(ctx, req)
}

// Status reports runtime information.
func (d *Daemon) Status(context.Context) api.DaemonStatus {
	served, failures := d.service.Counters()
	d.mu.Lock()
	defer d.mu.Unlock()
	status := api.DaemonStatus{
		Running:        d.running.Load(),
		PID:            os.Getpid(),
		SocketPath:     d.cfg.Paths.SocketPath,
		APIBind:        d.apiAddr,
		RequestsServed: served,
		Failures:       failures,
	}
	if !d.startedAt.IsZero() {
		status.StartedAt = d.startedAt.Format(time.RFC3339)
	}
	return status
}

// APIAddr returns the address the HTTP API listens on, once running.
func (d *Daemon) APIAddr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.apiAddr
}
