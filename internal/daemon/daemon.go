package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"roomclip/internal/api"
	"roomclip/internal/config"
	"roomclip/internal/logging"
	"roomclip/internal/store"
	"roomclip/internal/worker"
)

// Daemon runs the session worker and optional API server as a single
// instance enforced by a file lock.
type Daemon struct {
	cfg    *config.Config
	store  *store.Store
	worker *worker.SessionWorker
	server *api.Server
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a daemon with initialized dependencies. The API server is
// nil when the HTTP trigger is disabled.
func New(cfg *config.Config, st *store.Store, w *worker.SessionWorker, server *api.Server, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || w == nil {
		return nil, errors.New("daemon requires config, store, and worker")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "roomclipd.lock")
	return &Daemon{
		cfg:      cfg,
		store:    st,
		worker:   w,
		server:   server,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and launches the worker loop and API
// server in the background.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another roomclip daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running.Store(true)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.worker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("worker loop exited", logging.Error(err))
		}
	}()

	if d.server != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			if err := d.server.Start(); err != nil {
				d.logger.Error("api server exited", logging.Error(err))
			}
		}()
	}

	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop terminates background processing and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.server.Shutdown(shutdownCtx); err != nil {
			d.logger.Warn("api server shutdown failed", logging.Error(err))
		}
		cancel()
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}
