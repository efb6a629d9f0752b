package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"roomclip/internal/blob"
	"roomclip/internal/config"
	"roomclip/internal/logging"
	"roomclip/internal/services"
	"roomclip/internal/services/ffmpeg"
	"roomclip/internal/store"
	"roomclip/internal/timeline"
)

// SessionWorker discovers sessions awaiting slicing, claims them, and runs
// the cut/upload/commit pipeline. All collaborators are injected.
type SessionWorker struct {
	cfg    *config.Config
	store  *store.Store
	blobs  blob.Store
	cutter ffmpeg.Cutter
	logger *slog.Logger

	policy             timeline.BaselinePolicy
	pollInterval       time.Duration
	claimTimeout       time.Duration
	errorRetryInterval time.Duration
}

// New constructs a SessionWorker from its collaborators.
func New(cfg *config.Config, st *store.Store, blobs blob.Store, cutter ffmpeg.Cutter, logger *slog.Logger) (*SessionWorker, error) {
	policy, err := timeline.ParseBaselinePolicy(cfg.Slicing.T0Policy)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SessionWorker{
		cfg:          cfg,
		store:        st,
		blobs:        blobs,
		cutter:       cutter,
		logger:       logging.NewComponentLogger(logger, "session-worker"),
		policy:             policy,
		pollInterval:       time.Duration(cfg.Worker.PollInterval) * time.Second,
		claimTimeout:       time.Duration(cfg.Worker.ClaimTimeout) * time.Second,
		errorRetryInterval: time.Duration(cfg.Worker.ErrorRetryInterval) * time.Second,
	}, nil
}

// Run polls for eligible sessions until the context is cancelled. Stale
// processing claims are reclaimed on each tick before new work is picked up.
func (w *SessionWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("session worker started",
		logging.Duration("poll_interval", w.pollInterval),
		logging.String("t0_policy", string(w.policy)))

	for {
		if err := w.tick(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("poll pass failed", logging.Error(err))
			// Back off before retrying so a broken store is not hammered
			// at the poll rate.
			if !w.waitRetryOrShutdown(ctx) {
				w.logger.Info("session worker stopping")
				return ctx.Err()
			}
			continue
		}

		select {
		case <-ctx.Done():
			w.logger.Info("session worker stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *SessionWorker) tick(ctx context.Context) error {
	cutoff := time.Now().Add(-w.claimTimeout)
	if reclaimed, err := w.store.ReclaimStale(ctx, cutoff); err != nil {
		if !errors.Is(err, context.Canceled) {
			w.logger.Warn("reclaim stale sessions failed", logging.Error(err))
		}
	} else if reclaimed > 0 {
		w.logger.Info("reclaimed stale sessions", logging.Int64("count", reclaimed))
	}

	_, err := w.ProcessEligibleOnce(ctx)
	return err
}

// waitRetryOrShutdown pauses for the configured error retry interval. It
// reports false when the context ended before the interval elapsed.
func (w *SessionWorker) waitRetryOrShutdown(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(w.errorRetryInterval):
		return true
	}
}

// ProcessEligibleOnce scans for uploading sessions and processes every one
// it manages to claim. It returns the number of sessions it attempted.
func (w *SessionWorker) ProcessEligibleOnce(ctx context.Context) (int, error) {
	sessions, err := w.store.ListByStatus(ctx, store.StatusUploading)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, session := range sessions {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		claimed, err := w.store.Claim(ctx, session.ID)
		if err != nil {
			return processed, err
		}
		if !claimed {
			// Another worker got there first.
			continue
		}
		processed++
		w.processClaimed(ctx, session.ID)
	}
	return processed, nil
}

// ProcessOne claims and processes a single session by id. It reports false
// when the session was not claimable (wrong status or already claimed).
func (w *SessionWorker) ProcessOne(ctx context.Context, sessionID string) (bool, error) {
	claimed, err := w.store.Claim(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}
	w.processClaimed(ctx, sessionID)
	return true, nil
}

// processClaimed runs one attempt for a session already moved to processing.
// Attempt failures are recorded on the session and never abort the worker.
func (w *SessionWorker) processClaimed(ctx context.Context, sessionID string) {
	ctx = services.WithSessionID(ctx, sessionID)
	ctx = services.WithStage(ctx, "slicing")
	logger := logging.WithContext(ctx, w.logger)

	outcome, err := w.attempt(ctx, sessionID, logger)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Shutdown mid-attempt: leave the claim for the stale reclaimer.
			logger.Warn("attempt interrupted by shutdown")
			return
		}
		logger.Error("session attempt failed",
			logging.String(logging.FieldErrorKind, string(services.Classify(err))),
			logging.Error(err))
		if markErr := w.store.MarkError(ctx, sessionID, err.Error()); markErr != nil {
			logger.Error("failed to record session error", logging.Error(markErr))
		}
		return
	}

	switch {
	case outcome.released:
		logger.Info("session released, no sliceable spans yet",
			logging.Int("events", outcome.eventCount),
			logging.Int("stray_exits", outcome.stats.StrayExits),
			logging.Int("unpaired_enters", outcome.stats.UnpairedEnters),
			logging.Int("rejected_offsets", outcome.rejected))
	default:
		logger.Info("session ready",
			logging.Int("clips", outcome.clipCount),
			logging.Int("rooms", outcome.roomCount),
			logging.Int("stray_exits", outcome.stats.StrayExits),
			logging.Int("unpaired_enters", outcome.stats.UnpairedEnters),
			logging.Int("rejected_offsets", outcome.rejected))
	}
}
