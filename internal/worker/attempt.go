package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"roomclip/internal/events"
	"roomclip/internal/logging"
	"roomclip/internal/manifest"
	"roomclip/internal/services"
	"roomclip/internal/timeline"
)

type attemptOutcome struct {
	released   bool
	clipCount  int
	roomCount  int
	eventCount int
	rejected   int
	stats      events.PairStats
}

// attempt runs one slicing pass for a claimed session. A returned error
// moves the session to the error state; a released outcome returns it to
// uploading. The session store is only committed when every clip succeeded.
func (w *SessionWorker) attempt(ctx context.Context, sessionID string, logger *slog.Logger) (attemptOutcome, error) {
	session, err := w.store.GetSession(ctx, sessionID)
	if err != nil {
		return attemptOutcome{}, err
	}
	if session.MasterVideoPath == "" {
		return attemptOutcome{}, services.Wrap(services.ErrValidation, "worker", "attempt", "session has no master video path", nil)
	}
	if session.OBST0 == 0 && w.policy == timeline.PolicyBaseline {
		return attemptOutcome{}, services.Wrap(services.ErrValidation, "worker", "attempt", "session has no recording baseline", nil)
	}

	stream, err := w.store.EventsForSession(ctx, sessionID)
	if err != nil {
		return attemptOutcome{}, err
	}

	t0 := timeline.ResolveBaseline(w.policy, session.OBST0, stream)
	spans, stats := events.Pair(stream)
	order := events.RoomOrder(stream)
	rooms, rejected := timeline.NormalizeAll(spans, order, t0)

	outcome := attemptOutcome{
		eventCount: len(stream),
		rejected:   rejected,
		stats:      stats,
	}

	total := 0
	for _, room := range rooms {
		total += len(room.Offsets)
	}
	if total == 0 {
		// Nothing sliceable is not a failure: the session goes back to
		// uploading and waits for more events.
		note := fmt.Sprintf("no sliceable spans (%d events, %d stray exits, %d unpaired enters, %d rejected)",
			len(stream), stats.StrayExits, stats.UnpairedEnters, rejected)
		if err := w.store.Release(ctx, sessionID, note); err != nil {
			return attemptOutcome{}, err
		}
		outcome.released = true
		return outcome, nil
	}

	attemptID := uuid.NewString()
	ctx = services.WithAttemptID(ctx, attemptID)
	logger = logger.With(logging.String(logging.FieldAttemptID, attemptID))

	workDir := filepath.Join(w.cfg.Paths.WorkspaceDir, attemptID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return attemptOutcome{}, fmt.Errorf("create attempt workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	logger.Info("attempt started",
		logging.Float64("t0", t0),
		logging.Int("spans", total))

	masterPath := filepath.Join(workDir, "master.mp4")
	if err := w.blobs.Download(ctx, session.MasterVideoPath, masterPath); err != nil {
		return attemptOutcome{}, services.Wrap(services.ErrNotFound, "worker", "download_master", fmt.Sprintf("master video %q", session.MasterVideoPath), err)
	}

	roomClips, err := w.cutAndUpload(ctx, sessionID, masterPath, workDir, rooms, logger)
	if err != nil {
		return attemptOutcome{}, err
	}

	entries := manifest.Build(roomClips)
	lessonTitle := manifest.LessonTitle(session.Title, session.MasterVideoPath)
	if err := w.store.CommitManifest(ctx, sessionID, sessionID, lessonTitle, entries); err != nil {
		return attemptOutcome{}, err
	}

	outcome.clipCount = len(entries)
	outcome.roomCount = len(roomClips)
	return outcome, nil
}

// cutAndUpload produces every clip for the attempt. The first failed cut or
// upload aborts the whole attempt so no partial manifest can be committed.
func (w *SessionWorker) cutAndUpload(ctx context.Context, sessionID, masterPath, workDir string, rooms []timeline.RoomOffsets, logger *slog.Logger) ([]manifest.RoomClips, error) {
	roomClips := make([]manifest.RoomClips, 0, len(rooms))
	for _, room := range rooms {
		clips := make([]manifest.Clip, 0, len(room.Offsets))
		for i, offsets := range room.Offsets {
			idx := i + 1
			fileName := manifest.ClipFileName(sessionID, room.RoomID, idx)
			clipPath := filepath.Join(workDir, fileName)

			if err := w.cutter.Cut(ctx, masterPath, offsets.Start, offsets.End, clipPath); err != nil {
				return nil, services.Wrap(services.ErrExternalTool, "worker", "cut_clip",
					fmt.Sprintf("room %s clip %d (%.3f-%.3f)", room.RoomID, idx, offsets.Start, offsets.End), err)
			}

			url, err := w.blobs.Upload(ctx, sessionID, fileName, clipPath)
			if err != nil {
				return nil, services.Wrap(services.ErrTransient, "worker", "upload_clip",
					fmt.Sprintf("room %s clip %d", room.RoomID, idx), err)
			}

			clips = append(clips, manifest.Clip{URL: url, Start: offsets.Start, End: offsets.End})

			if err := w.store.Touch(ctx, sessionID); err != nil {
				logger.Warn("heartbeat update failed", logging.Error(err))
			}
		}
		roomClips = append(roomClips, manifest.RoomClips{RoomID: room.RoomID, Clips: clips})
	}
	return roomClips, nil
}
