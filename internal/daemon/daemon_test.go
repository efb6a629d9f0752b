package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"roomclip/internal/blob"
	"roomclip/internal/config"
	"roomclip/internal/daemon"
	"roomclip/internal/events"
	"roomclip/internal/store"
	"roomclip/internal/testsupport"
	"roomclip/internal/worker"
)

type noopCutter struct{}

func (noopCutter) Cut(_ context.Context, _ string, _, _ float64, destPath string) error {
	return os.WriteFile(destPath, []byte("clip"), 0o644)
}

func newDaemon(t *testing.T) (*daemon.Daemon, *store.Store, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = filepath.Join(dir, "work")
	cfg.Paths.StorageDir = filepath.Join(dir, "storage")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Storage.BaseURL = "http://media.local"
	cfg.Worker.PollInterval = 1

	st, err := store.Open(&cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	blobs, err := blob.NewLocal(cfg.Paths.StorageDir, cfg.Storage.BaseURL)
	if err != nil {
		t.Fatalf("new blob store: %v", err)
	}
	w, err := worker.New(&cfg, st, blobs, noopCutter{}, nil)
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}
	d, err := daemon.New(&cfg, st, w, nil, nil)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	return d, st, &cfg
}

func TestStartStop(t *testing.T) {
	d, st, cfg := newDaemon(t)
	defer st.Close()

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("second start should fail while running")
	}

	master := filepath.Join(cfg.Paths.StorageDir, "master.mp4")
	testsupport.WriteMasterVideo(t, master)
	if _, err := st.UpsertSession(ctx, &store.Session{ID: "sess-1", MasterVideoPath: master, OBST0: 1000}); err != nil {
		t.Fatalf("upsert session: %v", err)
	}
	for _, ev := range []struct {
		typ events.Type
		ts  float64
	}{{events.TypeEnter, 1010}, {events.TypeExit, 1030}} {
		if _, err := st.AddRoomEvent(ctx, "sess-1", "roomA", ev.typ, ev.ts); err != nil {
			t.Fatalf("add event: %v", err)
		}
	}

	deadline := time.Now().Add(10 * time.Second)
	for {
		session, err := st.GetSession(ctx, "sess-1")
		if err != nil {
			t.Fatalf("get session: %v", err)
		}
		if session.Status == store.StatusReady {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("session never became ready, status %q (%s)", session.Status, session.ErrorMessage)
		}
		time.Sleep(50 * time.Millisecond)
	}

	d.Stop()
	// Stop is idempotent.
	d.Stop()
}

func TestSingleInstanceLock(t *testing.T) {
	d1, st, cfg := newDaemon(t)
	defer st.Close()

	if err := d1.Start(context.Background()); err != nil {
		t.Fatalf("start first: %v", err)
	}
	defer d1.Stop()

	st2, err := store.OpenPath(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open second store: %v", err)
	}
	defer st2.Close()
	blobs, err := blob.NewLocal(cfg.Paths.StorageDir, cfg.Storage.BaseURL)
	if err != nil {
		t.Fatalf("new blob store: %v", err)
	}
	w2, err := worker.New(cfg, st2, blobs, noopCutter{}, nil)
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}
	d2, err := daemon.New(cfg, st2, w2, nil, nil)
	if err != nil {
		t.Fatalf("new second daemon: %v", err)
	}

	if err := d2.Start(context.Background()); err == nil {
		d2.Stop()
		t.Fatal("second daemon should fail to acquire the lock")
	}
}
