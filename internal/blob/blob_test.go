package blob_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"roomclip/internal/blob"
	"roomclip/internal/services"
)

func TestNewLocalValidation(t *testing.T) {
	if _, err := blob.NewLocal("", "http://x"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for empty root, got %v", err)
	}
	if _, err := blob.NewLocal(t.TempDir(), ""); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for empty base URL, got %v", err)
	}
}

func TestDownload(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "master.mp4")
	if err := os.WriteFile(src, []byte("video-bytes"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	store, err := blob.NewLocal(dir, "http://media.local")
	if err != nil {
		t.Fatalf("new local: %v", err)
	}

	dest := filepath.Join(dir, "work", "master.mp4")
	if err := store.Download(context.Background(), src, dest); err != nil {
		t.Fatalf("download: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "video-bytes" {
		t.Fatalf("downloaded content = %q, err %v", data, err)
	}

	err = store.Download(context.Background(), filepath.Join(dir, "missing.mp4"), dest)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing source, got %v", err)
	}
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(clip, []byte("clip-bytes"), 0o644); err != nil {
		t.Fatalf("write clip: %v", err)
	}

	store, err := blob.NewLocal(filepath.Join(dir, "storage"), "http://media.local/")
	if err != nil {
		t.Fatalf("new local: %v", err)
	}

	url, err := store.Upload(context.Background(), "sess-1", "sess-1_roomA_1.mp4", clip)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "http://media.local/clips/sess-1/sess-1_roomA_1.mp4" {
		t.Fatalf("url = %q", url)
	}

	stored := filepath.Join(dir, "storage", "clips", "sess-1", "sess-1_roomA_1.mp4")
	data, err := os.ReadFile(stored)
	if err != nil || string(data) != "clip-bytes" {
		t.Fatalf("stored content = %q, err %v", data, err)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(stored))
	if err != nil {
		t.Fatalf("read clip dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("clip dir should hold exactly the final clip, got %d entries", len(entries))
	}
}

func TestUploadValidation(t *testing.T) {
	store, err := blob.NewLocal(t.TempDir(), "http://media.local")
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	if _, err := store.Upload(context.Background(), "", "f.mp4", "x"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
