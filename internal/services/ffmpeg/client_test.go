package ffmpeg_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"roomclip/internal/services"
	"roomclip/internal/services/ffmpeg"
)

type stubExecutor struct {
	binary  string
	args    []string
	err     error
	output  []string
	created bool
}

func (s *stubExecutor) Run(_ context.Context, binary string, args []string, onOutput func(string)) error {
	s.binary = binary
	s.args = args
	for _, line := range s.output {
		onOutput(line)
	}
	if s.err != nil {
		return s.err
	}
	if s.created {
		// Simulate ffmpeg writing its output file.
		dest := args[len(args)-1]
		return os.WriteFile(dest, []byte("clip"), 0o644)
	}
	return nil
}

func newClient(t *testing.T, exec *stubExecutor) *ffmpeg.Client {
	t.Helper()
	client, err := ffmpeg.New("ffmpeg", 0, ffmpeg.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestCutBuildsCopyCodecCommand(t *testing.T) {
	exec := &stubExecutor{created: true}
	client := newClient(t, exec)
	dest := filepath.Join(t.TempDir(), "clip.mp4")

	if err := client.Cut(context.Background(), "/videos/master.mp4", 10, 40, dest); err != nil {
		t.Fatalf("Cut failed: %v", err)
	}

	want := []string{
		"-nostdin", "-loglevel", "error", "-y",
		"-ss", "10.000",
		"-t", "30.000",
		"-i", "/videos/master.mp4",
		"-c", "copy",
		dest,
	}
	if len(exec.args) != len(want) {
		t.Fatalf("args = %v, want %v", exec.args, want)
	}
	for i := range want {
		if exec.args[i] != want[i] {
			t.Fatalf("args[%d] = %q, want %q (full: %v)", i, exec.args[i], want[i], exec.args)
		}
	}
}

func TestCutAppliesDurationFloor(t *testing.T) {
	exec := &stubExecutor{created: true}
	client := newClient(t, exec)
	dest := filepath.Join(t.TempDir(), "clip.mp4")

	if err := client.Cut(context.Background(), "/videos/master.mp4", 10, 10.01, dest); err != nil {
		t.Fatalf("Cut failed: %v", err)
	}
	for i, arg := range exec.args {
		if arg == "-t" {
			if exec.args[i+1] != "0.100" {
				t.Fatalf("duration = %q, want 0.100", exec.args[i+1])
			}
			return
		}
	}
	t.Fatalf("no -t flag in args: %v", exec.args)
}

func TestCutWrapsToolFailure(t *testing.T) {
	exec := &stubExecutor{err: errors.New("exit status 1"), output: []string{"moov atom not found"}}
	client := newClient(t, exec)
	dest := filepath.Join(t.TempDir(), "clip.mp4")

	err := client.Cut(context.Background(), "/videos/master.mp4", 10, 40, dest)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestCutFailsWhenNoOutputProduced(t *testing.T) {
	exec := &stubExecutor{}
	client := newClient(t, exec)
	dest := filepath.Join(t.TempDir(), "clip.mp4")

	err := client.Cut(context.Background(), "/videos/master.mp4", 10, 40, dest)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool when output missing, got %v", err)
	}
}

func TestCutValidatesInputs(t *testing.T) {
	client := newClient(t, &stubExecutor{})
	if err := client.Cut(context.Background(), "", 0, 1, "/tmp/out.mp4"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty source, got %v", err)
	}
	if err := client.Cut(context.Background(), "/videos/master.mp4", 0, 1, ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty dest, got %v", err)
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := ffmpeg.New("  ", 0); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
