package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
workspace_dir = "` + dir + `/work"
storage_dir = "` + dir + `/storage"
log_dir = "` + dir + `/logs"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output should name the target, got %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[worker]") {
		t.Fatal("sample missing [worker] section")
	}

	// Second init without --overwrite refuses.
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when sample exists")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("overwrite should succeed: %v", err)
	}
}

func TestSessionsAddAndShow(t *testing.T) {
	cfgPath := writeTestConfig(t)
	master := filepath.Join(filepath.Dir(cfgPath), "master.mp4")
	if err := os.WriteFile(master, []byte("master"), 0o644); err != nil {
		t.Fatalf("write master: %v", err)
	}

	out, err := runCommand(t, "-c", cfgPath, "sessions", "add", "sess-1", master, "--title", "Algebra", "--t0", "1000")
	if err != nil {
		t.Fatalf("sessions add: %v", err)
	}
	if !strings.Contains(out, "uploading") {
		t.Fatalf("add output = %q", out)
	}

	out, err = runCommand(t, "-c", cfgPath, "events", "add", "sess-1", "roomA", "enter", "1010")
	if err != nil {
		t.Fatalf("events add: %v", err)
	}
	if !strings.Contains(out, "recorded") {
		t.Fatalf("events output = %q", out)
	}

	out, err = runCommand(t, "-c", cfgPath, "sessions", "show", "sess-1")
	if err != nil {
		t.Fatalf("sessions show: %v", err)
	}
	if !strings.Contains(out, "sess-1") || !strings.Contains(out, "Events:  1") {
		t.Fatalf("show output = %q", out)
	}
}

func TestEventsAddRejectsBadType(t *testing.T) {
	cfgPath := writeTestConfig(t)
	if _, err := runCommand(t, "-c", cfgPath, "sessions", "add", "sess-1", "/tmp/master.mp4"); err != nil {
		t.Fatalf("sessions add: %v", err)
	}
	if _, err := runCommand(t, "-c", cfgPath, "events", "add", "sess-1", "roomA", "pause", "1010"); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}
