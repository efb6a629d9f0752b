package preflight_test

import (
	"context"
	"path/filepath"
	"testing"

	"roomclip/internal/config"
	"roomclip/internal/preflight"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = filepath.Join(dir, "work")
	cfg.Paths.StorageDir = filepath.Join(dir, "storage")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

func TestCheckDirectoryAccess(t *testing.T) {
	cfg := testConfig(t)

	result := preflight.CheckDirectoryAccess("Workspace directory", cfg.Paths.WorkspaceDir)
	if !result.Passed {
		t.Fatalf("existing dir should pass: %+v", result)
	}

	result = preflight.CheckDirectoryAccess("Workspace directory", filepath.Join(cfg.Paths.WorkspaceDir, "missing"))
	if result.Passed {
		t.Fatalf("missing dir should fail: %+v", result)
	}
}

func TestCheckBinary(t *testing.T) {
	result := preflight.CheckBinary(context.Background(), "Shell", "sh")
	if !result.Passed {
		t.Skipf("sh not on PATH: %+v", result)
	}

	result = preflight.CheckBinary(context.Background(), "Nope", "definitely-not-a-binary-xyz")
	if result.Passed {
		t.Fatalf("nonexistent binary should fail: %+v", result)
	}
}

func TestCheckDatabase(t *testing.T) {
	cfg := testConfig(t)
	result := preflight.CheckDatabase(cfg)
	if !result.Passed {
		t.Fatalf("database check should pass: %+v", result)
	}
}

func TestAllPassed(t *testing.T) {
	results := []preflight.Result{{Passed: true}, {Passed: true}}
	if !preflight.AllPassed(results) {
		t.Fatal("all passing results should report true")
	}
	results = append(results, preflight.Result{Passed: false})
	if preflight.AllPassed(results) {
		t.Fatal("one failing result should report false")
	}
}
