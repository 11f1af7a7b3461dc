package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"--config", "/nonexistent/path/config.yaml", "list"}, &stdout, &stderr)
	if code != 4 {
		t.Fatalf("run() = %d, want 4 (invalid usage); stderr: %s", code, stderr.String())
	}
}

// TestRun_UnwritableDatabasePath verifies run fails when the store cannot be created.
func TestRun_UnwritableDatabasePath(t *testing.T) {
	tmpDir := t.TempDir()
	blocker := filepath.Join(tmpDir, "blocker")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatalf("writing blocker: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"--config", filepath.Join(tmpDir, "absent.yaml"), "list"},
		&stdout, &stderr)
	if code != 4 {
		t.Fatalf("explicit missing config: run() = %d, want 4", code)
	}

	t.Setenv("LUXCTL_DATABASE_PATH", filepath.Join(blocker, "db", "actions.sqlite"))
	stderr.Reset()
	code = run(context.Background(), []string{"list"}, &stdout, &stderr)
	if code != 2 {
		t.Fatalf("run() = %d, want 2 (store unavailable); stderr: %s", code, stderr.String())
	}
}

// TestRun_AddList exercises a full invocation against a temporary store.
func TestRun_AddList(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "actions.sqlite")
	ctx := context.Background()

	var stdout, stderr bytes.Buffer
	if code := run(ctx, []string{"--db", dbPath, "add", "-l", "42", "-e", "/usr/local/bin/lights on"}, &stdout, &stderr); code != 0 {
		t.Fatalf("add: run() = %d; stderr: %s", code, stderr.String())
	}

	stdout.Reset()
	if code := run(ctx, []string{"--db", dbPath, "list"}, &stdout, &stderr); code != 0 {
		t.Fatalf("list: run() = %d; stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "        42 /usr/local/bin/lights on") {
		t.Errorf("list output = %q", stdout.String())
	}
}

func TestVersionString(t *testing.T) {
	if got := versionString(); !strings.HasPrefix(got, "dev ") {
		t.Errorf("versionString() = %q, want dev prefix", got)
	}
}
