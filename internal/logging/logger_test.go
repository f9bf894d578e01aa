package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONEntries(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "debug.log")

	logger, err := New(logPath, LevelDebug)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Info("agent completed", "agent", "claude", "exit", 0)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("log entry is not valid JSON: %v", err)
	}
	if entry["msg"] != "agent completed" {
		t.Errorf("msg = %v, want %q", entry["msg"], "agent completed")
	}
	if entry["agent"] != "claude" {
		t.Errorf("agent = %v, want %q", entry["agent"], "claude")
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "debug.log")

	logger, err := New(logPath, LevelWarn)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")
	logger.Close()

	data, _ := os.ReadFile(logPath)
	if strings.Contains(string(data), "hidden") {
		t.Error("debug/info entries should be filtered at WARN level")
	}
	if !strings.Contains(string(data), "visible") {
		t.Error("warn entry should be present")
	}
}

func TestWithAgentAttachesAttribute(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "debug.log")

	logger, err := New(logPath, LevelDebug)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	logger.WithAgent("gemini").Info("probe")
	logger.Close()

	data, _ := os.ReadFile(logPath)
	if !strings.Contains(string(data), `"agent":"gemini"`) {
		t.Errorf("expected agent attribute in entry, got %s", data)
	}
}

func TestDefaultFallsBackToStderr(t *testing.T) {
	// An unwritable home directory must not prevent logger creation.
	logger := Default(filepath.Join(string(os.PathSeparator), "proc", "no-such-dir"))
	if logger == nil {
		t.Fatal("Default() returned nil")
	}
	logger.Close()
}

func TestRotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "debug.log")

	rw, err := NewRotatingWriter(logPath, RotationConfig{MaxSizeMB: 0, MaxBackups: 2})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error: %v", err)
	}
	// MaxSizeMB 0 disables rotation entirely.
	for range 10 {
		if _, err := rw.Write([]byte(strings.Repeat("x", 100) + "\n")); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
	}
	rw.Close()
	if _, err := os.Stat(logPath + ".1"); err == nil {
		t.Error("rotation disabled, no backup expected")
	}

	// Force rotation with a tiny threshold by writing past 1 MB.
	rw, err = NewRotatingWriter(logPath, RotationConfig{MaxSizeMB: 1, MaxBackups: 2})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error: %v", err)
	}
	chunk := []byte(strings.Repeat("y", 512*1024))
	for range 5 {
		if _, err := rw.Write(chunk); err != nil {
			t.Fatalf("Write() error: %v", err)
		}
	}
	rw.Close()

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("expected backup file after rotation: %v", err)
	}
}
