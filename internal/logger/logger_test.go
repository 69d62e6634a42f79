package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestResolveLogFilePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	got, err := resolveLogFilePath(Options{Dir: dir})
	if err != nil {
		t.Fatalf("resolve log path failed: %v", err)
	}
	if got != filepath.Join(dir, defaultLogFilename) {
		t.Fatalf("unexpected log path: %s", got)
	}
	if _, err := os.Stat(got); err != nil {
		t.Fatalf("log file should be created: %v", err)
	}

	got, err = resolveLogFilePath(Options{Dir: dir, Filename: " candy.log "})
	if err != nil || filepath.Base(got) != "candy.log" {
		t.Fatalf("filename should be trimmed, got %s err=%v", got, err)
	}
}

func TestResolveLevel(t *testing.T) {
	cases := []struct {
		mode  string
		raw   string
		level zapcore.Level
	}{
		{"debug", "", zapcore.DebugLevel},
		{"release", "", zapcore.InfoLevel},
		{"release", "warn", zapcore.WarnLevel},
		{" DEBUG ", "error", zapcore.ErrorLevel},
		{"release", "verbose", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		if got := resolveLevel(tc.mode, tc.raw); got != tc.level {
			t.Fatalf("mode=%q level=%q want %s got %s", tc.mode, tc.raw, tc.level, got)
		}
	}
}

func TestNewReleaseWritesJSONWithService(t *testing.T) {
	dir := t.TempDir()
	log := New("release", Options{Dir: dir, Filename: "release.log"})
	log.Info("backup_created")
	log.Debug("debug_hidden")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(dir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, `"message":"backup_created"`) || !strings.Contains(line, `"service":"`+serviceName+`"`) {
		t.Fatalf("unexpected log line: %s", line)
	}
	if strings.Contains(line, "debug_hidden") {
		t.Fatalf("release mode should drop debug entries")
	}
}

func TestNewReleaseRespectsLevel(t *testing.T) {
	dir := t.TempDir()
	log := New("release", Options{Dir: dir, Filename: "warn.log", Level: "warn"})
	log.Info("info_hidden")
	log.Warn("storage_nearly_full")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(dir, "warn.log"))
	if err != nil {
		t.Fatalf("read log failed: %v", err)
	}
	if strings.Contains(string(content), "info_hidden") || !strings.Contains(string(content), "storage_nearly_full") {
		t.Fatalf("level filter not applied: %s", content)
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	dir := t.TempDir()
	log := New("debug", Options{Dir: dir, Filename: "debug.log"})
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(dir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}
