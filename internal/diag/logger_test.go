package diag

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledLoggerDiscards(t *testing.T) {
	l, err := New(Config{Enabled: false})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Must be a no-op, not a panic, on every path.
	l.Warnf(CategoryTranslate, "dropped %d", 1)
	l.Log(LevelError, CategoryLoop, "x", map[string]any{"k": "v"})
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var nilLogger *Logger
	nilLogger.Warnf(CategoryBackend, "also fine")
}

func TestWriteAndLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.log")
	l, err := New(Config{Enabled: true, Level: LevelWarn, FilePath: path, MaxSizeMB: 1, MaxFiles: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.Debugf(CategoryTranslate, "below threshold")
	l.Warnf(CategoryTranslate, "dropped event %d", 7)
	l.Log(LevelError, CategoryBackend, "pump failed", map[string]any{"errno": 32, "op": "read"})

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)

	if strings.Contains(out, "below threshold") {
		t.Fatal("debug record written despite warn level")
	}
	if !strings.Contains(out, "[TRANSLATE] dropped event 7") {
		t.Fatalf("warn record missing:\n%s", out)
	}
	if !strings.Contains(out, `errno=32 op="read"`) {
		t.Fatalf("details not serialized in sorted key order:\n%s", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"garbage", LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLogLevel(tc.in); got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
