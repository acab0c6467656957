package internal

import (
	"log/slog"
	"strings"
	"testing"
)

func TestVersionString(t *testing.T) {
	oldVersion, oldCommit := version, gitCommit
	t.Cleanup(func() { version, gitCommit = oldVersion, oldCommit })

	version, gitCommit = "", ""
	if got := VersionString(); got != defaultLocalBuild {
		t.Fatalf("VersionString = %q, want %q", got, defaultLocalBuild)
	}
	if got := Version(); got != defaultUndefined {
		t.Fatalf("Version = %q, want %q", got, defaultUndefined)
	}

	version, gitCommit = "V1.2.3", "a1b2c3d4"
	if got := Version(); got != "1.2.3" {
		t.Fatalf("Version = %q, want 1.2.3", got)
	}
	got := VersionString()
	if !strings.HasPrefix(got, "1.2.3 a1b2c3d4 [") {
		t.Fatalf("VersionString = %q, want prefix %q", got, "1.2.3 a1b2c3d4 [")
	}
}

func TestLogLevel(t *testing.T) {
	t.Cleanup(func() {
		SetQuiet(false)
		SetDebug(false)
	})

	SetQuiet(false)
	SetDebug(false)
	if got := LogLevel(); got != slog.LevelInfo {
		t.Fatalf("LogLevel = %v, want info", got)
	}

	SetQuiet(true)
	if got := LogLevel(); got != slog.LevelWarn {
		t.Fatalf("LogLevel = %v, want warn", got)
	}

	SetDebug(true)
	if got := LogLevel(); got != slog.LevelDebug {
		t.Fatalf("LogLevel = %v, want debug", got)
	}
}
