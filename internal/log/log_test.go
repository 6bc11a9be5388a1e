package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)

	SetLevel(LevelInfo)
	Debug("hidden")
	Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug line emitted at info level")
	}
	if !strings.Contains(out, "[INFO] shown") {
		t.Errorf("info line missing: %q", out)
	}

	buf.Reset()
	SetLevel(LevelDebug)
	Debug("now visible")
	if !strings.Contains(buf.String(), "[DEBUG] now visible") {
		t.Errorf("debug line missing at debug level: %q", buf.String())
	}
}

func TestKeyValueFormatting(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelInfo)

	Info("agenda", "calendar", "Work", "events", 3)

	out := buf.String()
	if !strings.Contains(out, "calendar=Work") || !strings.Contains(out, "events=3") {
		t.Errorf("kv pairs missing: %q", out)
	}

	buf.Reset()
	Info("odd", "dangling")
	if strings.Contains(buf.String(), "dangling") {
		t.Errorf("trailing odd key should be dropped: %q", buf.String())
	}
}

func TestErrorCarriesErr(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelError)

	Error("load failed", errors.New("boom"), "path", "/tmp/x")

	out := buf.String()
	if !strings.Contains(out, "[ERROR] load failed") || !strings.Contains(out, "err=boom") || !strings.Contains(out, "path=/tmp/x") {
		t.Errorf("error line = %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug": LevelDebug,
		"INFO":  LevelInfo,
		"Error": LevelError,
		" info": LevelInfo,
		"trace": LevelInfo,
		"":      LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
