package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerTimestampFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("rendered", "seed", 97)

	out := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(out) {
		t.Errorf("timestamp prefix missing: %q", out)
	}
	if !strings.Contains(out, "seed=97") {
		t.Errorf("structured field missing: %q", out)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantDebug bool
	}{
		{log.DebugLevel, true},
		{log.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			newLogger(&buf, tt.level).Debug("trigger render")
			if got := buf.Len() > 0; got != tt.wantDebug {
				t.Errorf("debug output = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Rendered 2 avatar(s)")

	out := buf.String()
	if !strings.Contains(out, "Rendered 2 avatar(s) (") {
		t.Errorf("progress output = %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield the default logger")
	}

	l := newLogger(io.Discard, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("attached logger not returned")
	}
}

func TestOpenLogSink(t *testing.T) {
	t.Run("empty path discards", func(t *testing.T) {
		w, closeFn, err := openLogSink("")
		if err != nil {
			t.Fatal(err)
		}
		if w != io.Discard {
			t.Error("expected io.Discard")
		}
		if err := closeFn(); err != nil {
			t.Errorf("close: %v", err)
		}
	})

	t.Run("file appends", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "live.log")
		for _, line := range []string{"first\n", "second\n"} {
			w, closeFn, err := openLogSink(path)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := io.WriteString(w, line); err != nil {
				t.Fatal(err)
			}
			if err := closeFn(); err != nil {
				t.Fatal(err)
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "first\nsecond\n" {
			t.Errorf("log file = %q", data)
		}
	})

	t.Run("bad path fails", func(t *testing.T) {
		if _, _, err := openLogSink(filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
