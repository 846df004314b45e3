package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("packed") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("packed") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("packed") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("mixed widths") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Loaded 9 cards")

	out := buf.String()
	if !strings.Contains(out, "Loaded 9 cards (") || !strings.Contains(out, "s)") {
		t.Errorf("progress.done() output = %q, want message with duration", out)
	}
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), custom)
	if got := loggerFromContext(ctx); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without logger should return log.Default()")
	}
	if loggerFromContext(nil) == nil {
		t.Error("loggerFromContext(nil) returned nil")
	}
}
