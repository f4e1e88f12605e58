package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trustscore/pkg/config"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		configured int
		verbose    bool
		want       log.Level
		enabled    bool
	}{
		{config.LogInfo, false, log.InfoLevel, true},
		{config.LogDebug, false, log.DebugLevel, true},
		{config.LogSilent, false, log.InfoLevel, false},
		{config.LogSilent, true, log.DebugLevel, true},
		{config.LogInfo, true, log.DebugLevel, true},
	}
	for _, tt := range tests {
		level, enabled := logLevel(tt.configured, tt.verbose)
		if level != tt.want || enabled != tt.enabled {
			t.Errorf("logLevel(%d, %v) = %v, %v", tt.configured, tt.verbose, level, enabled)
		}
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("test completed")

	if !bytes.Contains(buf.Bytes(), []byte("test completed")) {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should never return nil")
	}
}
