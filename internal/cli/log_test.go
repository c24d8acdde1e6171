package cli

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("explored diagram", "nodes", 7)

	line := strings.TrimSpace(buf.String())
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(line) {
		t.Errorf("line %q does not start with a HH:MM:SS.ms timestamp", line)
	}
	if !strings.Contains(line, "explored diagram") || !strings.Contains(line, "nodes=7") {
		t.Errorf("line %q lacks message or fields", line)
	}
}

func TestNewLoggerFiltersLevels(t *testing.T) {
	tests := []struct {
		level log.Level
		want  []string
	}{
		{log.DebugLevel, []string{"debug", "info", "warn"}},
		{log.InfoLevel, []string{"info", "warn"}},
		{log.WarnLevel, []string{"warn"}},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)
			l.Debug("debug")
			l.Info("info")
			l.Warn("warn")
			if got := strings.Count(buf.String(), "\n"); got != len(tt.want) {
				t.Errorf("wrote %d lines, want %d:\n%s", got, len(tt.want), buf.String())
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("decomposed", "cylinders", 2)

	for _, want := range []string{"decomposed", "cylinders=2", "elapsed="} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output %q does not contain %q", buf.String(), want)
		}
	}
}
