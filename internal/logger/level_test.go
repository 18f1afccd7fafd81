package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/harrison/csvconv/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type levelLogger interface {
	LogTrace(string)
	LogDebug(string)
	LogInfo(string)
	LogWarn(string)
	LogError(string)
}

func logAt(l levelLogger, level, message string) {
	switch level {
	case "trace":
		l.LogTrace(message)
	case "debug":
		l.LogDebug(message)
	case "info":
		l.LogInfo(message)
	case "warn":
		l.LogWarn(message)
	case "error":
		l.LogError(message)
	}
}

// TestLogLevelFiltering verifies that messages are filtered based on log level
func TestLogLevelFiltering(t *testing.T) {
	for ci, configured := range ValidLevels {
		for mi, message := range ValidLevels {
			shouldAppear := mi >= ci
			t.Run(configured+"/"+message, func(t *testing.T) {
				buf := &bytes.Buffer{}
				logger := NewConsoleLogger(buf, configured)
				logAt(logger, message, message+" msg")

				if shouldAppear {
					assert.Contains(t, buf.String(), "["+strings.ToUpper(message)+"] "+message+" msg")
				} else {
					assert.Empty(t, buf.String())
				}
			})
		}
	}
}

func TestNormalizeLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "info"},
		{"DEBUG", "debug"},
		{"  warn ", "warn"},
		{"verbose", "info"},
		{"trace", "trace"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeLogLevel(tt.input))
		})
	}
}

func TestFileResultLevels(t *testing.T) {
	failed := models.FileResult{
		Task:    models.FileTask{RelPath: "bad.csv"},
		Outcome: models.OutcomeFailed,
		Err:     os.ErrPermission,
	}
	converted := models.FileResult{
		Task:    models.FileTask{RelPath: "good.csv"},
		Outcome: models.OutcomeConverted,
	}

	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "error")
	logger.LogFileResult(converted, 1, 2)
	logger.LogFileResult(failed, 2, 2)

	out := buf.String()
	assert.NotContains(t, out, "good.csv")
	assert.Contains(t, out, "[2/2] failed bad.csv: permission denied")
}

func TestFileLoggerLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	fl, err := NewFileLoggerWithLevel(dir, "warn")
	require.NoError(t, err)

	fl.LogInfo("hidden info")
	fl.LogWarn("visible warn")
	require.NoError(t, fl.Close())

	data, err := os.ReadFile(fl.RunFile())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden info")
	assert.Contains(t, string(data), "[WARN] visible warn")
}
