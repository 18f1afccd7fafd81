// Package logger provides logging implementations for conversion runs.
//
// The logger package reports run progress at the file and summary levels.
// Implementations are thread-safe and support console and file output.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/csvconv/internal/models"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ValidLevels lists the accepted log level names, most verbose first
var ValidLevels = []string{"trace", "debug", "info", "warn", "error"}

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is enabled automatically when writing to a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	scheme      *colorScheme
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
		scheme:      newColorScheme(),
	}
}

// isTerminal reports whether w is a TTY that should receive colors.
// NO_COLOR and non-file writers disable color.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	if IsValidLevel(normalized) {
		return normalized
	}
	return "info"
}

// IsValidLevel reports whether level is one of ValidLevels
func IsValidLevel(level string) bool {
	for _, l := range ValidLevels {
		if l == level {
			return true
		}
	}
	return false
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel writes "[HH:MM:SS] [LEVEL] message" if filtering allows it.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	label := level
	if cl.colorOutput {
		label = cl.scheme.level(level)
	}
	cl.write(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), label, message))
}

func (cl *ConsoleLogger) write(s string) {
	if cl.writer == nil {
		return
	}
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	io.WriteString(cl.writer, s)
}

// LogRunStart logs the run header at INFO level.
// Format: "[HH:MM:SS] Starting <profile> run <id>: <src> -> <dst>"
func (cl *ConsoleLogger) LogRunStart(result *models.RunResult) {
	if !cl.shouldLog("info") {
		return
	}

	profile := result.Profile
	if cl.colorOutput {
		profile = color.New(color.Bold).Sprint(profile)
	}
	msg := fmt.Sprintf("[%s] Starting %s run %s: %s -> %s", timestamp(), profile, shortID(result.RunID), result.SourceRoot, result.DestRoot)
	if result.DryRun {
		msg += " (dry run)"
	}
	cl.write(msg + "\n")
}

// LogFilesFound logs how many files the walk discovered at INFO level.
func (cl *ConsoleLogger) LogFilesFound(count int) {
	if !cl.shouldLog("info") {
		return
	}
	cl.write(fmt.Sprintf("[%s] Found %d %s\n", timestamp(), count, plural(count, "file", "files")))
}

// LogFileResult logs one file outcome. Successes are INFO, failures ERROR.
// Format: "[HH:MM:SS] [i/n] <outcome> <rel> -> <dest> (<detail>)"
// A progress bar follows at DEBUG level.
func (cl *ConsoleLogger) LogFileResult(fr models.FileResult, index, total int) {
	level := "info"
	if fr.Outcome == models.OutcomeFailed {
		level = "error"
	}
	if !cl.shouldLog(level) {
		return
	}

	outcome := string(fr.Outcome)
	if cl.colorOutput {
		outcome = cl.scheme.outcome(fr.Outcome)
	}
	cl.write(fmt.Sprintf("[%s] [%d/%d] %s %s\n", timestamp(), index, total, outcome, describeFile(fr)))

	if cl.shouldLog("debug") {
		pb := NewProgressBar(total, 20, cl.colorOutput)
		pb.Update(index)
		cl.write(fmt.Sprintf("[%s] Progress: %s\n", timestamp(), pb.Render()))
	}
}

// LogSummary logs the run summary with per-outcome counts at INFO level.
// Failed files are always listed, even when INFO is filtered out.
func (cl *ConsoleLogger) LogSummary(result *models.RunResult) {
	ts := timestamp()
	var b strings.Builder

	if cl.shouldLog("info") {
		header := "=== Conversion Summary ==="
		converted := fmt.Sprintf("Converted: %d", result.Converted)
		copied := fmt.Sprintf("Copied: %d", result.Copied)
		failed := fmt.Sprintf("Failed: %d", result.Failed)
		if cl.colorOutput {
			header = color.New(color.Bold).Sprint(header)
			converted = cl.scheme.success.Sprint(converted)
			copied = cl.scheme.label.Sprint(copied)
			if result.Failed > 0 {
				failed = cl.scheme.fail.Sprint(failed)
			}
		}
		fmt.Fprintf(&b, "[%s] %s\n", ts, header)
		fmt.Fprintf(&b, "[%s] Total files: %d\n", ts, result.Total)
		fmt.Fprintf(&b, "[%s] %s\n", ts, converted)
		fmt.Fprintf(&b, "[%s] %s\n", ts, copied)
		fmt.Fprintf(&b, "[%s] %s\n", ts, failed)
		if len(result.ScanErrors) > 0 {
			fmt.Fprintf(&b, "[%s] Scan errors: %d\n", ts, len(result.ScanErrors))
		}
		fmt.Fprintf(&b, "[%s] Duration: %s\n", ts, formatDuration(result.Duration))
	}

	if len(result.FailedFiles) > 0 && cl.shouldLog("error") {
		failedHeader := "Failed files:"
		if cl.colorOutput {
			failedHeader = cl.scheme.fail.Sprint(failedHeader)
		}
		fmt.Fprintf(&b, "[%s] %s\n", ts, failedHeader)
		for _, fr := range result.FailedFiles {
			fmt.Fprintf(&b, "[%s]   - %s: %v\n", ts, fr.Task.RelPath, fr.Err)
		}
	}

	if b.Len() > 0 {
		cl.write(b.String())
	}
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// describeFile renders the part of a file line after the outcome.
func describeFile(fr models.FileResult) string {
	switch fr.Outcome {
	case models.OutcomeConverted:
		return fmt.Sprintf("%s -> %s (%s -> %s)", fr.Task.RelPath, fr.DestPath, fr.Detected, fr.Target)
	case models.OutcomeCopied:
		detected := fr.Detected
		if detected == "" {
			detected = "encoding unknown"
		}
		return fmt.Sprintf("%s -> %s (%s)", fr.Task.RelPath, fr.DestPath, detected)
	default:
		return fmt.Sprintf("%s: %v", fr.Task.RelPath, fr.Err)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "250ms", "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string)                           {}
func (n *NoOpLogger) LogDebug(string)                           {}
func (n *NoOpLogger) LogInfo(string)                            {}
func (n *NoOpLogger) LogWarn(string)                            {}
func (n *NoOpLogger) LogError(string)                           {}
func (n *NoOpLogger) LogRunStart(*models.RunResult)             {}
func (n *NoOpLogger) LogFilesFound(int)                         {}
func (n *NoOpLogger) LogFileResult(models.FileResult, int, int) {}
func (n *NoOpLogger) LogSummary(*models.RunResult)              {}
