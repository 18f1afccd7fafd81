package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/csvconv/internal/models"
)

// FileLogger logs conversion runs to timestamped files in a log directory.
// It maintains a latest.log symlink pointing to the most recent run.
// It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing to logDir at "info" level.
func NewFileLogger(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithLevel(logDir, "info")
}

// NewFileLoggerWithLevel creates a FileLogger with a custom log level.
// It creates the log directory if it doesn't exist, opens a timestamped
// run log file, and creates/updates the latest.log symlink.
func NewFileLoggerWithLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// run-YYYYMMDD-HHMMSS.log
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== csvconv Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of the current run log.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogRunStart writes the run header including the full run ID.
func (fl *FileLogger) LogRunStart(result *models.RunResult) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()
	msg := fmt.Sprintf("[%s] Run ID:  %s\n", ts, result.RunID) +
		fmt.Sprintf("[%s] Profile: %s\n", ts, result.Profile) +
		fmt.Sprintf("[%s] Source:  %s\n", ts, result.SourceRoot) +
		fmt.Sprintf("[%s] Dest:    %s\n", ts, result.DestRoot)
	if result.DryRun {
		msg += fmt.Sprintf("[%s] Dry run: no files will be written\n", ts)
	}
	fl.writeRunLog(msg)
}

// LogFilesFound logs how many files the walk discovered.
func (fl *FileLogger) LogFilesFound(count int) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Found %d %s\n", timestamp(), count, plural(count, "file", "files")))
}

// LogFileResult writes one line per file, with detection confidence and duration.
func (fl *FileLogger) LogFileResult(fr models.FileResult, index, total int) {
	level := "info"
	if fr.Outcome == models.OutcomeFailed {
		level = "error"
	}
	if !fl.shouldLog(level) {
		return
	}

	fl.writeRunLog(fmt.Sprintf("[%s] [%d/%d] %s %s [confidence %d, %s]\n",
		timestamp(), index, total, fr.Outcome, describeFile(fr), fr.Confidence, formatDuration(fr.Duration)))
}

// LogSummary writes the run statistics and overall status.
func (fl *FileLogger) LogSummary(result *models.RunResult) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()
	status := "SUCCESS"
	if !result.OK() {
		if result.Succeeded() == 0 {
			status = "FAILED"
		} else {
			status = "PARTIAL"
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n[%s] === CONVERSION SUMMARY ===\n", ts)
	fmt.Fprintf(&b, "[%s] Total files:  %d\n", ts, result.Total)
	fmt.Fprintf(&b, "[%s] Converted:    %d\n", ts, result.Converted)
	fmt.Fprintf(&b, "[%s] Copied:       %d\n", ts, result.Copied)
	fmt.Fprintf(&b, "[%s] Failed:       %d\n", ts, result.Failed)
	for _, fr := range result.FailedFiles {
		fmt.Fprintf(&b, "[%s]   - %s: %v\n", ts, fr.Task.RelPath, fr.Err)
	}
	for _, err := range result.ScanErrors {
		fmt.Fprintf(&b, "[%s] Scan error:   %v\n", ts, err)
	}
	fmt.Fprintf(&b, "[%s] Total time:   %s\n", ts, formatDuration(result.Duration))
	fmt.Fprintf(&b, "[%s] Status:       %s (%d/%d files)\n", ts, status, result.Succeeded(), result.Total)
	fmt.Fprintf(&b, "[%s] Completed at: %s\n", ts, time.Now().Format(time.RFC3339))
	fl.writeRunLog(b.String())
}

// writeRunLog writes a message to the run log file in a thread-safe manner.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
	}
}

// Close closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog == nil {
		return nil
	}
	err := fl.runLog.Close()
	fl.runLog = nil
	return err
}
