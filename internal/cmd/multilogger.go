package cmd

import (
	"github.com/harrison/csvconv/internal/models"
	"github.com/harrison/csvconv/internal/pipeline"
)

// multiLogger implements pipeline.Logger by delegating to multiple loggers
type multiLogger struct {
	loggers []pipeline.Logger
}

func (ml *multiLogger) LogTrace(message string) {
	for _, l := range ml.loggers {
		l.LogTrace(message)
	}
}

func (ml *multiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

func (ml *multiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

func (ml *multiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

func (ml *multiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}

// LogRunStart forwards to all loggers
func (ml *multiLogger) LogRunStart(run *models.RunResult) {
	for _, l := range ml.loggers {
		l.LogRunStart(run)
	}
}

// LogFilesFound forwards to all loggers
func (ml *multiLogger) LogFilesFound(count int) {
	for _, l := range ml.loggers {
		l.LogFilesFound(count)
	}
}

// LogFileResult forwards to all loggers
func (ml *multiLogger) LogFileResult(fr models.FileResult, index, total int) {
	for _, l := range ml.loggers {
		l.LogFileResult(fr, index, total)
	}
}

// LogSummary forwards to all loggers
func (ml *multiLogger) LogSummary(run *models.RunResult) {
	for _, l := range ml.loggers {
		l.LogSummary(run)
	}
}
