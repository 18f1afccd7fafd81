package logger

import (
	"strings"

	"github.com/fatih/color"
	"github.com/harrison/csvconv/internal/models"
)

// colorScheme defines consistent colors across console output.
// Green: converted / success
// Red: failures
// Yellow: warnings
// Cyan: copied files and labels
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	muted   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		muted:   color.New(color.FgHiBlack),
	}
}

// level colors a level label.
func (s *colorScheme) level(level string) string {
	switch strings.ToUpper(level) {
	case "TRACE":
		return s.muted.Sprint(level)
	case "DEBUG":
		return s.label.Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return s.warn.Sprint(level)
	case "ERROR":
		return s.fail.Sprint(level)
	default:
		return level
	}
}

// outcome colors a file outcome word.
func (s *colorScheme) outcome(o models.Outcome) string {
	switch o {
	case models.OutcomeConverted:
		return s.success.Sprint(string(o))
	case models.OutcomeCopied:
		return s.label.Sprint(string(o))
	case models.OutcomeFailed:
		return s.fail.Sprint(string(o))
	default:
		return string(o)
	}
}
