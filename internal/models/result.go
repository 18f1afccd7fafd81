package models

import (
	"path/filepath"
	"time"
)

// Outcome is the result of processing a single file task
type Outcome string

// File outcome constants
const (
	OutcomeConverted Outcome = "converted" // Decoded and re-encoded to the target encoding
	OutcomeCopied    Outcome = "copied"    // Copied byte for byte
	OutcomeFailed    Outcome = "failed"    // Any read, decode, encode, write or copy error
)

// Succeeded reports whether the outcome counts toward the success total
func (o Outcome) Succeeded() bool {
	return o == OutcomeConverted || o == OutcomeCopied
}

// FileTask identifies one file discovered under the source root
type FileTask struct {
	SourcePath string // Absolute path of the source file
	RelPath    string // Path relative to the source root, OS separators
}

// DestPath returns the mirrored destination path under destRoot
func (t FileTask) DestPath(destRoot string) string {
	return filepath.Join(destRoot, t.RelPath)
}

// FileResult represents the result of processing a single file task
type FileResult struct {
	Task       FileTask      // The file that was processed
	Outcome    Outcome       // converted, copied or failed
	DestPath   string        // Where the file was (or would be) written
	Detected   string        // Encoding label reported by the guesser, empty if indeterminate
	Confidence int           // Guesser confidence, 0-100
	Target     string        // Target encoding when converted
	Err        error         // Error if the task failed
	Duration   time.Duration // Time taken for this file
}

// RunResult represents the aggregate result of one conversion run
type RunResult struct {
	RunID       string        // Unique identifier of the run
	Profile     string        // Name of the encoding profile used
	SourceRoot  string        // Absolute source root
	DestRoot    string        // Absolute destination root
	DryRun      bool          // No files were written
	Total       int           // Number of discovered files
	Converted   int           // Files re-encoded
	Copied      int           // Files copied verbatim
	Failed      int           // Files that failed
	StartedAt   time.Time     // When the run began
	Duration    time.Duration // Total run time
	Results     []FileResult  // One entry per discovered file, in walk order
	FailedFiles []FileResult  // Details of failed files
	ScanErrors  []error       // Non-fatal errors collected while walking
}

// Succeeded returns the number of files converted or copied
func (r *RunResult) Succeeded() int {
	return r.Converted + r.Copied
}

// OK reports whether every discovered file was processed and the walk was clean
func (r *RunResult) OK() bool {
	return r.Succeeded() == r.Total && len(r.ScanErrors) == 0
}

// Record appends a file result and updates the counters
func (r *RunResult) Record(fr FileResult) {
	r.Results = append(r.Results, fr)
	switch fr.Outcome {
	case OutcomeConverted:
		r.Converted++
	case OutcomeCopied:
		r.Copied++
	default:
		r.Failed++
		r.FailedFiles = append(r.FailedFiles, fr)
	}
}
