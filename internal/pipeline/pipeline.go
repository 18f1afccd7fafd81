// Package pipeline drives one conversion run: walk the source tree, guess
// each file's encoding, then convert or copy it into the mirrored tree.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/csvconv/internal/detect"
	"github.com/harrison/csvconv/internal/filelock"
	"github.com/harrison/csvconv/internal/fileutil"
	"github.com/harrison/csvconv/internal/logger"
	"github.com/harrison/csvconv/internal/models"
	"github.com/harrison/csvconv/internal/transcode"
)

// Logger receives run progress. It is satisfied by logger.ConsoleLogger,
// logger.FileLogger and logger.NoOpLogger.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogRunStart(run *models.RunResult)
	LogFilesFound(count int)
	LogFileResult(fr models.FileResult, index, total int)
	LogSummary(run *models.RunResult)
}

// Options configures one run. It is passed by value and never mutated.
type Options struct {
	SourceRoot string
	DestRoot   string
	Profile    models.Profile
	// Extensions filters the walk; empty means fileutil.DefaultExtensions
	Extensions []string
	// Pattern, ExcludeDirs, SkipHidden and MaxDepth narrow the walk, see fileutil.ScanOptions
	Pattern     string
	ExcludeDirs []string
	SkipHidden  bool
	MaxDepth    int
	Mode        transcode.DecodeMode
	DryRun      bool
}

// Deps holds the collaborators of a run
type Deps struct {
	Guesser detect.EncodingGuesser
	Logger  Logger
}

// Run converts every matching file under opts.SourceRoot into opts.DestRoot.
//
// Fatal conditions (missing guesser, missing or invalid source, destination
// inside the source, destination locked) return a nil result and an error.
// Per-file failures never abort the run: they are recorded in the result and
// Run returns an error wrapping models.ErrPartialFailure after all files
// were attempted. Cancelling ctx stops before the next file and returns the
// results so far together with ctx.Err().
func Run(ctx context.Context, opts Options, deps Deps) (*models.RunResult, error) {
	if err := detect.Require(deps.Guesser); err != nil {
		return nil, err
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if err := opts.Profile.Validate(); err != nil {
		return nil, err
	}

	exts := fileutil.NormalizeExtensions(opts.Extensions)
	if len(exts) == 0 {
		exts = fileutil.DefaultExtensions
	}

	scan, err := fileutil.ScanDirectory(opts.SourceRoot, fileutil.ScanOptions{
		Extensions:  exts,
		Pattern:     opts.Pattern,
		ExcludeDirs: opts.ExcludeDirs,
		SkipHidden:  opts.SkipHidden,
		MaxDepth:    opts.MaxDepth,
	})
	if err != nil {
		return nil, err
	}

	destRoot, err := resolvePath(opts.DestRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve destination %s: %w", opts.DestRoot, err)
	}
	if fileutil.IsWithin(scan.Root, destRoot) {
		return nil, fmt.Errorf("%w: %s is inside %s", models.ErrDestinationInsideSource, destRoot, scan.Root)
	}

	run := &models.RunResult{
		RunID:      uuid.NewString(),
		Profile:    opts.Profile.Name,
		SourceRoot: scan.Root,
		DestRoot:   destRoot,
		DryRun:     opts.DryRun,
		Total:      len(scan.Files),
		StartedAt:  time.Now(),
		ScanErrors: scan.Errors,
	}

	var lockPath string
	if !opts.DryRun {
		lock, err := filelock.AcquireRunLock(destRoot)
		if err != nil {
			return nil, err
		}
		defer lock.Unlock()
		lockPath = lock.Path()

		if err := os.MkdirAll(destRoot, 0755); err != nil {
			return nil, fmt.Errorf("create destination %s: %w", destRoot, err)
		}
	}

	log.LogRunStart(run)
	if lockPath != "" {
		log.LogDebug(fmt.Sprintf("Holding run lock %s", lockPath))
	}
	for _, scanErr := range scan.Errors {
		log.LogWarn(fmt.Sprintf("Skipped during walk: %v", scanErr))
	}
	log.LogFilesFound(run.Total)
	if run.Total == 0 {
		log.LogWarn(fmt.Sprintf("No %s files found in %s", strings.Join(exts, "/"), scan.Root))
	}

	tc := transcode.New(opts.Profile, opts.Mode)
	tc.DryRun = opts.DryRun

	for i, task := range scan.Files {
		if err := ctx.Err(); err != nil {
			run.Duration = time.Since(run.StartedAt)
			log.LogWarn(fmt.Sprintf("Run cancelled after %d of %d files", i, run.Total))
			log.LogSummary(run)
			return run, err
		}

		fr := processFile(tc, deps.Guesser, task, destRoot, log)
		run.Record(fr)
		log.LogFileResult(fr, i+1, run.Total)
	}

	run.Duration = time.Since(run.StartedAt)
	log.LogSummary(run)

	if !run.OK() {
		return run, fmt.Errorf("%w: %d/%d files processed successfully", models.ErrPartialFailure, run.Succeeded(), run.Total)
	}
	return run, nil
}

// processFile reads, guesses and converts or copies one file.
// Detection failures become failed results like any other per-file error.
func processFile(tc *transcode.Transcoder, g detect.EncodingGuesser, task models.FileTask, destRoot string, log Logger) models.FileResult {
	start := time.Now()

	guess, data, err := detect.DetectFile(g, task.SourcePath)
	if err != nil {
		return models.FileResult{
			Task:     task,
			Outcome:  models.OutcomeFailed,
			DestPath: task.DestPath(destRoot),
			Err:      err,
			Duration: time.Since(start),
		}
	}
	log.LogTrace(fmt.Sprintf("%s: detected %s", task.RelPath, guess))

	if !tc.Profile.Accepts(guess.Label) {
		best := guess
		guess, err = detect.Prefer(g, data, best, func(c detect.Guess) bool {
			return tc.CanConvert(c.Label, data)
		})
		if err != nil {
			return models.FileResult{
				Task:     task,
				Outcome:  models.OutcomeFailed,
				DestPath: task.DestPath(destRoot),
				Detected: best.Label,
				Err:      fmt.Errorf("detect encoding of %s: %w", task.SourcePath, err),
				Duration: time.Since(start),
			}
		}
		if guess.Label != best.Label {
			log.LogDebug(fmt.Sprintf("%s: detected %s, converting as %s", task.RelPath, best, guess))
		}
	}

	fr := tc.Process(task, destRoot, guess, data)
	fr.Duration = time.Since(start)
	return fr
}

// resolvePath returns the absolute form of path with symlinks resolved as far
// as the path exists, so paths that do not exist yet compare correctly
// against a resolved source root.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	existing := abs
	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}
}
