package transcode

import (
	"fmt"
	"os"
	"time"

	"github.com/harrison/csvconv/internal/detect"
	"github.com/harrison/csvconv/internal/filelock"
	"github.com/harrison/csvconv/internal/models"
)

// Decision is the convert-or-copy choice for one file
type Decision struct {
	Outcome models.Outcome // OutcomeConverted or OutcomeCopied
	From    string         // Source label when converting
	To      string         // Target label when converting
}

// Transcoder applies one profile to individual files. It holds no state
// between files and is safe to reuse for a whole run.
type Transcoder struct {
	Profile models.Profile
	Mode    DecodeMode
	// DryRun decides and transcodes in memory but writes nothing
	DryRun bool
}

// New creates a Transcoder for profile
func New(profile models.Profile, mode DecodeMode) *Transcoder {
	if mode == "" {
		mode = DecodeLossy
	}
	return &Transcoder{Profile: profile, Mode: mode}
}

// Decide converts when the guess is in the profile's convertible set and
// copies otherwise, including when the guess is indeterminate.
func (t *Transcoder) Decide(g detect.Guess) Decision {
	if t.Profile.Accepts(g.Label) {
		return Decision{Outcome: models.OutcomeConverted, From: g.Label, To: t.Profile.Target}
	}
	return Decision{Outcome: models.OutcomeCopied}
}

// CanConvert reports whether label is convertible under the profile and data
// decodes from it without a single invalid sequence, whatever Mode is. It
// vets alternative detector candidates, which need stronger evidence than the
// best guess.
func (t *Transcoder) CanConvert(label string, data []byte) bool {
	if !t.Profile.Accepts(label) {
		return false
	}
	cs, err := Lookup(label)
	if err != nil {
		return false
	}
	_, err = Decode(data, cs, DecodeStrict)
	return err == nil
}

// Process converts or copies one file whose content has already been read.
// Every error is captured in the returned result; nothing is returned to abort a run.
func (t *Transcoder) Process(task models.FileTask, destRoot string, guess detect.Guess, data []byte) models.FileResult {
	start := time.Now()
	result := models.FileResult{
		Task:       task,
		DestPath:   task.DestPath(destRoot),
		Detected:   guess.Label,
		Confidence: guess.Confidence,
	}

	decision := t.Decide(guess)
	var err error
	switch decision.Outcome {
	case models.OutcomeConverted:
		result.Target = decision.To
		err = t.convert(data, decision, result.DestPath)
	default:
		err = t.copyVerbatim(task.SourcePath, data, result.DestPath)
	}

	result.Duration = time.Since(start)
	if err != nil {
		result.Outcome = models.OutcomeFailed
		result.Err = err
		return result
	}
	result.Outcome = decision.Outcome
	return result
}

func (t *Transcoder) convert(data []byte, d Decision, dest string) error {
	out, err := Transcode(data, d.From, d.To, t.Mode)
	if err != nil {
		return err
	}
	if t.DryRun {
		return nil
	}
	if err := filelock.AtomicWrite(dest, out, 0644); err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	return nil
}

// copyVerbatim writes data unchanged and carries over the source's mode bits and
// modification time.
func (t *Transcoder) copyVerbatim(src string, data []byte, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w %s: %w", detect.ErrFileRead, src, err)
	}
	if t.DryRun {
		return nil
	}

	if err := filelock.AtomicWrite(dest, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	if err := os.Chtimes(dest, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("%w: preserve times on %s: %w", ErrFileWrite, dest, err)
	}
	return nil
}
