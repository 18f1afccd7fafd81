// Package detect guesses the character encoding of raw file content.
//
// The guess is a hint, not ground truth: callers compare the returned label
// case-insensitively against an allow-list and fall back to copying the file
// untouched when it does not match.
package detect

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/harrison/csvconv/internal/models"
)

// ErrFileRead wraps failures reading the file to be inspected
var ErrFileRead = errors.New("read file")

// Guess is the outcome of an encoding guess. An empty Label means the guess
// was indeterminate.
type Guess struct {
	Label      string // Canonical encoding name as reported by the detector
	Language   string // Optional language hint
	Confidence int    // 0-100
}

// Indeterminate reports whether no encoding could be guessed
func (g Guess) Indeterminate() bool {
	return g.Label == ""
}

func (g Guess) String() string {
	if g.Indeterminate() {
		return "indeterminate"
	}
	return fmt.Sprintf("%s (%d%%)", g.Label, g.Confidence)
}

// EncodingGuesser inspects raw bytes and guesses their encoding.
// Implementations must be safe to call with empty input.
type EncodingGuesser interface {
	Guess(data []byte) (Guess, error)
}

// GuesserFunc adapts a plain function to EncodingGuesser
type GuesserFunc func(data []byte) (Guess, error)

// Guess calls f(data)
func (f GuesserFunc) Guess(data []byte) (Guess, error) {
	return f(data)
}

// CandidateGuesser is an EncodingGuesser that can also list every plausible
// encoding for data, best first.
type CandidateGuesser interface {
	EncodingGuesser
	Candidates(data []byte) ([]Guess, error)
}

// Prefer looks for an alternative to a rejected best guess. Statistical
// detectors split short multi-byte input between similar encodings (GBK text
// often scores as EUC-KR or Shift_JIS), so the first candidate accept agrees
// with is returned instead. Unicode is recognized structurally and outranks
// statistics: on valid UTF-8 input only Unicode candidates are considered, and
// a rejected Unicode candidate ends the search. best is returned unchanged when
// nothing qualifies or g cannot list candidates.
func Prefer(g EncodingGuesser, data []byte, best Guess, accept func(Guess) bool) (Guess, error) {
	if isUnicode(best.Label) {
		return best, nil
	}
	cg, ok := g.(CandidateGuesser)
	if !ok {
		return best, nil
	}

	candidates, err := cg.Candidates(data)
	if err != nil {
		return best, fmt.Errorf("list encoding candidates: %w", err)
	}

	validUTF8 := utf8.Valid(data)
	for _, c := range candidates {
		unicode := isUnicode(c.Label)
		if validUTF8 && !unicode {
			continue
		}
		if accept(c) {
			return c, nil
		}
		if unicode {
			break
		}
	}
	return best, nil
}

func isUnicode(label string) bool {
	return strings.HasPrefix(strings.ToLower(label), "utf-")
}

// Require returns models.ErrMissingCapability when g is nil
func Require(g EncodingGuesser) error {
	if g == nil {
		return models.ErrMissingCapability
	}
	return nil
}

// DetectFile reads the complete content of path and guesses its encoding.
// The content is returned so callers do not read the file twice.
func DetectFile(g EncodingGuesser, path string) (Guess, []byte, error) {
	if err := Require(g); err != nil {
		return Guess{}, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Guess{}, nil, fmt.Errorf("%w %s: %w", ErrFileRead, path, err)
	}

	guess, err := g.Guess(data)
	if err != nil {
		return Guess{}, data, fmt.Errorf("detect encoding of %s: %w", path, err)
	}
	return guess, data, nil
}
