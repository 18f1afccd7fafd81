package detect

import (
	"errors"

	"github.com/saintfish/chardet"
)

// DefaultMinConfidence is the lowest non-zero score chardet gives a
// multi-byte encoding, reached on short input with few double-byte characters.
const DefaultMinConfidence = 10

// ChardetGuesser guesses encodings with the ICU-derived statistical detector
// from github.com/saintfish/chardet. The detector is compiled in, so a
// ChardetGuesser is always available.
type ChardetGuesser struct {
	detector *chardet.Detector
	// MinConfidence discards guesses and candidates below this confidence
	MinConfidence int
}

// NewChardetGuesser creates a guesser tuned for plain text (not HTML) input
func NewChardetGuesser() *ChardetGuesser {
	return &ChardetGuesser{detector: chardet.NewTextDetector(), MinConfidence: DefaultMinConfidence}
}

// Guess returns the best guess for data. Empty input and inputs the detector
// cannot classify are indeterminate, not errors.
func (c *ChardetGuesser) Guess(data []byte) (Guess, error) {
	if len(data) == 0 {
		return Guess{}, nil
	}

	result, err := c.detector.DetectBest(data)
	if err != nil {
		if errors.Is(err, chardet.NotDetectedError) {
			return Guess{}, nil
		}
		return Guess{}, err
	}
	if result == nil || result.Confidence < c.MinConfidence {
		return Guess{}, nil
	}

	return Guess{
		Label:      result.Charset,
		Language:   result.Language,
		Confidence: result.Confidence,
	}, nil
}

// Candidates returns every guess the detector produced at or above
// MinConfidence, best first
func (c *ChardetGuesser) Candidates(data []byte) ([]Guess, error) {
	if len(data) == 0 {
		return nil, nil
	}

	results, err := c.detector.DetectAll(data)
	if err != nil {
		if errors.Is(err, chardet.NotDetectedError) {
			return nil, nil
		}
		return nil, err
	}

	guesses := make([]Guess, 0, len(results))
	for _, r := range results {
		if r.Confidence < c.MinConfidence {
			continue
		}
		guesses = append(guesses, Guess{Label: r.Charset, Language: r.Language, Confidence: r.Confidence})
	}
	return guesses, nil
}
