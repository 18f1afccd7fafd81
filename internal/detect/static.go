package detect

import "bytes"

// Static is a deterministic guesser for tests and for pinning a known
// encoding. Rules are checked in order; the first rule whose Contains bytes
// appear in the input wins. Default is returned when no rule matches.
type Static struct {
	Rules      []StaticRule
	Default    Guess
	// Alternates are listed by Candidates after the matched guess
	Alternates []Guess
	Err        error
}

// StaticRule maps a byte marker to a guess
type StaticRule struct {
	Contains []byte
	Guess    Guess
}

// Fixed returns a Static guesser that always reports label
func Fixed(label string) *Static {
	return &Static{Default: Guess{Label: label, Confidence: 100}}
}

// Guess implements EncodingGuesser
func (s *Static) Guess(data []byte) (Guess, error) {
	if s.Err != nil {
		return Guess{}, s.Err
	}
	for _, r := range s.Rules {
		if len(r.Contains) > 0 && bytes.Contains(data, r.Contains) {
			return r.Guess, nil
		}
	}
	return s.Default, nil
}

// Candidates implements CandidateGuesser: the matched guess, then Alternates
func (s *Static) Candidates(data []byte) ([]Guess, error) {
	best, err := s.Guess(data)
	if err != nil {
		return nil, err
	}
	out := make([]Guess, 0, len(s.Alternates)+1)
	if !best.Indeterminate() {
		out = append(out, best)
	}
	return append(out, s.Alternates...), nil
}
