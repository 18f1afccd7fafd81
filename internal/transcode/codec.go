package transcode

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// DecodeMode selects what happens to byte sequences the source encoding
// cannot decode.
type DecodeMode string

const (
	// DecodeLossy drops undecodable sequences and carries on.
	DecodeLossy DecodeMode = "lossy"
	// DecodeStrict fails the file on the first undecodable sequence.
	DecodeStrict DecodeMode = "strict"
)

// ParseDecodeMode parses "lossy" or "strict" (case-insensitive). Empty means lossy.
func ParseDecodeMode(s string) (DecodeMode, error) {
	switch DecodeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DecodeLossy:
		return DecodeLossy, nil
	case DecodeStrict:
		return DecodeStrict, nil
	default:
		return "", fmt.Errorf("invalid decode mode %q, must be one of: lossy, strict", s)
	}
}

// Decode converts data in charset cs to UTF-8 text. A leading byte order mark
// on UTF-8 input is stripped.
func Decode(data []byte, cs Charset, mode DecodeMode) ([]byte, error) {
	if cs.UTF8 {
		data = bytes.TrimPrefix(data, utf8BOM)
		if utf8.Valid(data) {
			return data, nil
		}
		if mode == DecodeStrict {
			return nil, fmt.Errorf("%w: invalid %s sequence at byte %d", ErrDecode, cs.Name, invalidOffset(data))
		}
		return bytes.ToValidUTF8(data, nil), nil
	}

	if cs.Encoding == nil {
		return nil, fmt.Errorf("%w: %q has no codec", ErrUnsupportedEncoding, cs.Name)
	}

	text, _, err := transform.Bytes(cs.Encoding.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, cs.Name, err)
	}

	// x/text decoders substitute U+FFFD for bad input; only substitutions
	// beyond the encoded U+FFFD already present in data are invalid input.
	invalid := bytes.Count(text, replacementChar) - genuineReplacements(data, cs)
	if invalid <= 0 {
		return text, nil
	}
	if mode == DecodeStrict {
		return nil, fmt.Errorf("%w: %d invalid %s sequence(s), first near decoded byte %d", ErrDecode, invalid, cs.Name, bytes.Index(text, replacementChar))
	}
	return runes.Remove(runes.Predicate(isReplacement)).Bytes(text), nil
}

// Encode converts UTF-8 text to charset cs. Characters the target cannot
// represent are an error: silently substituting them would corrupt data.
func Encode(text []byte, cs Charset) ([]byte, error) {
	if cs.UTF8 {
		if !cs.BOM {
			return text, nil
		}
		out := make([]byte, 0, len(utf8BOM)+len(text))
		out = append(out, utf8BOM...)
		return append(out, text...), nil
	}

	if cs.Encoding == nil {
		return nil, fmt.Errorf("%w: %q has no codec", ErrUnsupportedEncoding, cs.Name)
	}

	out, _, err := transform.Bytes(cs.Encoding.NewEncoder(), text)
	if err == nil && cs.GB2312 {
		if i := outsideGB2312(out); i >= 0 {
			err = fmt.Errorf("encoded byte %d is outside GB2312", i)
		}
	}
	if err != nil {
		if r, ok := firstUnencodable(text, cs); ok {
			return nil, fmt.Errorf("%w: %q cannot be represented in %s", ErrEncode, r, cs.Name)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrEncode, cs.Name, err)
	}
	return out, nil
}

// Transcode decodes data from one label and encodes it to another
func Transcode(data []byte, from, to string, mode DecodeMode) ([]byte, error) {
	src, err := Lookup(from)
	if err != nil {
		return nil, err
	}
	dst, err := Lookup(to)
	if err != nil {
		return nil, err
	}

	text, err := Decode(data, src, mode)
	if err != nil {
		return nil, err
	}
	return Encode(text, dst)
}

var replacementChar = []byte(string(utf8.RuneError))

// genuineReplacements counts U+FFFD characters encoded in data, for charsets
// such as GB18030 that can represent it.
func genuineReplacements(data []byte, cs Charset) int {
	enc, err := cs.Encoding.NewEncoder().Bytes(replacementChar)
	if err != nil || len(enc) == 0 {
		return 0
	}
	return bytes.Count(data, enc)
}

// outsideGB2312 returns the offset of the first byte in GBK output that is
// not ASCII or an EUC-CN double-byte pair, or -1.
func outsideGB2312(b []byte) int {
	for i := 0; i < len(b); {
		c := b[i]
		if c < 0x80 {
			i++
			continue
		}
		if c >= 0xA1 && c <= 0xF7 && i+1 < len(b) && b[i+1] >= 0xA1 && b[i+1] <= 0xFE {
			i += 2
			continue
		}
		return i
	}
	return -1
}

func isReplacement(r rune) bool {
	return r == utf8.RuneError
}

func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}

func firstUnencodable(text []byte, cs Charset) (rune, bool) {
	enc := cs.Encoding.NewEncoder()
	for _, r := range string(text) {
		out, err := enc.String(string(r))
		if err != nil || (cs.GB2312 && outsideGB2312([]byte(out)) >= 0) {
			return r, true
		}
	}
	return 0, false
}
