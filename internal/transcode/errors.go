package transcode

import "errors"

// Per-file error kinds. Each is scoped to a single file task and never aborts a run.
var (
	// ErrFileWrite wraps failures writing or copying the destination file.
	ErrFileWrite = errors.New("write file")

	// ErrDecode indicates undecodable input under strict decoding.
	ErrDecode = errors.New("decode")

	// ErrEncode indicates text that the target encoding cannot represent.
	ErrEncode = errors.New("encode")

	// ErrUnsupportedEncoding indicates a label that does not resolve to a known encoding.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)
