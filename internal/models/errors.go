package models

import "errors"

var (
	// ErrSourceNotFound indicates the source root does not exist. Fatal for the run.
	ErrSourceNotFound = errors.New("source directory not found")

	// ErrMissingCapability indicates no encoding detector is available. Fatal for the run.
	ErrMissingCapability = errors.New("encoding detection capability unavailable")

	// ErrDestinationInsideSource indicates the destination root is the source root or nested in it.
	ErrDestinationInsideSource = errors.New("destination directory is inside the source directory")

	// ErrPartialFailure is returned when at least one file failed to process.
	ErrPartialFailure = errors.New("some files failed to process")
)
