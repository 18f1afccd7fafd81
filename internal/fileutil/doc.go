// Package fileutil walks a source tree and returns the files a conversion run
// should process.
//
// Every match is returned as a models.FileTask carrying both its absolute
// path and its path relative to the scanned root, so callers can mirror the
// tree under a different root without recomputing anything.
//
// # Behavior
//
//   - Recursive by default; MaxDepth limits it (0 = unlimited, 1 = root only)
//   - Case-insensitive extension filtering (".csv", "CSV" and "csv" are equal)
//   - Optional regex Pattern matched against the filename without extension
//   - ExcludeDirs skips directories by name; SkipHidden skips dot-directories
//   - Output sorted by relative path, so a run is deterministic
//   - Non-fatal errors (e.g. permission denied on a subdirectory) are collected
//     in ScanResult.Errors and the walk continues
//
// A missing root is fatal and wraps models.ErrSourceNotFound. A root that is
// a regular file wraps ErrNotDirectory. Scanning never creates or modifies
// anything.
//
// # Usage
//
//	result, err := fileutil.ScanDirectory("/path/to/excel", fileutil.ScanOptions{
//	    Extensions: []string{".csv"},
//	})
//	if errors.Is(err, models.ErrSourceNotFound) {
//	    // abort the run
//	}
//	for _, task := range result.Files {
//	    fmt.Println(task.RelPath, "->", task.DestPath("/path/to/unity"))
//	}
//
// Hidden directories are included unless SkipHidden is set: the mirrored tree
// has to contain every matching file the source has.
package fileutil
