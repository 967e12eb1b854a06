// Package builderrors defines the manifest builder's error taxonomy (§7).
// Fatal categories are returned up to the CLI and turned into a non-zero
// exit code; per-photo categories are caught at the worker boundary and
// translated into a failed manifest.Result instead of propagating.
package builderrors

import "errors"

// Fatal error categories. Wrap the underlying cause with fmt.Errorf("...: %w", cause)
// and compare with errors.Is against these sentinels.
var (
	// ErrConfig signals an invalid configuration value (empty basePath,
	// non-positive maxFileLimit, an unparsable exclude regex, ...).
	ErrConfig = errors.New("config error")

	// ErrListing signals that a storage provider failed to enumerate objects.
	ErrListing = errors.New("listing error")

	// ErrWrite signals a failure to write a thumbnail or rename the manifest.
	ErrWrite = errors.New("write error")
)

// Per-photo error categories. These never abort the run; the pipeline
// converts them into a manifest.Result{Type: manifest.ProcessFailed}.
var (
	// ErrFetch signals a single object failed to download after retries.
	ErrFetch = errors.New("fetch error")

	// ErrDecode signals the bytes could not be opened as an image or its
	// dimensions could not be obtained.
	ErrDecode = errors.New("decode error")

	// ErrExif signals EXIF parsing raised; the photo is still produced with
	// exif == nil.
	ErrExif = errors.New("exif error")

	// ErrWorker signals an unexpected crash of a worker process (cluster mode).
	ErrWorker = errors.New("worker error")
)
