package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrAPIKeyMissing indicates the selected provider's API key is not set.
	ErrAPIKeyMissing = errors.New("API key environment variable not set")

	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidFlag indicates a numeric flag outside its accepted range.
	ErrInvalidFlag = errors.New("invalid flag value")

	// ErrNoChapters indicates the input yielded nothing to translate.
	ErrNoChapters = errors.New("no chapters found")

	// ErrStopped indicates the user chose to stop at a confirmation prompt.
	// It ends the run cleanly and is not reported as a failure.
	ErrStopped = errors.New("stopped by user")

	// ErrInterrupted indicates the run stopped at a chapter boundary after Ctrl+C.
	ErrInterrupted = errors.New("interrupted")
)
