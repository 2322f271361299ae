package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and Workspace.Validate() so
// callers can branch on them with errors.Is().
var (
	// ErrNoCatalog is returned when neither a catalog file nor a database directory is given.
	ErrNoCatalog = errors.New("no catalog specified: use --catalog or --db")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidLocation is returned when the session location cannot be parsed.
	ErrInvalidLocation = errors.New("invalid session location")

	// ErrInvalidSecureContext is returned when --secure-context is not auto, true or false.
	ErrInvalidSecureContext = errors.New("invalid secure context: expected auto, true or false")

	// ErrInvalidWatchDebounce is returned when the watch debounce is negative.
	ErrInvalidWatchDebounce = errors.New("invalid watch debounce: must be non-negative")
)
