package c2md

import "errors"

// Sentinel errors for library operations.
var (
	// Precondition errors: the pipeline stops before touching the page.
	ErrNotWorkoutPage  = errors.New("not a workout page")
	ErrNoActionsAnchor = errors.New("actions region not found on page")

	// Page access errors.
	ErrEmptyHTML    = errors.New("page HTML cannot be empty")
	ErrPageParse    = errors.New("failed to parse page HTML")
	ErrPageFetch    = errors.New("failed to fetch page")
	ErrInvalidHost  = errors.New("invalid logbook host")
	ErrMissingPage  = errors.New("page cannot be nil")
	ErrMissingInput = errors.New("page address cannot be empty")

	// Browser errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrInjection      = errors.New("failed to inject page controls")

	// Clipboard errors.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
	ErrCopyInProgress       = errors.New("copy already in progress")

	// Pool errors.
	ErrPoolClosed = errors.New("transcriber pool is closed")
)
