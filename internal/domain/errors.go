package domain

import "errors"

var (
	// ErrInvalidSortKey is returned when a sort key outside SortKeys is requested
	ErrInvalidSortKey = errors.New("invalid sort key")
	// ErrInvalidViewMode is returned for view modes other than grid and list
	ErrInvalidViewMode = errors.New("invalid view mode")
	// ErrDataUnavailable wraps directory provider failures
	ErrDataUnavailable = errors.New("directory data unavailable")
	// ErrEntryNotFound is returned when an entry id is not in the directory
	ErrEntryNotFound = errors.New("entry not found")
	// ErrSessionNotFound is returned for unknown session ids
	ErrSessionNotFound = errors.New("session not found")
)
