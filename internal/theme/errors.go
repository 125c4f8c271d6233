package theme

import (
	"errors"
	"fmt"
)

// Errors returned by table construction, path composition and theme loading.
var (
	ErrInvalidConfigEntry    = errors.New("invalid theme config entry")
	ErrPathTraversalRejected = errors.New("path traversal rejected")
	ErrInvalidThemeName      = errors.New("invalid theme name")
	ErrUnsupportedFormat     = errors.New("unsupported declaration format")
	ErrThemeNotFound         = errors.New("theme not found")
	ErrWatcherNotRunning     = errors.New("theme watcher not running")
)

// EntryError describes the first entry that failed validation while
// building an override table.
type EntryError struct {
	Index int    // position in the input list
	Key   string // key as declared (may be empty)
	Field string // "key" or "path"
	Rule  string // validation rule that failed
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: entry %d (key %q): %s failed %q", ErrInvalidConfigEntry, e.Index, e.Key, e.Field, e.Rule)
}

// Unwrap lets errors.Is match ErrInvalidConfigEntry.
func (e *EntryError) Unwrap() error {
	return ErrInvalidConfigEntry
}
