// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Lyrics document operations
	OpLyricsParse  Op = "parse lyrics"
	OpLyricsLoad   Op = "load lyrics file"
	OpLyricsWrite  Op = "write lyrics file"
	OpLyricsFetch  Op = "fetch lyrics"
	OpLyricsSearch Op = "search lyrics"

	// Cache operations
	OpCacheOpen   Op = "open lyrics cache"
	OpCacheSave   Op = "save lyrics to cache"
	OpCacheList   Op = "list cached lyrics"
	OpCacheDelete Op = "delete cached lyrics"
	OpCachePrune  Op = "prune lyrics cache"

	// Audio file operations
	OpTagsRead  Op = "read file tags"
	OpTagsWrite Op = "embed lyrics in file"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpPlayerRun  Op = "run lyrics player"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
