// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all commands.
package emoji

// Symbol constants for alerts, favorites and user feedback in terminal output.
const (
	// Success represents successful completion of an operation.
	// Used for: copied text, saved images, added favorites, subscriptions.
	Success = "✓"

	// Error represents failures.
	// Used for: failed fetches, failed copies, failed image generation.
	Error = "✗"

	// Warning represents non-critical issues.
	// Used for: storage falling back to memory, sharing unavailable.
	Warning = "!"

	// Info represents informational messages.
	// Used for: removed favorites, shared images.
	Info = "i"

	// Favorite marks a proverb in the favorites collection.
	Favorite = "★"

	// NotFavorite marks a proverb outside the favorites collection.
	NotFavorite = "☆"

	// Unknown represents indeterminate states.
	Unknown = "?"
)
