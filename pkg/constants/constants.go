// Package constants provides shared constants used throughout the proverbs codebase.
// This includes endpoints, storage keys, timeouts, limits and file permissions
// that should be consistent across the library and the CLI.
package constants

import "time"

// Endpoint constants describe the remote proverb API.
const (
	// DefaultAPIURL is used when no API base address is configured
	DefaultAPIURL = "https://yorubaproverbs-api.vercel.app"

	// DefaultSiteURL is the public web front end, used for permalinks and the image footer
	DefaultSiteURL = "https://yorubaproverbs.vercel.app"

	// RandomProverbPath returns a random proverb
	RandomProverbPath = "/proverb"

	// ProverbByIDPath is the prefix for fetching a proverb by identifier
	ProverbByIDPath = "/proverb/"

	// SubscribePath accepts mailing list subscriptions
	SubscribePath = "/subscribe"

	// UserAgent is sent with every request
	UserAgent = "proverbs-cli"
)

// Storage constants
const (
	// FavoritesKey is the storage slot holding the favorites collection
	FavoritesKey = "favoriteProverbs"

	// AppDirName is the directory created under the user config/data dirs
	AppDirName = "proverbs"

	// SQLiteFileName is the database used by the sqlite backend
	SQLiteFileName = "proverbs.db"
)

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the proverb API
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout bounds cleanup when a command fails
	ShutdownTimeout = 5 * time.Second

	// WatchDebounce coalesces bursts of filesystem events on the store
	WatchDebounce = 100 * time.Millisecond

	// SQLiteBusyTimeout is how long sqlite waits on a locked database, in milliseconds
	SQLiteBusyTimeout = 5000
)

// Limit constants
const (
	// RandomRetries is the number of extra attempts for a random proverb fetch
	RandomRetries = 2

	// MaxResponseBytes caps how much of an API response body is read
	MaxResponseBytes = 1 << 20
)

// Image export constants
const (
	// ImageScale is the pixel ratio used when rasterizing the proverb card
	ImageScale = 2.0

	// CardWidth is the logical width of the proverb card in points
	CardWidth = 350

	// ImageFilePrefix prefixes exported image names
	ImageFilePrefix = "yoruba-proverb-"

	// ShareTitle is offered to the share target with the image
	ShareTitle = "Yoruba Proverb"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
