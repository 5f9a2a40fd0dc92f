package proverbs

import (
	"net/http"
	"time"

	"github.com/agentstation/proverbs/pkg/constants"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/kv"
	"github.com/agentstation/proverbs/pkg/notifier"
	"github.com/agentstation/proverbs/pkg/share"
)

// Option is a function that configures a Client.
type Option func(*options) error

// options holds the client configuration.
type options struct {
	apiURL      string
	siteURL     string
	storage     kv.Kind
	dataDir     string
	downloadDir string
	httpTimeout time.Duration
	retries     int
	proxyURL    string
	share       string

	backend    kv.Backend
	httpClient *http.Client
	notifier   notifier.Notifier
	clipboard  share.Clipboard
	sharer     share.Sharer
	sharerSet  bool
}

func defaults() *options {
	return &options{
		apiURL:      constants.DefaultAPIURL,
		siteURL:     constants.DefaultSiteURL,
		storage:     kv.KindFile,
		dataDir:     kv.DefaultDir(),
		downloadDir: share.DefaultDownloadDir(),
		httpTimeout: constants.DefaultHTTPTimeout,
		retries:     constants.RandomRetries,
		share:       "auto",
		notifier:    notifier.Discard,
		clipboard:   share.SystemClipboard{},
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithAPIURL configures the proverb API base URL.
func WithAPIURL(url string) Option {
	return func(o *options) error {
		if url == "" {
			return errors.NewValidationError("api_url", url, "must not be empty")
		}
		o.apiURL = url
		return nil
	}
}

// WithSiteURL configures the web site used for permalinks and the card footer.
func WithSiteURL(url string) Option {
	return func(o *options) error {
		if url != "" {
			o.siteURL = url
		}
		return nil
	}
}

// WithStorage selects the favorites backend.
func WithStorage(kind kv.Kind) Option {
	return func(o *options) error {
		switch kind {
		case "":
		case kv.KindFile, kv.KindSQLite, kv.KindMemory:
			o.storage = kind
		default:
			return errors.NewValidationError("storage", string(kind), "must be one of file, sqlite, memory")
		}
		return nil
	}
}

// WithDataDir configures where favorites are stored.
func WithDataDir(dir string) Option {
	return func(o *options) error {
		if dir != "" {
			o.dataDir = dir
		}
		return nil
	}
}

// WithDownloadDir configures where exported images are written.
func WithDownloadDir(dir string) Option {
	return func(o *options) error {
		if dir != "" {
			o.downloadDir = dir
		}
		return nil
	}
}

// WithHTTPTimeout bounds every API request.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.NewValidationError("http_timeout", d.String(), "must not be negative")
		}
		if d > 0 {
			o.httpTimeout = d
		}
		return nil
	}
}

// WithRetries configures extra attempts for random proverb fetches.
func WithRetries(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.NewValidationError("retries", n, "must not be negative")
		}
		o.retries = n
		return nil
	}
}

// WithProxy routes API requests through an http, https or socks5 proxy.
func WithProxy(url string) Option {
	return func(o *options) error {
		o.proxyURL = url
		return nil
	}
}

// WithShare configures the share handler: "auto", "none" or a command line.
func WithShare(setting string) Option {
	return func(o *options) error {
		o.share = setting
		return nil
	}
}

// WithSharer sets the share handler directly. nil disables sharing.
func WithSharer(s share.Sharer) Option {
	return func(o *options) error {
		o.sharer = s
		o.sharerSet = true
		return nil
	}
}

// WithBackend uses an already opened storage backend.
func WithBackend(b kv.Backend) Option {
	return func(o *options) error {
		o.backend = b
		return nil
	}
}

// WithHTTPClient uses hc for API requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		o.httpClient = hc
		return nil
	}
}

// WithNotifier sets where user-facing confirmations go.
func WithNotifier(n notifier.Notifier) Option {
	return func(o *options) error {
		if n != nil {
			o.notifier = n
		}
		return nil
	}
}

// WithClipboard replaces the system clipboard.
func WithClipboard(cb share.Clipboard) Option {
	return func(o *options) error {
		if cb != nil {
			o.clipboard = cb
		}
		return nil
	}
}
