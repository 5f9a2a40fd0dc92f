// Package proverbs is the entry point for the Yoruba proverbs client. It
// wires the proverb API, the local favorites store, clipboard and image
// export, and the weekly email subscription into one owned instance.
//
// Example usage:
//
//	pc, err := proverbs.New(ctx,
//	    proverbs.WithStorage(kv.KindSQLite),
//	    proverbs.WithNotifier(notifier.Func(func(l notifier.Level, msg string) {
//	        fmt.Println(msg)
//	    })),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pc.Close()
//
//	pc.OnFavoriteAdded(func(p proverb.Proverb) {
//	    log.Printf("favorited #%d", p.ID)
//	})
//
//	p, err := pc.Random(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := pc.ToggleFavorite(ctx, p); err != nil {
//	    log.Fatal(err)
//	}
package proverbs

import (
	"context"
	"sync"

	"github.com/agentstation/proverbs/pkg/api"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/favorites"
	"github.com/agentstation/proverbs/pkg/kv"
	"github.com/agentstation/proverbs/pkg/logging"
	"github.com/agentstation/proverbs/pkg/notifier"
	"github.com/agentstation/proverbs/pkg/proverb"
	"github.com/agentstation/proverbs/pkg/share"
	"github.com/agentstation/proverbs/pkg/subscription"
)

// Fetch failure messages.
const (
	MsgFetchFailed  = "Failed to fetch proverb."
	MsgLookupFailed = "Failed to load this proverb. It may not exist."
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Fetcher loads proverbs from the API.
type Fetcher interface {
	// Random fetches a random proverb.
	Random(ctx context.Context) (proverb.Proverb, error)

	// ByID fetches one proverb. An empty id fails without a request.
	ByID(ctx context.Context, id string) (proverb.Proverb, error)

	// State returns the loading, error and last known proverb.
	State() api.QueryState
}

// Sharer copies and exports proverbs.
type Sharer interface {
	// Copy places the proverb's text on the clipboard.
	Copy(ctx context.Context, p proverb.Proverb) error

	// Export saves the proverb card as PNG and, when offer is set, hands it
	// to the configured sharer.
	Export(ctx context.Context, p proverb.Proverb, offer bool) (share.Result, error)

	// ExportTo is Export into another directory.
	ExportTo(ctx context.Context, p proverb.Proverb, dir string, offer bool) (share.Result, error)

	// DownloadDir is where exported images are written.
	DownloadDir() string

	// Permalink is the web page of a proverb.
	Permalink(p proverb.Proverb) string
}

// Subscriber signs up for the weekly email.
type Subscriber interface {
	// Subscribe validates and submits a name and email.
	Subscribe(ctx context.Context, name, email string) error

	// SubscriptionForm exposes the form state.
	SubscriptionForm() *subscription.Form
}

// Client is a configured proverbs instance.
type Client interface {

	// Fetcher loads proverbs
	Fetcher

	// Persistence manages the favorites collection
	Persistence

	// Sharer copies and exports proverbs
	Sharer

	// Subscriber handles the mailing list
	Subscriber

	// Hooks provides access to event callback registration
	Hooks

	// Lifecycle starts watching and releases resources
	Lifecycle
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	backend   kv.Backend
	api       *api.Client
	query     *api.Query
	favorites *favorites.Store
	exporter  *share.Exporter
	sharer    share.Sharer
	form      *subscription.Form

	*hooks
	unsubscribe func()

	closeOnce sync.Once
}

// New creates a Client with the given options.
func New(ctx context.Context, opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx)

	apiClient, err := api.New(o.apiURL,
		api.WithTimeout(o.httpTimeout),
		api.WithProxy(o.proxyURL),
		api.WithHTTPClient(o.httpClient),
		api.WithRetries(o.retries),
	)
	if err != nil {
		return nil, errors.WrapResource("create", "api client", o.apiURL, err)
	}

	backend := o.backend
	if backend == nil {
		backend, err = kv.Open(ctx, kv.Config{Kind: o.storage, Dir: o.dataDir})
		if err != nil {
			return nil, err
		}
	}

	sharer := o.sharer
	if sharer == nil && !o.sharerSet {
		sharer = share.NewSharer(o.share)
	}

	c := &client{
		options:   o,
		backend:   backend,
		api:       apiClient,
		query:     api.NewQuery(),
		favorites: favorites.New(backend, favorites.WithNotifier(o.notifier)),
		exporter: share.NewExporter(o.downloadDir,
			share.WithSite(o.siteURL),
			share.WithSharer(sharer),
			share.WithExportNotifier(o.notifier),
		),
		sharer: sharer,
		form:   subscription.NewForm(apiClient, o.notifier),
		hooks:  newHooks(),
	}

	c.hooks.prime(c.favorites.List(ctx))
	c.unsubscribe = c.favorites.Subscribe(c.hooks.triggerFavoritesUpdate)

	log.Debug().
		Str("api_url", apiClient.BaseURL()).
		Str("storage", string(o.storage)).
		Int("favorites", len(c.favorites.List(ctx))).
		Msg("Proverbs client ready")
	return c, nil
}

// Random fetches a random proverb.
func (c *client) Random(ctx context.Context) (proverb.Proverb, error) {
	st := c.query.Run(ctx, c.api.Random)
	if st.Err != nil {
		c.options.notifier.Notify(notifier.LevelError, MsgFetchFailed)
		return proverb.Proverb{}, st.Err
	}
	return st.Proverb, nil
}

// ByID fetches one proverb by id.
func (c *client) ByID(ctx context.Context, id string) (proverb.Proverb, error) {
	var p proverb.Proverb
	st := c.query.Run(ctx, func(ctx context.Context) (proverb.Proverb, error) {
		var err error
		p, err = c.api.ByID(ctx, id)
		return p, err
	})
	if st.Err != nil {
		if !errors.Is(st.Err, proverb.ErrMissingID) {
			c.options.notifier.Notify(notifier.LevelError, MsgLookupFailed)
		}
		return proverb.Proverb{}, st.Err
	}
	return p, nil
}

// State returns the fetch state.
func (c *client) State() api.QueryState {
	return c.query.State()
}

// Copy places the proverb's text on the clipboard.
func (c *client) Copy(ctx context.Context, p proverb.Proverb) error {
	return share.CopyProverb(ctx, c.options.clipboard, c.options.notifier, p)
}

// Export renders the proverb card into the download directory. Without
// offer the sharer is skipped.
func (c *client) Export(ctx context.Context, p proverb.Proverb, offer bool) (share.Result, error) {
	return c.ExportTo(ctx, p, "", offer)
}

// ExportTo renders the proverb card into dir, or the download directory
// when dir is empty.
func (c *client) ExportTo(ctx context.Context, p proverb.Proverb, dir string, offer bool) (share.Result, error) {
	exporter := c.exporter
	if dir != "" || !offer {
		if dir == "" {
			dir = c.exporter.Dir()
		}
		opts := []share.ExporterOption{
			share.WithSite(c.options.siteURL),
			share.WithExportNotifier(c.options.notifier),
		}
		if offer {
			opts = append(opts, share.WithSharer(c.sharer))
		}
		exporter = share.NewExporter(dir, opts...)
	}
	return exporter.Export(ctx, p, p.FileName(), "", p.Proverb)
}

// DownloadDir is where exported images are written.
func (c *client) DownloadDir() string {
	return c.exporter.Dir()
}

// Permalink is the web page of a proverb.
func (c *client) Permalink(p proverb.Proverb) string {
	return p.Permalink(c.options.siteURL)
}

// Subscribe validates and submits a subscription. A form left in the
// success state by an earlier call is reset first.
func (c *client) Subscribe(ctx context.Context, name, email string) error {
	if c.form.State().Status == subscription.Succeeded {
		c.form.Reset()
	}
	return c.form.Submit(ctx, name, email)
}

// SubscriptionForm exposes the form state.
func (c *client) SubscriptionForm() *subscription.Form {
	return c.form
}
