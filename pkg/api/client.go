// Package api is the client for the Yoruba proverbs HTTP API.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/agentstation/proverbs/internal/transport"
	"github.com/agentstation/proverbs/pkg/constants"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/logging"
	"github.com/agentstation/proverbs/pkg/proverb"
)

// Client fetches proverbs and submits subscriptions.
type Client struct {
	transport *transport.Client
	retries   int
}

// Option configures a Client.
type Option func(*options)

type options struct {
	timeout    time.Duration
	proxyURL   string
	httpClient *http.Client
	userAgent  string
	retries    int
}

// WithTimeout bounds each HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithProxy routes requests through proxyURL.
func WithProxy(proxyURL string) Option {
	return func(o *options) { o.proxyURL = proxyURL }
}

// WithHTTPClient uses hc for all requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithRetries sets how many extra attempts Random makes after a failure.
// Negative values disable retries.
func WithRetries(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.retries = n
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	o := &options{retries: constants.RandomRetries}
	for _, opt := range opts {
		opt(o)
	}

	topts := []transport.Option{
		transport.WithTimeout(o.timeout),
		transport.WithUserAgent(o.userAgent),
	}
	if o.proxyURL != "" {
		topts = append(topts, transport.WithProxy(o.proxyURL))
	}
	if o.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(o.httpClient))
	}

	t, err := transport.New(baseURL, topts...)
	if err != nil {
		return nil, err
	}
	return &Client{transport: t, retries: o.retries}, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string { return c.transport.BaseURL() }

// Random fetches a random proverb. A failed attempt is retried immediately
// up to the configured number of times; cancellation is never retried.
func (c *Client) Random(ctx context.Context) (proverb.Proverb, error) {
	ctx = logging.WithOperation(ctx, "random")

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		p, err := c.fetch(ctx, constants.RandomProverbPath)
		if err == nil {
			return p, nil
		}
		lastErr = err
		if ctx.Err() != nil || errors.IsCanceled(err) {
			break
		}
		if attempt < c.retries {
			logging.FromContext(ctx).Debug().Err(err).Int("attempt", attempt+1).Msg("Retrying random proverb")
		}
	}
	return proverb.Proverb{}, lastErr
}

// ByID fetches the proverb with the given id. An empty id fails with
// proverb.ErrMissingID and an id that is not a positive integer fails with a
// validation error, both without a request.
func (c *Client) ByID(ctx context.Context, id string) (proverb.Proverb, error) {
	n, err := proverb.ParseID(id)
	if err != nil {
		return proverb.Proverb{}, err
	}
	ctx = logging.WithProverb(logging.WithOperation(ctx, "by_id"), n)
	return c.fetch(ctx, constants.ProverbByIDPath+strconv.Itoa(n))
}

func (c *Client) fetch(ctx context.Context, path string) (proverb.Proverb, error) {
	resp, err := c.transport.Get(ctx, path)
	if err != nil {
		return proverb.Proverb{}, err
	}
	body, err := transport.ReadBody(resp)
	if err != nil {
		return proverb.Proverb{}, err
	}
	if !transport.Success(resp) {
		return proverb.Proverb{}, transport.ErrorFromResponse(resp, body)
	}
	return proverb.DecodeBytes(body, path)
}

// Subscription is the body of a subscribe request.
type Subscription struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SubscribeResponse is the body of a successful subscribe request.
type SubscribeResponse struct {
	Message string `json:"message"`
}

// Subscribe registers an email address for the weekly proverb mail. A
// rejected request returns an *errors.APIError whose Details carry any
// per-field messages from the server.
func (c *Client) Subscribe(ctx context.Context, sub Subscription) (SubscribeResponse, error) {
	ctx = logging.WithOperation(ctx, "subscribe")
	resp, err := c.transport.PostJSON(ctx, constants.SubscribePath, sub)
	if err != nil {
		return SubscribeResponse{}, err
	}
	var out SubscribeResponse
	if err := transport.DecodeResponse(resp, &out); err != nil {
		return SubscribeResponse{}, err
	}
	logging.FromContext(ctx).Info().Msg("Subscription accepted")
	return out, nil
}
