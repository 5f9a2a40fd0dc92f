package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/proverbs/pkg/api"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/proverb"
)

const okBody = `{"id":12,"proverb":"Ìwà l'ẹwà","translation":"Character is beauty","wisdom":"Good conduct outshines looks."}`

func newServer(t *testing.T, handler http.HandlerFunc) (*api.Client, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := api.New(srv.URL)
	require.NoError(t, err)
	return c, &hits
}

func TestRandom(t *testing.T) {
	c, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/proverb", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, okBody)
	})

	p, err := c.Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, p.ID)
	assert.Equal(t, "Character is beauty", p.Translation)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestRandomRetriesTwice(t *testing.T) {
	c, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Random(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestRandomRecoversOnRetry(t *testing.T) {
	var calls int32
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, okBody)
	})

	p, err := c.Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, p.ID)
}

func TestRandomWithoutRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := api.New(srv.URL, api.WithRetries(0))
	require.NoError(t, err)
	_, err = c.Random(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestRandomCanceledIsNotRetried(t *testing.T) {
	c, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, okBody)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Random(ctx)
	require.Error(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(hits), int32(1))
}

func TestByID(t *testing.T) {
	c, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/proverb/12":
			_, _ = io.WriteString(w, okBody)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	p, err := c.ByID(ctx, "12")
	require.NoError(t, err)
	assert.Equal(t, 12, p.ID)

	_, err = c.ByID(ctx, "404")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, int32(2), atomic.LoadInt32(hits), "lookups are never retried")
}

func TestByIDFailsLocally(t *testing.T) {
	c, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})
	ctx := context.Background()

	_, err := c.ByID(ctx, "")
	assert.ErrorIs(t, err, proverb.ErrMissingID)

	_, err = c.ByID(ctx, "abc")
	assert.True(t, errors.IsValidationError(err))

	_, err = c.ByID(ctx, "-3")
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestMalformedPayload(t *testing.T) {
	for name, body := range map[string]string{
		"missing id":    `{"proverb":"x","translation":"y","wisdom":"z"}`,
		"empty proverb": `{"id":3,"proverb":""}`,
		"not an object": `["a"]`,
		"trailing data": okBody + okBody,
		"not json":      `<html></html>`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			}))
			defer srv.Close()
			c, err := api.New(srv.URL)
			require.NoError(t, err)

			_, err = c.ByID(context.Background(), "3")
			require.Error(t, err)
			var pe *errors.ParseError
			isParse := errors.As(err, &pe)
			assert.True(t, isParse || errors.IsValidationError(err), err.Error())
		})
	}
}

func TestSubscribe(t *testing.T) {
	c, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscribe", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var sub api.Subscription
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		if sub.Email == "taken@example.com" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"Validation failed","details":{"email":"Already subscribed"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"message":"Subscribed"}`)
	})
	ctx := context.Background()

	resp, err := c.Subscribe(ctx, api.Subscription{Email: "ade@example.com", Name: "Ade"})
	require.NoError(t, err)
	assert.Equal(t, "Subscribed", resp.Message)

	_, err = c.Subscribe(ctx, api.Subscription{Email: "taken@example.com", Name: "Ade"})
	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Already subscribed", apiErr.Details["email"])
}
