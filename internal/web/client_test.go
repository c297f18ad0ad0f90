package web_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/konstantinfoerster/scryfall-go/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	var userAgent, accept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get(web.HeaderUserAgent)
		accept = r.Header.Get(web.HeaderAccept)
		w.Header().Set("content-type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"object":"card"}`))
	}))
	defer ts.Close()
	client := web.NewClient(web.Config{}, http.DefaultClient)

	opts := web.NewGetOpts().WithHeader(web.HeaderAccept, web.MimeTypeJSON)
	resp, err := client.Get(t.Context(), ts.URL+"/cards/1", opts)
	require.NoError(t, err)
	content, err := io.ReadAll(resp.Body)
	resp.Body.Close()

	require.NoError(t, err)
	assert.JSONEq(t, `{"object":"card"}`, string(content))
	assert.True(t, resp.MimeType.IsJSON())
	assert.Equal(t, ts.URL+"/cards/1", resp.URL)
	assert.Equal(t, web.DefaultUserAgent, userAgent)
	assert.Equal(t, web.MimeTypeJSON, accept)
}

func TestGet_ApiError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()
	client := web.NewClient(web.Config{}, http.DefaultClient)

	_, err := client.Get(t.Context(), ts.URL+"/notFound.unknown", web.NewGetOpts())

	var apiErr *web.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, ts.URL+"/notFound.unknown", apiErr.URL)
}

func TestGet_Retry(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)

			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	t.Run("succeeds within retries", func(t *testing.T) {
		calls.Store(0)
		cfg := web.Config{Retries: 2, Retrieables: []int{http.StatusTooManyRequests}, RetryDelay: time.Millisecond}
		client := web.NewClient(cfg, http.DefaultClient)

		resp, err := client.Get(t.Context(), ts.URL, web.NewGetOpts())

		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("no retry by default", func(t *testing.T) {
		calls.Store(0)
		client := web.NewClient(web.Config{}, http.DefaultClient)

		_, err := client.Get(t.Context(), ts.URL, web.NewGetOpts())

		assert.True(t, web.IsStatusCode(err, http.StatusTooManyRequests))
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("gives up after retries", func(t *testing.T) {
		calls.Store(-10)
		cfg := web.Config{Retries: 1, Retrieables: []int{http.StatusTooManyRequests}, RetryDelay: time.Millisecond}
		client := web.NewClient(cfg, http.DefaultClient)

		_, err := client.Get(t.Context(), ts.URL, web.NewGetOpts())

		assert.True(t, web.IsStatusCode(err, http.StatusTooManyRequests))
		assert.Equal(t, int32(-8), calls.Load())
	})
}

func TestGet_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	client := web.NewClient(web.Config{}, http.DefaultClient)

	_, err := client.Get(ctx, "http://localhost:1", web.NewGetOpts())

	require.Error(t, err)
}

func TestNewGetOpts(t *testing.T) {
	want := web.GetOptions{
		Header: map[string]string{
			"content-length": "1",
		},
		StatusCodes: []int{201, 204},
	}

	actual := web.NewGetOpts().
		WithHeader("content-length", "1").
		WithExpectedCodes(201, 204)

	assert.Equal(t, want, actual)
}

func TestNewHTTPClient(t *testing.T) {
	c := web.NewHTTPClient(web.Config{Timeout: time.Second})

	assert.Equal(t, time.Second, c.Timeout)
}
