package web_test

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/konstantinfoerster/scryfall-go/internal/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiErr(code int) error {
	return &web.ExternalAPIError{URL: "https://localhost", StatusCode: code, Message: http.StatusText(code)}
}

func response(status int, contentType string, body io.Reader) *http.Response {
	header := http.Header{}
	header.Set("Content-Type", contentType)

	return &http.Response{StatusCode: status, Header: header, Body: io.NopCloser(body)}
}

func TestNewHTTPErr(t *testing.T) {
	cases := []struct {
		name        string
		resp        *http.Response
		wantMessage string
		wantCode    string
		wantText    string
	}{
		{
			name: "api error body",
			resp: response(http.StatusNotFound, "application/json; charset=utf-8", strings.NewReader(
				`{"object":"error","code":"not_found","status":404,"details":"No card found with the given ID."}`)),
			wantMessage: "No card found with the given ID.",
			wantCode:    "not_found",
			wantText:    "404 not_found: No card found with the given ID. (URL: https://localhost/cards/x)",
		},
		{
			name:        "json body without details",
			resp:        response(http.StatusBadRequest, web.MimeTypeJSON, strings.NewReader(`{"code":"bad_request"}`)),
			wantMessage: `{"code":"bad_request"}`,
			wantCode:    "bad_request",
		},
		{
			name:        "broken json body",
			resp:        response(http.StatusBadGateway, web.MimeTypeJSON, strings.NewReader(`{"details":`)),
			wantMessage: `{"details":`,
		},
		{
			name:        "html body",
			resp:        response(http.StatusBadGateway, "text/html", strings.NewReader(`<html>502 Bad Gateway</html>`)),
			wantMessage: "<html>502 Bad Gateway</html>",
			wantText:    "502: <html>502 Bad Gateway</html> (URL: https://localhost/cards/x)",
		},
		{
			name:        "unreadable body",
			resp:        response(http.StatusServiceUnavailable, web.MimeTypeJSON, iotest.ErrReader(errors.New("reset"))),
			wantMessage: "failed to read response body due to reset",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := web.NewHTTPErr("https://localhost/cards/x", tc.resp)

			var got *web.ExternalAPIError
			require.ErrorAs(t, err, &got)
			assert.Equal(t, tc.resp.StatusCode, got.StatusCode)
			assert.Equal(t, tc.wantMessage, got.Message)
			assert.Equal(t, tc.wantCode, got.Code)
			if tc.wantText != "" {
				assert.Equal(t, tc.wantText, err.Error())
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		targetErr error
		match     bool
	}{
		{name: "same status code", err: apiErr(http.StatusNotFound), targetErr: apiErr(http.StatusNotFound), match: true},
		{name: "wrapped", err: fmt.Errorf("card %w", apiErr(http.StatusNotFound)), targetErr: apiErr(http.StatusNotFound), match: true},
		{name: "different status code", err: apiErr(http.StatusBadRequest), targetErr: apiErr(http.StatusNotFound)},
		{name: "other error type", err: apiErr(http.StatusBadRequest), targetErr: errors.New("some error")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.match, errors.Is(tc.err, tc.targetErr))
		})
	}
}

func TestIsStatusCode(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		statusCodes []int
		match       bool
	}{
		{name: "match", err: apiErr(http.StatusNotFound), statusCodes: []int{http.StatusNotFound}, match: true},
		{name: "match wrapped", err: fmt.Errorf("x %w", apiErr(http.StatusTooManyRequests)), statusCodes: []int{429, 503}, match: true},
		{name: "no match", err: apiErr(http.StatusBadRequest), statusCodes: []int{http.StatusNotFound}},
		{name: "no status codes", err: apiErr(http.StatusBadRequest)},
		{name: "other error type", err: errors.New("some error"), statusCodes: []int{http.StatusNotFound}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.match, web.IsStatusCode(tc.err, tc.statusCodes...))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, web.IsNotFound(apiErr(http.StatusNotFound)))
	assert.True(t, web.IsNotFound(fmt.Errorf("gone %w", apiErr(http.StatusGone))))
	assert.False(t, web.IsNotFound(apiErr(http.StatusBadRequest)))
	assert.False(t, web.IsNotFound(errors.New("other")))
}
