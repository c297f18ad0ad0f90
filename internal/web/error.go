package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/konstantinfoerster/scryfall-go/internal/jsonfield"
)

const maxErrorMsgLengthBytes int64 = 2048

// NewHTTPErr creates an ExternalAPIError from an unexpected response.
// JSON error bodies contribute their details and code, other bodies are kept as message.
func NewHTTPErr(url string, resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorMsgLengthBytes))
	if err != nil {
		msg := fmt.Errorf("failed to read response body due to %w", err)

		return &ExternalAPIError{URL: url, StatusCode: resp.StatusCode, Message: msg.Error()}
	}

	apiErr := &ExternalAPIError{URL: url, StatusCode: resp.StatusCode, Message: string(body)}
	if !NewMimeType(resp.Header.Get("Content-Type")).IsJSON() {
		return apiErr
	}

	obj, err := jsonfield.Parse(body)
	if err != nil {
		return apiErr
	}
	if details := jsonfield.String(obj, "details"); details != "" {
		apiErr.Message = details
	}
	apiErr.Code = jsonfield.String(obj, "code")

	return apiErr
}

// ExternalAPIError is an error response of a remote API.
// Code is the API specific error code, if the response carried one.
type ExternalAPIError struct {
	URL        string
	Message    string
	Code       string
	StatusCode int
}

func (e *ExternalAPIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s (URL: %s)", e.StatusCode, e.Code, strings.TrimSpace(e.Message), e.URL)
	}

	return fmt.Sprintf("%d: %s (URL: %s)", e.StatusCode, strings.TrimSpace(e.Message), e.URL)
}

func (e *ExternalAPIError) Is(target error) bool {
	t, ok := target.(*ExternalAPIError)
	if !ok {
		return false
	}

	return e.StatusCode == t.StatusCode
}

func IsStatusCode(err error, statusCode ...int) bool {
	if len(statusCode) == 0 {
		return false
	}

	var apiErr *ExternalAPIError
	if errors.As(err, &apiErr) {
		return slices.Contains(statusCode, apiErr.StatusCode)
	}

	return false
}

// IsNotFound reports whether err carries a 404 or 410 response.
func IsNotFound(err error) bool {
	return IsStatusCode(err, http.StatusNotFound, http.StatusGone)
}
