package scryfall

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRequest = errors.New("malformed request")
	ErrNetwork          = errors.New("network error")
	ErrDecode           = errors.New("decode error")
	ErrNotFound         = errors.New("not found")
)

type Kind int

const (
	KindMalformedRequest Kind = iota + 1
	KindNetwork
	KindDecode
	KindNotFound
)

func (k Kind) sentinel() error {
	switch k {
	case KindMalformedRequest:
		return ErrMalformedRequest
	case KindNetwork:
		return ErrNetwork
	case KindDecode:
		return ErrDecode
	case KindNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// FetchError is returned by every failed client operation and carries the failing url.
type FetchError struct {
	URL  string
	Kind Kind
	Err  error
}

func newFetchErr(url string, kind Kind, err error) *FetchError {
	return &FetchError{URL: url, Kind: kind, Err: err}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s for %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the error kind, e.g. errors.Is(err, ErrNotFound).
func (e *FetchError) Is(target error) bool {
	s := e.Kind.sentinel()

	return s != nil && target == s
}
