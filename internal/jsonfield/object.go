// Package jsonfield reads fields from loosely structured JSON documents.
//
// Every accessor returns a type specific default when the field is missing, null or of an unexpected type,
// so a single odd field never aborts decoding of a whole document.
package jsonfield

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	ErrNoObject     = errors.New("json document is not an object")
	ErrTrailingData = errors.New("unexpected data after json object")
)

// Object is a parsed JSON object. A nil Object behaves like an empty one.
type Object map[string]any

// Parse parses data into an Object. Numbers are kept as json.Number to avoid precision loss.
func Parse(data []byte) (Object, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a single JSON object from r. Anything but whitespace after the object is an error.
func Decode(r io.Reader) (Object, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode json %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("at offset %d, %w", dec.InputOffset(), ErrTrailingData)
	}

	obj, ok := toObject(v)
	if !ok {
		return nil, fmt.Errorf("found %T, %w", v, ErrNoObject)
	}

	return obj, nil
}

// Has reports whether key exists with a non null value.
func (o Object) Has(key string) bool {
	_, ok := o.Lookup(key)

	return ok
}

// Lookup returns the raw value of key. Null values are reported as absent.
func (o Object) Lookup(key string) (any, bool) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, false
	}

	return v, true
}

// Keys returns all keys with a non null value in no particular order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k, v := range o {
		if v != nil {
			keys = append(keys, k)
		}
	}

	return keys
}

func toObject(v any) (Object, bool) {
	switch t := v.(type) {
	case Object:
		return t, true
	case map[string]any:
		return Object(t), true
	default:
		return nil, false
	}
}
