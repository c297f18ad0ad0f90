package web

import (
	"strings"
)

const (
	MimeTypeJSON     = "application/json"
	MimeTypeJpeg     = "image/jpeg"
	MimeTypePng      = "image/png"
	MimeTypeSVG      = "image/svg+xml"
	HeaderAccept     = "Accept"
	HeaderUserAgent  = "User-Agent"
	DefaultUserAgent = "ScryfallGo/0.1"
)

// NewMimeType creates a MimeType from the given content-type.
func NewMimeType(contentType string) MimeType {
	ct := strings.Split(contentType, ";")[0]

	return MimeType{value: strings.TrimSpace(strings.ToLower(ct))}
}

type MimeType struct {
	value string
}

// IsJSON returns true if mime-type is application/json.
func (m MimeType) IsJSON() bool {
	return m.value == MimeTypeJSON
}

// Raw returns the extracted mime-type.
func (m MimeType) Raw() string {
	return m.value
}
