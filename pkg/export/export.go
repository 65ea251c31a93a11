// Package export converts a reconstructed schema graph into
// ready-to-import API client collections.
package export

import "fmt"

// Exporter renders a schema into some external collection format and
// returns the serialized bytes.
type Exporter interface {
	Export() ([]byte, error)
}

// Format names a supported export target.
type Format string

const (
	FormatPostman Format = "postman"
)

// ErrUnsupportedFormat is returned by New for an unknown format name.
var ErrUnsupportedFormat = fmt.Errorf("unsupported export format")

// New builds the Exporter for format, pointed at schema and baseURL.
func New(format Format, schemaJSON []byte, baseURL string) (Exporter, error) {
	switch format {
	case FormatPostman:
		return NewPostmanExporter(schemaJSON, baseURL)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
