// Package feeds acquires documents for conversion: files and archives on
// disk, compressed record dumps and OAI-PMH endpoints. Everything here
// produces *xmldoc.Document values, conversion happens elsewhere.
package feeds

import (
	"errors"
	"net/http"

	"github.com/gbv/jconv/xmldoc"
)

// ErrNoRecordsMatch is returned by an OAI endpoint for an empty window.
var ErrNoRecordsMatch = errors.New("oai: no records match")

// Doer abstracts https://pkg.go.dev/net/http#Client.Do.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// DocumentFunc is called for every document found.
type DocumentFunc func(doc *xmldoc.Document) error
