// Package source fetches ontology documents from URLs and local files and
// watches local files for changes.
package source

import (
	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/source/weburl"
)

// Document is a fetched ontology document.
type Document struct {
	// Source is the URL or file path the document was read from.
	Source string `json:"source"`

	// Content is the document text, decoded to UTF-8.
	Content string `json:"content"`

	// Format is the detected RDF serialization.
	Format rdf.Format `json:"format"`

	// ContentType is the HTTP Content-Type, empty for files.
	ContentType string `json:"content_type,omitempty"`
}

// IsRemote reports whether the document was fetched over HTTP.
func (d *Document) IsRemote() bool {
	return d.ContentType != "" || weburl.IsHTTP(d.Source)
}
