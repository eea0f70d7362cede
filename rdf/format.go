package rdf

import (
	"path/filepath"
	"strings"
)

// Format names an RDF serialization.
type Format string

// Supported serialization names.
const (
	FormatXML      Format = "xml"
	FormatTurtle   Format = "turtle"
	FormatN3       Format = "n3"
	FormatNTriples Format = "nt"
	FormatNQuads   Format = "nquads"
	FormatTriG     Format = "trig"
	FormatJSONLD   Format = "json-ld"
)

// ParseFallbackOrder is the order formats are tried in when the detected
// format fails to parse.
var ParseFallbackOrder = []Format{FormatXML, FormatTurtle, FormatN3, FormatNTriples}

// AcceptTypes is the ordered list of MIME types offered during content
// negotiation.
var AcceptTypes = []string{
	"application/rdf+xml",
	"text/turtle",
	"application/x-turtle",
	"application/turtle",
	"text/n3",
	"application/n-triples",
	"text/n-triples",
	"application/n-quads",
	"application/trig",
	"application/ld+json",
	"text/xml",
	"application/xml",
	"text/plain",
	"*/*",
}

var mimeFormats = map[string]Format{
	"application/rdf+xml":   FormatXML,
	"text/xml":              FormatXML,
	"application/xml":       FormatXML,
	"text/turtle":           FormatTurtle,
	"application/x-turtle":  FormatTurtle,
	"application/turtle":    FormatTurtle,
	"text/n3":               FormatN3,
	"application/n-triples": FormatNTriples,
	"text/n-triples":        FormatNTriples,
	"application/n-quads":   FormatNQuads,
	"application/trig":      FormatTriG,
	"application/ld+json":   FormatJSONLD,
	"text/plain":            FormatTurtle,
}

var extensionFormats = map[string]Format{
	".owl":    FormatXML,
	".rdf":    FormatXML,
	".xml":    FormatXML,
	".ttl":    FormatTurtle,
	".turtle": FormatTurtle,
	".n3":     FormatN3,
	".nt":     FormatNTriples,
	".nq":     FormatNQuads,
	".trig":   FormatTriG,
	".jsonld": FormatJSONLD,
	".json":   FormatJSONLD,
}

// FormatFromMIME maps a Content-Type header value to a format. Parameters
// such as charset are ignored. Unknown types return "".
func FormatFromMIME(contentType string) Format {
	mime, _, _ := strings.Cut(contentType, ";")
	return mimeFormats[strings.ToLower(strings.TrimSpace(mime))]
}

// FormatFromExtension maps a file name's extension to a format. Unknown
// extensions return "".
func FormatFromExtension(path string) Format {
	return extensionFormats[strings.ToLower(filepath.Ext(path))]
}

// DetectFormat guesses the serialization of content from textual markers,
// defaulting to RDF/XML.
func DetectFormat(content string) Format {
	lower := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(lower, "<?xml") ||
		strings.Contains(lower, "<rdf:rdf") ||
		strings.Contains(lower, "<owl:ontology") ||
		strings.Contains(lower, "xmlns:owl=") {
		return FormatXML
	}

	if strings.Contains(lower, "@prefix") ||
		strings.Contains(lower, "@base") ||
		strings.HasPrefix(lower, "@") ||
		strings.Contains(lower, " a owl:") {
		return FormatTurtle
	}

	if strings.Contains(content, " <http") && strings.Contains(content, " .") && !strings.Contains(content, "@") {
		return FormatNTriples
	}

	if strings.HasPrefix(lower, "{") && strings.Contains(lower, `"@context"`) {
		return FormatJSONLD
	}

	return FormatXML
}

// Valid reports whether f names a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatXML, FormatTurtle, FormatN3, FormatNTriples, FormatNQuads, FormatTriG, FormatJSONLD:
		return true
	}
	return false
}
