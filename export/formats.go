// Package export serializes a processed ontology graph to Turtle,
// N-Triples, JSON-LD and RDF/XML.
package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/c360studio/lode/rdf"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "ttl"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "nt"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"

	// FormatRDFXML produces RDF/XML (.rdf) output.
	FormatRDFXML Format = "rdf"
)

// ErrUnsupportedFormat is returned for an unknown serialization name.
var ErrUnsupportedFormat = errors.New("unsupported serialization")

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
	FormatRDFXML: {
		Name:        FormatRDFXML,
		MIMEType:    "application/rdf+xml",
		Extension:   ".rdf",
		Description: "RDF/XML - XML syntax for RDF",
	},
}

var formatAliases = map[string]Format{
	"turtle":    FormatTurtle,
	"ntriples":  FormatNTriples,
	"n-triples": FormatNTriples,
	"json-ld":   FormatJSONLD,
	"xml":       FormatRDFXML,
	"rdfxml":    FormatRDFXML,
	"owl":       FormatRDFXML,
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat resolves a serialization name or common alias.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := FormatRegistry[Format(name)]; ok {
		return Format(name), nil
	}
	if f, ok := formatAliases[name]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Formats returns the supported formats in name order.
func Formats() []Format {
	out := make([]Format, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Serialize writes g to w in format, using the graph's prefix bindings.
func Serialize(w io.Writer, g *rdf.Graph, format Format) error {
	var out []byte
	switch format {
	case FormatTurtle:
		tw := NewTurtleWriter()
		tw.SetPrefixes(g.Namespaces().Map())
		tw.WriteGraph(g)
		out = []byte(tw.String())
	case FormatNTriples:
		nw := NewNTriplesWriter()
		nw.WriteGraph(g)
		out = []byte(nw.String())
	case FormatJSONLD:
		jw := NewJSONLDWriter()
		jw.SetContext(g.Namespaces().Map())
		data, err := jw.Marshal(g)
		if err != nil {
			return err
		}
		out = data
	case FormatRDFXML:
		xw := NewRDFXMLWriter()
		xw.SetPrefixes(g.Namespaces().Map())
		if err := xw.WriteGraph(g); err != nil {
			return err
		}
		out = []byte(xw.String())
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// SerializeString returns g serialized in format.
func SerializeString(g *rdf.Graph, format Format) (string, error) {
	var sb strings.Builder
	if err := Serialize(&sb, g, format); err != nil {
		return "", err
	}
	return sb.String(), nil
}
