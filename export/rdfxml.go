package export

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/vocabulary"
)

// ErrPredicateQName is returned when a predicate IRI cannot be written as
// an XML element name.
var ErrPredicateQName = errors.New("predicate has no xml qname")

var xmlPrefixName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-.]*$`)

// RDFXMLWriter writes RDF in RDF/XML format, one rdf:Description per
// subject.
type RDFXMLWriter struct {
	ns *rdf.NamespaceManager
	sb strings.Builder
}

// NewRDFXMLWriter creates a new RDF/XML writer with the rdf prefix bound.
func NewRDFXMLWriter() *RDFXMLWriter {
	ns := rdf.NewNamespaceManager()
	ns.Bind("rdf", vocabulary.RDFNamespace)
	return &RDFXMLWriter{ns: ns}
}

// SetPrefixes binds every usable prefix in the map. The default namespace
// and reserved xml prefixes are skipped.
func (w *RDFXMLWriter) SetPrefixes(prefixes map[string]string) {
	for prefix, iri := range prefixes {
		if prefix == "" || prefix == "rdf" || rdf.IsAutoPrefix(prefix) ||
			strings.HasPrefix(strings.ToLower(prefix), "xml") || !xmlPrefixName.MatchString(prefix) {
			continue
		}
		w.ns.Bind(prefix, iri)
	}
}

// WriteGraph writes the whole document for g.
func (w *RDFXMLWriter) WriteGraph(g *rdf.Graph) error {
	var body strings.Builder
	triples := g.Triples(nil, nil, nil)
	for start := 0; start < len(triples); {
		end := start
		for end < len(triples) && triples[end].S == triples[start].S {
			end++
		}
		if err := w.writeDescription(&body, triples[start:end]); err != nil {
			return err
		}
		start = end
	}

	w.sb.WriteString(xml.Header)
	w.sb.WriteString("<rdf:RDF")
	for _, b := range w.ns.Bindings() {
		w.sb.WriteString(fmt.Sprintf("\n    xmlns:%s=\"%s\"", b.Prefix, escapeXML(b.Namespace)))
	}
	w.sb.WriteString(">\n")
	w.sb.WriteString(body.String())
	w.sb.WriteString("</rdf:RDF>\n")
	return nil
}

func (w *RDFXMLWriter) writeDescription(sb *strings.Builder, triples []rdf.Triple) error {
	subject := triples[0].S
	if subject.IsBlank() {
		sb.WriteString(fmt.Sprintf("  <rdf:Description rdf:nodeID=\"%s\">\n", blankLabel(subject.Value)))
	} else {
		sb.WriteString(fmt.Sprintf("  <rdf:Description rdf:about=\"%s\">\n", escapeXML(subject.Value)))
	}

	for _, t := range triples {
		name, ok := w.ns.QName(t.P.Value)
		if !ok {
			return fmt.Errorf("%w: %s", ErrPredicateQName, t.P.Value)
		}
		o := t.O
		switch o.Kind {
		case rdf.KindIRI:
			sb.WriteString(fmt.Sprintf("    <%s rdf:resource=\"%s\"/>\n", name, escapeXML(o.Value)))
		case rdf.KindBlank:
			sb.WriteString(fmt.Sprintf("    <%s rdf:nodeID=\"%s\"/>\n", name, blankLabel(o.Value)))
		default:
			attr := ""
			if o.Lang != "" {
				attr = fmt.Sprintf(" xml:lang=\"%s\"", escapeXML(o.Lang))
			} else if o.Datatype != "" {
				attr = fmt.Sprintf(" rdf:datatype=\"%s\"", escapeXML(o.Datatype))
			}
			sb.WriteString(fmt.Sprintf("    <%s%s>%s</%s>\n", name, attr, escapeXML(o.Value), name))
		}
	}
	sb.WriteString("  </rdf:Description>\n")
	return nil
}

// String returns the accumulated RDF/XML output.
func (w *RDFXMLWriter) String() string {
	return w.sb.String()
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on writer errors, which bytes.Buffer never returns.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
