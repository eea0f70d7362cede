package export

import (
	"strings"

	"github.com/c360studio/lode/rdf"
)

// NTriplesWriter writes RDF in N-Triples format.
type NTriplesWriter struct {
	sb strings.Builder
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteTriple writes a single triple.
func (w *NTriplesWriter) WriteTriple(t rdf.Triple) {
	w.sb.WriteString(ntriplesTerm(t.S))
	w.sb.WriteString(" ")
	w.sb.WriteString(ntriplesTerm(t.P))
	w.sb.WriteString(" ")
	w.sb.WriteString(ntriplesTerm(t.O))
	w.sb.WriteString(" .\n")
}

// WriteGraph writes every triple of g in sorted order.
func (w *NTriplesWriter) WriteGraph(g *rdf.Graph) {
	for _, t := range g.Triples(nil, nil, nil) {
		w.WriteTriple(t)
	}
}

// String returns the accumulated N-Triples output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

func ntriplesTerm(t rdf.Term) string {
	if t.IsBlank() {
		return "_:" + blankLabel(t.Value)
	}
	return t.String()
}
