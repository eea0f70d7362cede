package export

import (
	"encoding/json"
	"fmt"

	"github.com/piprate/json-gold/ld"

	"github.com/c360studio/lode/rdf"
)

// JSONLDWriter writes RDF in JSON-LD format, compacted against a context
// built from namespace prefixes.
type JSONLDWriter struct {
	context map[string]any
}

// NewJSONLDWriter creates a new JSON-LD writer.
func NewJSONLDWriter() *JSONLDWriter {
	return &JSONLDWriter{context: make(map[string]any)}
}

// SetContext sets the @context with prefixes. The empty prefix and
// generated prefixes are left out.
func (w *JSONLDWriter) SetContext(prefixes map[string]string) {
	for k, v := range prefixes {
		if k == "" || rdf.IsAutoPrefix(k) {
			continue
		}
		w.context[k] = v
	}
}

// Marshal converts g to JSON-LD. Without a context the expanded form is
// returned.
func (w *JSONLDWriter) Marshal(g *rdf.Graph) ([]byte, error) {
	nt := NewNTriplesWriter()
	nt.WriteGraph(g)

	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"
	expanded, err := proc.FromRDF(nt.String(), opts)
	if err != nil {
		return nil, fmt.Errorf("convert graph to json-ld: %w", err)
	}

	var doc any = expanded
	if len(w.context) > 0 {
		compacted, err := proc.Compact(expanded, map[string]any{"@context": w.context}, ld.NewJsonLdOptions(""))
		if err != nil {
			return nil, fmt.Errorf("compact json-ld: %w", err)
		}
		doc = compacted
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json-ld: %w", err)
	}
	return append(data, '\n'), nil
}
