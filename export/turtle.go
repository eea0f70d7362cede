package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/vocabulary"
)

var (
	unsafeBlankPattern = regexp.MustCompile(`[^A-Za-z0-9_]`)
	turtlePrefixName   = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_\-]*)?$`)
)

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	prefixes map[string]string
	ns       *rdf.NamespaceManager
	sb       strings.Builder
}

// NewTurtleWriter creates a new Turtle writer with no prefixes.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{
		prefixes: make(map[string]string),
		ns:       rdf.NewNamespaceManager(),
	}
}

// SetPrefix sets a namespace prefix. Generated and syntactically invalid
// prefixes are ignored.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	if rdf.IsAutoPrefix(prefix) || !turtlePrefixName.MatchString(prefix) {
		return
	}
	w.prefixes[prefix] = iri
	w.ns.Bind(prefix, iri)
}

// SetPrefixes sets every prefix in the map.
func (w *TurtleWriter) SetPrefixes(prefixes map[string]string) {
	for prefix, iri := range prefixes {
		w.SetPrefix(prefix, iri)
	}
}

// WritePrefixes writes prefix declarations.
func (w *TurtleWriter) WritePrefixes() {
	// Sort prefixes for consistent output
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		w.sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, w.prefixes[prefix]))
	}
	w.sb.WriteString("\n")
}

// WriteGraph writes the prefixes and then every subject of g as one block,
// rdf:type first.
func (w *TurtleWriter) WriteGraph(g *rdf.Graph) {
	w.WritePrefixes()

	triples := g.Triples(nil, nil, nil)
	for start := 0; start < len(triples); {
		end := start
		for end < len(triples) && triples[end].S == triples[start].S {
			end++
		}
		w.writeSubject(triples[start:end])
		start = end
	}
}

func (w *TurtleWriter) writeSubject(triples []rdf.Triple) {
	block := append([]rdf.Triple(nil), triples...)
	sort.SliceStable(block, func(i, j int) bool {
		return block[i].P.Value == vocabulary.RDFType && block[j].P.Value != vocabulary.RDFType
	})

	w.sb.WriteString(w.term(block[0].S))
	for i := 0; i < len(block); {
		pred := block[i].P
		if i > 0 {
			w.sb.WriteString(" ;\n   ")
		}
		w.sb.WriteString(" " + w.predicate(pred) + " ")

		var objects []string
		for ; i < len(block) && block[i].P == pred; i++ {
			objects = append(objects, w.term(block[i].O))
		}
		w.sb.WriteString(strings.Join(objects, " , "))
	}
	w.sb.WriteString(" .\n\n")
}

func (w *TurtleWriter) predicate(p rdf.Term) string {
	if p.Value == vocabulary.RDFType {
		return "a"
	}
	return w.term(p)
}

func (w *TurtleWriter) iri(iri string) string {
	if q, ok := w.ns.Compact(iri); ok && !strings.HasSuffix(q, ".") {
		return q
	}
	return "<" + iri + ">"
}

func (w *TurtleWriter) term(t rdf.Term) string {
	switch t.Kind {
	case rdf.KindIRI:
		return w.iri(t.Value)
	case rdf.KindBlank:
		return "_:" + blankLabel(t.Value)
	default:
		s := `"` + rdf.EscapeLiteral(t.Value) + `"`
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" {
			return s + "^^" + w.iri(t.Datatype)
		}
		return s
	}
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

// blankLabel keeps blank node labels within the N-Triples label grammar.
func blankLabel(label string) string {
	return unsafeBlankPattern.ReplaceAllString(label, "_")
}
