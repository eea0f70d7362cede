package rdf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	knakk "github.com/knakk/rdf"
	"github.com/piprate/json-gold/ld"

	"github.com/c360studio/lode/vocabulary"
)

// ErrUnsupportedFormat is returned for serializations that cannot be parsed.
var ErrUnsupportedFormat = errors.New("unsupported format")

var (
	turtlePrefixPattern = regexp.MustCompile(`(?im)^\s*(?:@prefix|prefix)\s+([A-Za-z][\w.\-]*)?:\s*<([^>]*)>`)
)

// Parse reads r fully and parses it as format. Relative IRIs are resolved
// against base when base is an absolute IRI. Prefixes declared in the
// document are bound in the returned graph.
func Parse(r io.Reader, format Format, base string) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rdf content: %w", err)
	}
	return ParseBytes(data, format, base)
}

// ParseString parses content as format.
func ParseString(content string, format Format, base string) (*Graph, error) {
	return ParseBytes([]byte(content), format, base)
}

// ParseBytes parses data as format.
func ParseBytes(data []byte, format Format, base string) (*Graph, error) {
	p := &parser{
		graph: NewGraph(),
		scope: newScope(),
	}
	if u, err := url.Parse(base); err == nil && u.IsAbs() {
		p.base = u
	}

	var err error
	switch format {
	case FormatTurtle, FormatN3:
		err = p.triples(data, knakk.Turtle)
		p.bindMatches(turtlePrefixPattern, data)
	case FormatNTriples:
		err = p.triples(data, knakk.NTriples)
	case FormatNQuads:
		err = p.quads(data)
	case FormatXML:
		err = p.rdfxml(data)
	case FormatJSONLD:
		err = p.jsonld(data)
	case FormatTriG:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}
	return p.graph, nil
}

type parser struct {
	graph  *Graph
	scope  string
	base   *url.URL
	blanks int
}

func (p *parser) triples(data []byte, f knakk.Format) error {
	dec := knakk.NewTripleDecoder(bytes.NewReader(data), f)
	for {
		tr, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := p.add(tr.Subj, tr.Pred, tr.Obj); err != nil {
			return err
		}
	}
}

func (p *parser) quads(data []byte) error {
	dec := knakk.NewQuadDecoder(bytes.NewReader(data), knakk.NQuads)
	for {
		q, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		// Graph names are dropped; quads are flattened into one graph.
		if err := p.add(q.Subj, q.Pred, q.Obj); err != nil {
			return err
		}
	}
}

func (p *parser) jsonld(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	opts := ld.NewJsonLdOptions("")
	if p.base != nil {
		opts.Base = p.base.String()
	}
	opts.Format = "application/n-quads"

	out, err := ld.NewJsonLdProcessor().ToRDF(doc, opts)
	if err != nil {
		return fmt.Errorf("expand json-ld: %w", err)
	}
	nquads, ok := out.(string)
	if !ok {
		return fmt.Errorf("expand json-ld: unexpected result %T", out)
	}
	if err := p.quads([]byte(nquads)); err != nil {
		return err
	}
	p.bindContext(doc)
	return nil
}

// bindContext binds prefix-like string entries of inline @context objects.
func (p *parser) bindContext(doc any) {
	switch v := doc.(type) {
	case []any:
		for _, item := range v {
			p.bindContext(item)
		}
	case map[string]any:
		ctx, ok := v["@context"]
		if !ok {
			return
		}
		contexts, ok := ctx.([]any)
		if !ok {
			contexts = []any{ctx}
		}
		for _, c := range contexts {
			entries, ok := c.(map[string]any)
			if !ok {
				continue
			}
			for prefix, val := range entries {
				ns, ok := val.(string)
				if !ok || strings.HasPrefix(prefix, "@") {
					continue
				}
				if strings.HasSuffix(ns, "#") || strings.HasSuffix(ns, "/") {
					p.graph.Bind(prefix, ns)
				}
			}
		}
	}
}

func (p *parser) bindMatches(pattern *regexp.Regexp, data []byte) {
	for _, m := range pattern.FindAllSubmatch(data, -1) {
		ns := string(m[2])
		if ns == "" {
			continue
		}
		p.graph.Bind(string(m[1]), p.resolve(ns))
	}
}

func (p *parser) add(s knakk.Subject, pred knakk.Predicate, o knakk.Object) error {
	st, err := p.term(s)
	if err != nil {
		return err
	}
	pt, err := p.term(pred)
	if err != nil {
		return err
	}
	ot, err := p.term(o)
	if err != nil {
		return err
	}
	p.graph.Add(Triple{S: st, P: pt, O: ot})
	return nil
}

func (p *parser) term(t knakk.Term) (Term, error) {
	switch v := t.(type) {
	case knakk.IRI:
		return IRI(p.resolve(v.String())), nil
	case knakk.Blank:
		return Blank(p.scope + strings.TrimPrefix(v.String(), "_:")), nil
	case knakk.Literal:
		if lang := v.Lang(); lang != "" {
			return LangLiteral(v.String(), lang), nil
		}
		dt := v.DataType.String()
		if dt == "" || dt == vocabulary.XSDNamespace+"string" {
			return Literal(v.String()), nil
		}
		return TypedLiteral(v.String(), dt), nil
	default:
		return Term{}, fmt.Errorf("unexpected term %T", t)
	}
}

func (p *parser) resolve(iri string) string {
	if p.base == nil {
		return iri
	}
	u, err := url.Parse(iri)
	if err != nil || u.IsAbs() {
		return iri
	}
	return p.base.ResolveReference(u).String()
}
