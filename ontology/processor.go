// Package ontology turns a fetched ontology document into a processed RDF
// graph (imports merged, reasoning applied) and extracts the documentation
// model from it.
package ontology

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"github.com/c360studio/lode/config"
	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/rdf"
	"github.com/c360studio/lode/source"
	"github.com/c360studio/lode/source/weburl"
	"github.com/c360studio/lode/vocabulary"
)

// ErrParseFailed is returned when no serialization can parse a document.
var ErrParseFailed = errors.New("unable to parse ontology content")

// ProcessingOptions control import resolution and reasoning.
type ProcessingOptions struct {
	UseReasoning   bool
	IncludeImports bool
	IncludeClosure bool
	// MaxImportDepth bounds how many levels of owl:imports the closure follows.
	MaxImportDepth int
}

// DefaultMaxImportDepth is used when ProcessingOptions.MaxImportDepth is not positive.
const DefaultMaxImportDepth = 10

// OptionsFromConfig maps the process section of the configuration.
func OptionsFromConfig(cfg config.ProcessConfig) ProcessingOptions {
	return ProcessingOptions{
		UseReasoning:   cfg.Reasoning,
		IncludeImports: cfg.Imports,
		IncludeClosure: cfg.Closure,
		MaxImportDepth: cfg.MaxImportDepth,
	}
}

// Fetcher retrieves ontology documents by URL or path.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (*source.Document, error)
}

// Reasoner adds entailed triples to a graph.
type Reasoner interface {
	Apply(ctx context.Context, g *rdf.Graph) (int, error)
}

// Result is a processed ontology graph.
type Result struct {
	Graph       *rdf.Graph
	OntologyIRI string
	Source      string
	// Imported lists the import IRIs that were loaded and merged.
	Imported []string
	// Derived is the number of triples added by reasoning.
	Derived int
	// Warnings collects non-fatal import and reasoning failures.
	Warnings []string
}

// Document extracts the documentation model from the processed graph.
func (r *Result) Document() *model.Document {
	return Extract(r.Graph, r.OntologyIRI, r.Source)
}

// Processor parses ontology documents and resolves imports and reasoning.
type Processor struct {
	fetcher  Fetcher
	reasoner Reasoner
	logger   *slog.Logger
}

// NewProcessor creates a processor. fetcher is required only for import
// resolution and reasoner only when reasoning is requested.
func NewProcessor(fetcher Fetcher, reasoner Reasoner, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		fetcher:  fetcher,
		reasoner: reasoner,
		logger:   logger,
	}
}

// Process parses doc, merges its imports when requested and applies
// reasoning. Import and reasoning failures are recorded as warnings; only
// a document that cannot be parsed at all is an error.
func (p *Processor) Process(ctx context.Context, doc *source.Document, opts ProcessingOptions) (*Result, error) {
	start := time.Now()

	g, err := ParseDocument(doc)
	if err != nil {
		return nil, err
	}
	bindStandardPrefixes(g)

	res := &Result{
		Graph:       g,
		OntologyIRI: FindOntologyIRI(g, doc.Source),
		Source:      doc.Source,
	}

	if opts.IncludeImports || opts.IncludeClosure {
		if err := p.resolveImports(ctx, res, opts); err != nil {
			return nil, err
		}
	}

	if opts.UseReasoning {
		if err := p.reason(ctx, res); err != nil {
			return nil, err
		}
	}

	p.logger.Debug("Processed ontology",
		slog.String("source", doc.Source),
		slog.String("ontology", res.OntologyIRI),
		slog.Int("triples", g.Len()),
		slog.Int("imports", len(res.Imported)),
		slog.Int("warnings", len(res.Warnings)),
		slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

// ParseDocument parses doc with its detected format, then with each
// fallback format in turn.
func ParseDocument(doc *source.Document) (*rdf.Graph, error) {
	base := ""
	if weburl.IsHTTP(doc.Source) {
		base = doc.Source
	}

	format := doc.Format
	if !format.Valid() {
		format = rdf.DetectFormat(doc.Content)
	}
	g, firstErr := rdf.ParseString(doc.Content, format, base)
	if firstErr == nil {
		return g, nil
	}

	for _, fallback := range rdf.ParseFallbackOrder {
		if fallback == format {
			continue
		}
		// An empty result means the fallback parser found nothing it
		// recognised, not that the document is empty.
		if g, err := rdf.ParseString(doc.Content, fallback, base); err == nil && g.Len() > 0 {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrParseFailed, firstErr)
}

// bindStandardPrefixes binds rdf, rdfs, owl, xsd, dc and dcterms unless the
// document already uses those prefixes for something else.
func bindStandardPrefixes(g *rdf.Graph) {
	for prefix, ns := range vocabulary.StandardPrefixes() {
		if _, taken := g.Namespaces().Namespace(prefix); !taken {
			g.Bind(prefix, ns)
		}
	}
}

// FindOntologyIRI returns the first IRI typed owl:Ontology, else source
// when it is an http(s) URL, else "".
func FindOntologyIRI(g *rdf.Graph, source string) string {
	for _, s := range g.Subjects(rdf.IRI(vocabulary.RDFType), rdf.IRI(vocabulary.OWLOntology)) {
		if s.IsIRI() {
			return s.Value
		}
	}
	if weburl.IsHTTP(source) {
		return source
	}
	return ""
}

// resolveImports loads owl:imports breadth first. Direct imports stop after
// one level; the closure keeps following newly merged imports up to
// MaxImportDepth levels. Each IRI is attempted once.
func (p *Processor) resolveImports(ctx context.Context, res *Result, opts ProcessingOptions) error {
	maxDepth := opts.MaxImportDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxImportDepth
	}

	attempted := map[string]bool{res.Source: true}
	if res.OntologyIRI != "" {
		attempted[res.OntologyIRI] = true
	}

	pending := pendingImports(res.Graph, attempted)
	for depth := 0; len(pending) > 0 && depth < maxDepth; depth++ {
		for _, iri := range pending {
			if err := ctx.Err(); err != nil {
				return err
			}
			attempted[iri] = true

			added, err := p.loadImport(ctx, res.Graph, iri, res.Source)
			if err != nil {
				res.warn(p.logger, fmt.Sprintf("could not load import %s: %v", iri, err))
				continue
			}
			res.Imported = append(res.Imported, iri)
			p.logger.Info("Loaded import",
				slog.String("import", iri),
				slog.Int("depth", depth+1),
				slog.Int("triples", added))
		}

		if !opts.IncludeClosure {
			break
		}
		pending = pendingImports(res.Graph, attempted)
	}
	return nil
}

func (p *Processor) loadImport(ctx context.Context, g *rdf.Graph, iri, base string) (int, error) {
	if p.fetcher == nil {
		return 0, errors.New("no fetcher configured")
	}
	doc, err := p.fetcher.Fetch(ctx, resolveImport(iri, base))
	if err != nil {
		return 0, err
	}
	imported, err := ParseDocument(doc)
	if err != nil {
		return 0, err
	}
	return g.Merge(imported), nil
}

// pendingImports returns the sorted owl:imports IRIs not yet attempted.
func pendingImports(g *rdf.Graph, attempted map[string]bool) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tr := range g.Triples(nil, ptr(rdf.IRI(vocabulary.OWLImports)), nil) {
		iri := tr.O.Value
		if !tr.O.IsIRI() || attempted[iri] || seen[iri] {
			continue
		}
		seen[iri] = true
		out = append(out, iri)
	}
	return out
}

// resolveImport resolves a relative import against the importing source,
// which may be a URL or a local path.
func resolveImport(iri, base string) string {
	if base == "" || weburl.IsHTTP(iri) {
		return iri
	}
	if u, err := url.Parse(iri); err == nil && u.IsAbs() {
		return iri
	}
	if weburl.IsHTTP(base) {
		b, err := url.Parse(base)
		if err != nil {
			return iri
		}
		ref, err := url.Parse(iri)
		if err != nil {
			return iri
		}
		return b.ResolveReference(ref).String()
	}
	if filepath.IsAbs(iri) {
		return iri
	}
	return filepath.Join(filepath.Dir(base), iri)
}

func (p *Processor) reason(ctx context.Context, res *Result) error {
	if p.reasoner == nil {
		res.warn(p.logger, "reasoning failed: no reasoner configured")
		return nil
	}
	n, err := p.reasoner.Apply(ctx, res.Graph)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		res.warn(p.logger, fmt.Sprintf("reasoning failed: %v", err))
		return nil
	}
	res.Derived = n
	p.logger.Info("Applied reasoning", slog.Int("derived", n))
	return nil
}

func (r *Result) warn(logger *slog.Logger, msg string) {
	r.Warnings = append(r.Warnings, msg)
	logger.Warn(msg)
}

func ptr(t rdf.Term) *rdf.Term {
	return &t
}
