// Package generate runs the documentation pipeline: fetch the ontology,
// process it, extract the documentation model, render it and write the
// result.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/lode/config"
	"github.com/c360studio/lode/export"
	"github.com/c360studio/lode/model"
	"github.com/c360studio/lode/ontology"
	"github.com/c360studio/lode/reasoner"
	"github.com/c360studio/lode/render"
	"github.com/c360studio/lode/source"
)

// Request describes one documentation run.
type Request struct {
	// Source is an http(s) URL or a local file path.
	Source  string
	Process ontology.ProcessingOptions
	Render  render.Options
}

// RequestFromConfig builds a request for src from the loaded configuration.
func RequestFromConfig(src string, cfg *config.Config) Request {
	return Request{
		Source:  src,
		Process: ontology.OptionsFromConfig(cfg.Process),
		Render:  render.OptionsFromConfig(cfg.Render),
	}
}

// Output is a rendered ontology.
type Output struct {
	Result   *ontology.Result
	Document *model.Document
	// Content is the rendered page.
	Content []byte
	// Format is the render format that produced Content.
	Format string
}

// Generator wires the fetcher, processor and renderer together. It is safe
// for concurrent use.
type Generator struct {
	fetcher   ontology.Fetcher
	processor *ontology.Processor
	renderer  *render.Renderer
	logger    *slog.Logger
}

// New creates a generator from the configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fetcher := source.NewFetcher(cfg.Fetch, source.WithLogger(logger))
	return NewWithFetcher(fetcher, cfg.Process.MaxDerivedFacts, logger)
}

// NewWithFetcher creates a generator around an existing fetcher.
func NewWithFetcher(fetcher ontology.Fetcher, maxDerived int, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	renderer, err := render.New(logger)
	if err != nil {
		return nil, err
	}
	return &Generator{
		fetcher:   fetcher,
		processor: ontology.NewProcessor(fetcher, reasoner.New(maxDerived, logger), logger),
		renderer:  renderer,
		logger:    logger,
	}, nil
}

// Generate fetches, processes and renders req.Source.
func (g *Generator) Generate(ctx context.Context, req Request) (*Output, error) {
	start := time.Now()

	g.logger.Info("Fetching ontology", slog.String("source", req.Source))
	doc, err := g.fetcher.Fetch(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", req.Source, err)
	}

	g.logger.Info("Processing ontology",
		slog.String("format", string(doc.Format)),
		slog.Bool("reasoning", req.Process.UseReasoning),
		slog.Bool("imports", req.Process.IncludeImports || req.Process.IncludeClosure))
	res, err := g.processor.Process(ctx, doc, req.Process)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", req.Source, err)
	}

	d := res.Document()
	if d.Empty() {
		g.logger.Warn("No documented entities found", slog.String("source", req.Source))
	}

	format := req.Render.Format
	if format == "" {
		format = render.FormatHTML
	}
	var buf bytes.Buffer
	if err := g.renderer.Render(&buf, d, req.Render); err != nil {
		return nil, fmt.Errorf("render %s: %w", req.Source, err)
	}

	g.logger.Info("Generated documentation",
		slog.String("source", req.Source),
		slog.String("format", format),
		slog.Int("classes", len(d.Classes)),
		slog.Int("properties", len(d.Properties())),
		slog.Int("individuals", len(d.Individuals)),
		slog.Duration("elapsed", time.Since(start)))

	return &Output{
		Result:   res,
		Document: d,
		Content:  buf.Bytes(),
		Format:   format,
	}, nil
}

// Serialize returns the processed graph in format.
func (o *Output) Serialize(format export.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := export.Serialize(&buf, o.Result.Graph, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
