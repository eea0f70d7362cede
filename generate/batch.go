package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/lode/export"
	"github.com/c360studio/lode/render"
	"github.com/c360studio/lode/source/weburl"
)

// ErrBatchFailed is returned when at least one batch source fails.
var ErrBatchFailed = errors.New("batch failed")

// ErrNoMatches is returned when no pattern matches a source.
var ErrNoMatches = errors.New("no sources match")

// ExpandPatterns resolves glob patterns (with ** support) to a sorted,
// de-duplicated list of sources. http(s) URLs are passed through unchanged.
func ExpandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, pattern := range patterns {
		if weburl.IsHTTP(pattern) {
			add(pattern)
			continue
		}
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob error: %w", err)
		}
		for _, m := range matches {
			add(m)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, strings.Join(patterns, " "))
	}
	sort.Strings(out)
	return out, nil
}

// BatchItem is the outcome for one source.
type BatchItem struct {
	Source string
	// Output is the page path, set on success.
	Output string
	Err    error
}

// BatchOptions configure a batch run.
type BatchOptions struct {
	// Request is the template for every source; its Source is replaced.
	Request Request
	OutDir  string
	Workers int
	// Serializations are written as <name>.<ext> next to each page, or as
	// <name>-export.<ext> when that path is one of the sources.
	Serializations []export.Format
}

// Batch renders every source into opts.OutDir using at most opts.Workers
// concurrent runs. A failing source does not stop the others; the returned
// error summarises every failure.
func (g *Generator) Batch(ctx context.Context, sources []string, opts BatchOptions) ([]BatchItem, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	names := OutputNames(sources)
	inputs := sourcePaths(sources)

	items := make([]BatchItem, len(sources))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, src := range sources {
		items[i].Source = src
		if err := ctx.Err(); err != nil {
			items[i].Err = err
			continue
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			items[i].Err = ctx.Err()
			continue
		}

		wg.Add(1)
		go func(i int, src string) {
			defer wg.Done()
			defer func() { <-sem }()

			path, err := g.batchOne(ctx, src, names[i], inputs, opts)
			items[i].Output = path
			items[i].Err = err
			if err != nil {
				g.logger.Error("Batch source failed", slog.String("source", src), slog.String("error", err.Error()))
			}
		}(i, src)
	}
	wg.Wait()

	var errs []error
	for _, item := range items {
		if item.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", item.Source, item.Err))
		}
	}
	g.logger.Info("Batch complete",
		slog.Int("sources", len(items)),
		slog.Int("failed", len(errs)),
		slog.String("out_dir", opts.OutDir))
	if len(errs) > 0 {
		return items, fmt.Errorf("%w: %d of %d sources failed: %w", ErrBatchFailed, len(errs), len(items), errors.Join(errs...))
	}
	return items, nil
}

func (g *Generator) batchOne(ctx context.Context, src, name string, inputs map[string]bool, opts BatchOptions) (string, error) {
	req := opts.Request
	req.Source = src
	out, err := g.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	page := outputPath(opts.OutDir, name, render.Extension(out.Format), inputs)
	if err := writeFile(page, out.Content); err != nil {
		return "", err
	}
	for _, format := range opts.Serializations {
		info, ok := export.GetFormatInfo(format)
		if !ok {
			return page, fmt.Errorf("%w: %q", export.ErrUnsupportedFormat, format)
		}
		data, err := out.Serialize(format)
		if err != nil {
			return page, fmt.Errorf("serialize %s: %w", format, err)
		}
		path := outputPath(opts.OutDir, name, info.Extension, inputs)
		if path != filepath.Join(opts.OutDir, name+info.Extension) {
			g.logger.Warn("Serialization would overwrite a source",
				slog.String("source", src),
				slog.String("path", path))
		}
		if err := writeFile(path, data); err != nil {
			return page, err
		}
	}
	return page, nil
}

// sourcePaths returns the absolute paths of the local sources.
func sourcePaths(sources []string) map[string]bool {
	paths := make(map[string]bool, len(sources))
	for _, src := range sources {
		if weburl.IsHTTP(src) {
			continue
		}
		if abs, err := filepath.Abs(src); err == nil {
			paths[abs] = true
		}
	}
	return paths
}

// outputPath returns dir/name+ext unless that path is a source, in which
// case -export (then -export-2, ...) is appended to name.
func outputPath(dir, name, ext string, inputs map[string]bool) string {
	path := filepath.Join(dir, name+ext)
	for n := 1; isSource(path, inputs); n++ {
		suffix := "-export"
		if n > 1 {
			suffix += "-" + strconv.Itoa(n)
		}
		path = filepath.Join(dir, name+suffix+ext)
	}
	return path
}

func isSource(path string, inputs map[string]bool) bool {
	abs, err := filepath.Abs(path)
	return err == nil && inputs[abs]
}

// OutputNames returns a file stem per source: the base name without
// extension for files and a slug for URLs. Repeated stems get a numeric
// suffix in source order.
func OutputNames(sources []string) []string {
	names := make([]string, len(sources))
	used := make(map[string]bool)
	for i, src := range sources {
		var stem string
		if weburl.IsHTTP(src) {
			stem = weburl.Slug(src)
		} else {
			base := filepath.Base(src)
			stem = strings.TrimSuffix(base, filepath.Ext(base))
		}
		name := stem
		for n := 2; used[name]; n++ {
			name = stem + "-" + strconv.Itoa(n)
		}
		used[name] = true
		names[i] = name
	}
	return names
}
