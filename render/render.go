// Package render turns a documentation model into an HTML page or a
// Markdown document, localised and themed.
package render

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	"github.com/c360studio/lode/config"
	"github.com/c360studio/lode/model"
)

// Output formats.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// ErrUnsupportedFormat is returned for an output format other than html or
// markdown.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// LodeURL is linked from the page footer.
const LodeURL = "https://github.com/essepuntato/LODE"

// Options control language, theme and stylesheet selection.
type Options struct {
	Format string
	Lang   string
	Theme  string
	// CSSLocation, when set, adds <link> elements for the theme's
	// stylesheets in addition to the inlined CSS. A value ending in ".css"
	// is linked as is; anything else is treated as a directory.
	CSSLocation string
	// Generator names the tool in the page footer.
	Generator string
}

// OptionsFromConfig maps the render section of the configuration.
func OptionsFromConfig(cfg config.RenderConfig) Options {
	return Options{
		Format:      cfg.Format,
		Lang:        cfg.Lang,
		Theme:       cfg.Theme,
		CSSLocation: cfg.CSSLocation,
	}
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = FormatHTML
	}
	if o.Lang == "" {
		o.Lang = model.DefaultLang
	}
	if _, ok := themeFiles[o.Theme]; !ok {
		o.Theme = ThemeClassic
	}
	if o.Generator == "" {
		o.Generator = "lode"
	}
	return o
}

// Extension returns the file extension, with dot, for an output format.
func Extension(format string) string {
	if format == FormatMarkdown {
		return ".md"
	}
	return ".html"
}

// ContentType returns the MIME type for an output format.
func ContentType(format string) string {
	if format == FormatMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "text/html; charset=utf-8"
}

// Renderer renders documents. It is safe for concurrent use.
type Renderer struct {
	page      *template.Template
	converter *md.Converter
	logger    *slog.Logger
}

// New creates a renderer with the embedded page template.
func New(logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	page, err := template.ParseFS(templateFS, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &Renderer{
		page:      page,
		converter: converter,
		logger:    logger,
	}, nil
}

// Render writes doc in opts.Format.
func (r *Renderer) Render(w io.Writer, doc *model.Document, opts Options) error {
	opts = opts.withDefaults()
	switch opts.Format {
	case FormatHTML:
		return r.HTML(w, doc, opts)
	case FormatMarkdown:
		return r.Markdown(w, doc, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}
}
