package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/lode/config"
	"github.com/c360studio/lode/export"
	"github.com/c360studio/lode/generate"
	"github.com/c360studio/lode/render"
	"github.com/c360studio/lode/source"
	"github.com/c360studio/lode/source/weburl"
)

// Source selection errors.
var (
	ErrNoSource           = errors.New("must provide either --url or --file")
	ErrConflictingSources = errors.New("cannot specify both --url and --file")
	ErrWatchNeedsFile     = errors.New("--watch requires --file")
)

// rootOptions holds the flag values shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string

	url    string
	file   string
	output string
	watch  bool

	reasoning   bool
	imports     bool
	closure     bool
	lang        string
	format      string
	cssLocation string
	theme       string
	serialize   []string
}

func (o *rootOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.url, "url", "u", "", "Ontology URL")
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Ontology file path")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Output file or directory (default stdout)")
	cmd.Flags().BoolVar(&o.watch, "watch", false, "Regenerate when --file changes")

	pf := cmd.PersistentFlags()
	pf.BoolVar(&o.reasoning, "reasoning", false, "Apply OWL RL reasoning before documenting")
	pf.BoolVar(&o.imports, "imports", false, "Merge directly imported ontologies")
	pf.BoolVar(&o.closure, "closure", false, "Merge the full owl:imports closure")
	pf.StringVar(&o.lang, "lang", "", "Documentation language (en, fr, it, de)")
	pf.StringVar(&o.format, "format", "", "Output format (html, markdown)")
	pf.StringVar(&o.cssLocation, "css-location", "", "Link stylesheets from this location (flag alone uses the LODE stylesheets)")
	pf.Lookup("css-location").NoOptDefVal = render.DefaultCSSLocation
	pf.StringVar(&o.theme, "theme", "", "HTML theme (classic, modern)")
	pf.StringSliceVar(&o.serialize, "serialize", nil, "Graph serializations written in directory mode (ttl, nt, jsonld, rdf)")
}

// source returns the validated --url or --file value.
func (o *rootOptions) source() (string, error) {
	switch {
	case o.url == "" && o.file == "":
		return "", ErrNoSource
	case o.url != "" && o.file != "":
		return "", ErrConflictingSources
	case o.url != "":
		if err := weburl.Validate(o.url, false); err != nil {
			return "", err
		}
		return o.url, nil
	default:
		return o.file, nil
	}
}

// loadConfig loads the layered configuration, applies explicitly set flags
// and then override, and validates the result.
func loadConfig(cmd *cobra.Command, o *rootOptions, logger *slog.Logger, override func(*config.Config)) (*config.Config, error) {
	loader := config.NewLoader(logger)
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = loader.LoadFile(o.configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := o.apply(cmd, cfg); err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// apply copies flags the user set explicitly over cfg.
func (o *rootOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("reasoning") {
		cfg.Process.Reasoning = o.reasoning
	}
	if flags.Changed("imports") {
		cfg.Process.Imports = o.imports
	}
	if flags.Changed("closure") {
		cfg.Process.Closure = o.closure
	}
	if flags.Changed("lang") {
		cfg.Render.Lang = o.lang
	}
	if flags.Changed("format") {
		cfg.Render.Format = o.format
		if o.format == "md" {
			cfg.Render.Format = render.FormatMarkdown
		}
	}
	if flags.Changed("css-location") {
		cfg.Render.CSSLocation = o.cssLocation
	}
	if flags.Changed("theme") {
		cfg.Render.Theme = o.theme
	}
	if flags.Changed("serialize") {
		formats, err := generate.ParseSerializations(o.serialize)
		if err != nil {
			return err
		}
		cfg.Render.Serializations = formatNames(formats)
	}
	return nil
}

func formatNames(formats []export.Format) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = string(f)
	}
	return out
}

func runGenerate(cmd *cobra.Command, o *rootOptions) error {
	logger := newLogger(cmd.ErrOrStderr(), o.logLevel)

	src, err := o.source()
	if err != nil {
		return err
	}
	if o.watch && o.file == "" {
		return ErrWatchNeedsFile
	}

	cfg, err := loadConfig(cmd, o, logger, nil)
	if err != nil {
		return err
	}
	formats, err := generate.ParseSerializations(cfg.Render.Serializations)
	if err != nil {
		return err
	}

	gen, err := generate.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	req := generate.RequestFromConfig(src, cfg)
	if err := generateOnce(ctx, gen, req, o.output, formats, cmd.OutOrStdout()); err != nil {
		return err
	}
	if !o.watch {
		return nil
	}
	return watch(ctx, gen, req, o.output, formats, cmd.OutOrStdout(), logger)
}

func generateOnce(ctx context.Context, gen *generate.Generator, req generate.Request, dest string, formats []export.Format, stdout io.Writer) error {
	out, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}
	_, err = gen.Write(ctx, out, dest, formats, stdout)
	return err
}

// watch regenerates on every change to the source file until ctx is done.
// Regeneration failures are logged and watching continues.
func watch(ctx context.Context, gen *generate.Generator, req generate.Request, dest string, formats []export.Format, stdout io.Writer, logger *slog.Logger) error {
	w, err := source.NewWatcher(req.Source, 0, logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			logger.Info("Regenerating", slog.String("path", ev.Path), slog.String("op", ev.Op.String()))
			if err := generateOnce(ctx, gen, req, dest, formats, stdout); err != nil {
				logger.Error("Regeneration failed", slog.String("error", err.Error()))
			}
		}
	}
}
