package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/lode/config"
	"github.com/c360studio/lode/generate"
)

func batchCmd(opts *rootOptions) *cobra.Command {
	var (
		outDir  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch <pattern>...",
		Short: "Document every ontology matching the patterns",
		Long: `Batch renders each file matching the glob patterns (** is supported)
into the output directory as <name>.html or <name>.md. http(s) URLs are
accepted as patterns and rendered as is. A failing source does not stop
the others.`,
		Example: `  lode batch 'ontologies/**/*.ttl' --out-dir site
  lode batch a.owl b.ttl --format markdown --serialize ttl,jsonld`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), opts.logLevel)

			cfg, err := loadConfig(cmd, opts, logger, func(cfg *config.Config) {
				if cmd.Flags().Changed("out-dir") {
					cfg.Batch.OutDir = outDir
				}
				if cmd.Flags().Changed("workers") {
					cfg.Batch.Workers = workers
				}
			})
			if err != nil {
				return err
			}

			sources, err := generate.ExpandPatterns(args)
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

			items, err := gen.Batch(ctx, sources, generate.BatchOptions{
				Request:        generate.RequestFromConfig("", cfg),
				OutDir:         cfg.Batch.OutDir,
				Workers:        cfg.Batch.Workers,
				Serializations: formats,
			})

			out := cmd.OutOrStdout()
			for _, item := range items {
				if item.Err != nil {
					fmt.Fprintf(out, "FAIL %s: %v\n", item.Source, item.Err)
					continue
				}
				fmt.Fprintf(out, "ok   %s -> %s\n", item.Source, item.Output)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "Output directory (default from config, docs)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent documents (default from config, 4)")
	return cmd
}
