package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/lode/config"
	"github.com/c360studio/lode/generate"
	"github.com/c360studio/lode/server"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var (
		addr         string
		allowPrivate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve documentation over HTTP",
		Long: `Serve renders documentation on request:

  GET /?url=<ontology>&format=html|markdown|ttl|nt|jsonld|rdf&lang=&theme=
  GET /healthz
  GET /metrics

URLs on loopback and private networks are rejected unless --allow-private is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), opts.logLevel)

			cfg, err := loadConfig(cmd, opts, logger, func(cfg *config.Config) {
				if cmd.Flags().Changed("addr") {
					cfg.Server.Addr = addr
				}
				cfg.Fetch.BlockPrivate = !allowPrivate
			})
			if err != nil {
				return err
			}

			gen, err := generate.New(cfg, logger)
			if err != nil {
				return err
			}
			srv, err := server.New(gen, cfg, server.Options{BlockPrivate: !allowPrivate}, logger)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :8000)")
	cmd.Flags().BoolVar(&allowPrivate, "allow-private", false, "Allow ontology URLs on loopback and private networks")
	return cmd
}
