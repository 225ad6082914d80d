package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/typeterms/typeterms/glossary"
	"github.com/typeterms/typeterms/lint"
	"github.com/typeterms/typeterms/server"
)

func serveCmd(configPath, logLevel *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the glossary API",
		Long: `Serve loads the glossary entries and exposes them over HTTP:

  GET  /api/terms           list entries
  GET  /api/terms/{anchor}  one entry, by term, alias, or anchor
  GET  /api/report          latest lint report
  POST /api/lint            run the lint rules
  GET  /metrics             Prometheus metrics
  GET  /healthz             health check

When NATS storage is enabled, lint reports are persisted and survive
restarts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath, *logLevel)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			reg, err := glossary.LoadGlobs(cfg.Glossary.Sources)
			if err != nil {
				return fmt.Errorf("load entries: %w", err)
			}

			checker, err := lint.NewChecker(lint.Config{Rules: cfg.Lint.Rules}, logger)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			var store server.ReportStore
			if cfg.NATS.Enabled {
				nc, s, err := connectStore(ctx, cfg, logger)
				if err != nil {
					return err
				}
				defer nc.Close()
				store = s
			}

			srv := server.New(server.Options{
				Addr:      cfg.Server.Addr,
				Registry:  reg,
				Checker:   checker,
				Documents: cfg.Lint.Documents,
				Store:     store,
				Logger:    logger,
			})

			logger.Info("Serving glossary",
				"entries", reg.Len(),
				"addr", cfg.Server.Addr)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}
