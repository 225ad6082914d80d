package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/typeterms/typeterms/config"
	"github.com/typeterms/typeterms/document"
	"github.com/typeterms/typeterms/glossary"
)

func buildCmd(configPath, logLevel *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the glossary document from entry files",
		Long: `Build loads every entry YAML file matched by glossary.sources,
validates terms and cross-references, and renders the glossary
document with its table of contents.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath, *logLevel)
			if err != nil {
				return err
			}

			reg, err := glossary.LoadGlobs(cfg.Glossary.Sources)
			if err != nil {
				return fmt.Errorf("load entries: %w", err)
			}

			rendered, err := document.NewRenderer(Version).Render(reg)
			if err != nil {
				return fmt.Errorf("render glossary: %w", err)
			}

			out := cfg.Glossary.Output
			if output != "" {
				out = output
			}
			if err := os.WriteFile(out, []byte(rendered), 0644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			logger.Info("Glossary rendered",
				"entries", reg.Len(),
				"output", out)

			if cfg.NATS.Enabled {
				if err := publishEntries(cmd.Context(), cfg, logger, reg); err != nil {
					logger.Warn("Failed to publish entries", "error", err.Error())
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (overrides glossary.output)")
	return cmd
}

// publishEntries mirrors the loaded entries into the NATS entry bucket.
func publishEntries(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg *glossary.Registry) error {
	nc, store, err := connectStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer nc.Close()

	for _, e := range reg.Entries() {
		if _, err := store.PutEntry(ctx, e); err != nil {
			return fmt.Errorf("publish entry %q: %w", e.Term, err)
		}
	}
	logger.Info("Entries published", "count", reg.Len())
	return nil
}
