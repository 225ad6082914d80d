package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/typeterms/typeterms/config"
	"github.com/typeterms/typeterms/lint"
)

func lintCmd(configPath, logLevel *string) *cobra.Command {
	var (
		watch  bool
		format string
		rules  []string
	)

	cmd := &cobra.Command{
		Use:   "lint [patterns...]",
		Short: "Check glossary documents",
		Long: `Lint checks glossary documents: table-of-contents links must
resolve to headings, cross-references must resolve to entries, anchors
must be unique, fences must carry language tags, TypeScript examples
must parse, and entries must stay alphabetized within their section.

Positional glob patterns override lint.documents from the config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath, *logLevel)
			if err != nil {
				return err
			}

			if format != "" {
				cfg.Lint.Format = format
			}
			if cfg.Lint.Format != "text" && cfg.Lint.Format != "json" {
				return fmt.Errorf("unknown format %q", cfg.Lint.Format)
			}
			if len(rules) > 0 {
				cfg.Lint.Rules = rules
			}
			documents := cfg.Lint.Documents
			if len(args) > 0 {
				documents = args
			}

			checker, err := lint.NewChecker(lint.Config{Rules: cfg.Lint.Rules}, logger)
			if err != nil {
				return err
			}

			if watch {
				return runLintWatch(cmd.Context(), cfg, logger, checker, documents)
			}

			report, err := runLintOnce(cmd.Context(), cfg, logger, checker, documents)
			if err != nil {
				return err
			}
			if report.HasErrors() {
				errs, _ := report.Counts()
				return fmt.Errorf("lint found %d error(s)", errs)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-run on file changes")
	cmd.Flags().StringVar(&format, "format", "", "Output format: text or json (overrides lint.format)")
	cmd.Flags().StringSliceVar(&rules, "rules", nil, "Rules to run (default: all)")
	return cmd
}

// runLintOnce runs one lint pass, prints the report, and persists it
// when NATS storage is enabled.
func runLintOnce(ctx context.Context, cfg *config.Config, logger *slog.Logger, checker *lint.Checker, documents []string) (*lint.Report, error) {
	report, err := checker.CheckGlobs(ctx, documents)
	if err != nil {
		return nil, err
	}

	switch cfg.Lint.Format {
	case "json":
		data, err := report.JSON()
		if err != nil {
			return nil, fmt.Errorf("encode report: %w", err)
		}
		fmt.Println(string(data))
	default:
		fmt.Print(report.Text())
	}

	if cfg.NATS.Enabled {
		nc, store, err := connectStore(ctx, cfg, logger)
		if err != nil {
			logger.Warn("Failed to persist report", "error", err.Error())
			return report, nil
		}
		defer nc.Close()
		if _, err := store.SaveReport(ctx, report); err != nil {
			logger.Warn("Failed to persist report",
				"report_id", report.ID,
				"error", err.Error())
		}
	}

	return report, nil
}

// runLintWatch lints once, then re-lints on debounced file changes until
// interrupted.
func runLintWatch(ctx context.Context, cfg *config.Config, logger *slog.Logger, checker *lint.Checker, documents []string) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if _, err := runLintOnce(ctx, cfg, logger, checker, documents); err != nil {
		return err
	}

	watcher, err := lint.NewWatcher(cfg.Watch, ".", logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Watch stopped")
			return nil
		case event, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			logger.Info("Files changed, re-linting", "changed", len(event.Paths))
			if _, err := runLintOnce(ctx, cfg, logger, checker, documents); err != nil {
				logger.Error("Lint run failed", "error", err.Error())
			}
		}
	}
}
