package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typeterms/typeterms/importer"
)

func importCmd(configPath, logLevel *string) *cobra.Command {
	var draftsDir string

	cmd := &cobra.Command{
		Use:   "import <url>",
		Short: "Draft a glossary entry from a web page",
		Long: `Import fetches an HTTPS page, extracts the readable article,
converts it to markdown, and writes a draft entry YAML file. The page
title becomes the term and the markdown the definition skeleton; edit
the draft before moving it into the entry sources.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath, *logLevel)
			if err != nil {
				return err
			}

			pageURL := args[0]
			dir := cfg.Importer.DraftsDir
			if draftsDir != "" {
				dir = draftsDir
			}

			imp := importer.New(cfg.Importer.Timeout)
			entry, err := imp.Draft(cmd.Context(), pageURL)
			if err != nil {
				return fmt.Errorf("draft entry: %w", err)
			}

			path, err := importer.WriteDraft(dir, entry)
			if err != nil {
				return err
			}

			logger.Info("Draft written",
				"term", entry.Term,
				"path", path)
			fmt.Printf("Drafted %q -> %s\n", entry.Term, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&draftsDir, "drafts-dir", "", "Drafts directory (overrides importer.drafts_dir)")
	return cmd
}
