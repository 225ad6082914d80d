// Package main provides the typeterms binary entry point.
// Typeterms maintains a prose glossary of TypeScript type-system
// terminology: entries live as YAML files, the glossary document is
// rendered from them, and lint rules keep the document's links,
// anchors, and code examples honest.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/typeterms/typeterms/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "typeterms"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "typeterms",
		Short: "TypeScript type-system glossary toolchain",
		Long: `Typeterms maintains a glossary of TypeScript type-system terminology.

It provides:
- build: render the glossary document from entry YAML files
- lint: check TOC links, cross-references, anchors, and code examples
- import: draft a new entry from a web page
- serve: expose the glossary and lint reports over HTTP

Entries are plain YAML files; the rendered document is plain markdown.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(buildCmd(&configPath, &logLevel))
	cmd.AddCommand(lintCmd(&configPath, &logLevel))
	cmd.AddCommand(importCmd(&configPath, &logLevel))
	cmd.AddCommand(serveCmd(&configPath, &logLevel))

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// setup configures logging and loads the layered configuration.
func setup(configPath, logLevel string) (*config.Config, *slog.Logger, error) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	loader := config.NewLoader(logger)

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = loader.LoadPath(configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, logger, nil
}
