package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/beanport-dev/beanport/internal/buildinfo"
	"github.com/beanport-dev/beanport/internal/config"
	"github.com/beanport-dev/beanport/internal/importer"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "beanport",
		Short:   "Statement ingestion for plain-text ledgers",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "beanport.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newIdentifyCommand(&configPath, &verbose))
	rootCmd.AddCommand(newExtractCommand(&configPath, &verbose))

	return rootCmd
}

// newLogger builds the logger commands share. Diagnostics go to stderr so
// extract output on stdout stays clean ledger text.
func newLogger(verbose bool) *log.Logger {
	logger := log.New(os.Stderr)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// buildRegistry loads the config and assembles the importer registry.
func buildRegistry(configPath string, logger *log.Logger) (*importer.Registry, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg.Build(logger)
}
