// Package main provides the rollctx CLI application.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rollctx/rollctx/config"
	"github.com/rollctx/rollctx/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rollctx",
	Short: "Rolling context window manager for transcript logs",
	Long: `rollctx keeps append-only conversation transcripts bounded.

It trims the oldest records from a transcript while keeping
tool-invocation/tool-result pairs intact and parent references valid,
splices in a generated summary of the removed portion, and snapshots the
original file before every change.`,
	Version:       version.FullString(),
	SilenceUsage:  true,
	SilenceErrors: false,
}

// rootFlags holds the persistent flags shared by all subcommands.
type rootFlags struct {
	config  string
	verbose bool
}

var rootOpts rootFlags

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.config, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.verbose, "verbose", "v", false, "Verbose output")
}

// newLogger builds the CLI logger, honoring --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if rootOpts.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads the configuration honoring --config.
func loadConfig() (*config.Config, error) {
	if rootOpts.config != "" {
		return config.Load(rootOpts.config)
	}
	return config.LoadDefault()
}
