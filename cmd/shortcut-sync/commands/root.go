// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-16

package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	envFile  string
	logLevel string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "shortcut-sync",
	Short: "Link GitHub pull requests to Shortcut stories",
	Long: `shortcut-sync links a pull request to a Shortcut story.

On "opened" it finds the story referenced by the branch name, the PR
description or a PR comment, and creates one when none exists. On
"labeled" it moves the story into the newest started iteration of the
group mapped to the label.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the run.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default .github/shortcut-sync.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Load inputs from this .env file when present")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level debug")
}

// effectiveLogLevel applies the CLI flags over the configured level.
func effectiveLogLevel(configured string) string {
	if verbose {
		return "debug"
	}
	if logLevel != "" {
		return logLevel
	}
	return configured
}
