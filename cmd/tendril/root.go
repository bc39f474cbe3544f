package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/tendril/internal/cli"
	"github.com/aretw0/tendril/internal/config"
	"github.com/spf13/cobra"
)

// Populated by the root PersistentPreRunE before any subcommand runs.
var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tendril",
	Short: "Tendril is a predictable state container",
	Long: `Tendril keeps application state in a single store changed only by
dispatched actions. The CLI drives the counter, todos, posts and users slices
against a REST API, and exposes the store over HTTP and MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("log-level") {
			loaded.LogLevel, _ = flags.GetString("log-level")
		}
		if flags.Changed("api") {
			loaded.API.BaseURL, _ = flags.GetString("api")
		}

		l, err := cli.NewLogger(loaded.LogLevel)
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "tendril.yaml", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("api", "", "Base URL of the REST API (overrides api.base_url)")
}
