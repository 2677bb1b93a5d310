package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/hyperway/internal/cli"
	"github.com/aretw0/hyperway/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hyperway",
	Short: "Hyperway is a headless hypermedia runtime",
	Long: `Hyperway loads HTML pages, runs the actions declared in their data attributes
and reconciles server responses into the live document by named frames.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}

// setup loads the config and the logger shared by every command.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, func() error, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, os.Environ())
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	logger, closeLog, err := cli.NewLogger(cfg)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, logger, closeLog, nil
}
