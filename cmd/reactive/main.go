package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnatoleLucet/reactive/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "reactive",
		Short: "Replay and inspect the reactive engine",
		Long: `reactive replays the engine's end-to-end scenarios.

It can print their logs, or keep replaying them while serving
Prometheus metrics about tracks, triggers and effect runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default: ./"+config.FileName+" if present)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override log.level from the config")

	rootCmd.AddCommand(
		scenariosCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)

	return rootCmd
}

// load reads the config and builds the logger it describes.
func (f *globalFlags) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}

	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return cfg, logger, nil
}
