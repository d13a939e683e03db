package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/udisondev/proficiency/internal/config"
)

const defaultConfigPath = "config/proficiency.yaml"

// options shared by all subcommands.
type options struct {
	configPath string
	coreDir    string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "profctl",
		Short:        "Inspect and validate weapon proficiency definitions",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"server config file (default: $PROF_CONFIG or "+defaultConfigPath+")")
	root.PersistentFlags().StringVarP(&opts.coreDir, "core-dir", "d", "",
		"core data directory (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"log unrecognized tokens and other debug output")

	root.AddCommand(
		newValidateCmd(opts),
		newShowCmd(opts),
		newItemCmd(opts),
		newTokensCmd(),
	)
	return root
}

// coreDirectory resolves the core directory: flag, then config file/env.
func (o *options) coreDirectory() (string, error) {
	if o.coreDir != "" {
		return o.coreDir, nil
	}

	path := o.configPath
	if path == "" {
		path = defaultConfigPath
		if p := os.Getenv("PROF_CONFIG"); p != "" {
			path = p
		}
	}
	cfg, err := config.LoadServer(path)
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	return cfg.CoreDirectory, nil
}
