package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
)

var version = "dev"

type rootOptions struct {
	catalogPath string
	debug       bool
}

func (o *rootOptions) loadCatalog() (*catalog.Catalog, error) {
	if o.catalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(o.catalogPath)
}

// logger writes to stderr so stdout stays machine-readable.
func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	if !o.debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "arbiterctl",
		Short: "Rank companies with multi-criteria decision analysis",
		Long: `arbiterctl runs the Arbiter ranking engine locally against a file of
alternatives, without a database or event bus.

Supported methods are AHP, TOPSIS, PROMETHEE II, WASPAS, WSM and WPM.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "Path to a criteria catalog YAML file (default: built-in)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging on stderr")

	cmd.AddCommand(newRankCommand(opts))
	cmd.AddCommand(newCriteriaCommand(opts))
	cmd.AddCommand(newMethodsCommand())

	return cmd
}
