// Command fieldtool renders, hit-tests and scaffolds field configurations
// without opening a window.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"graphfield/internal/app"
	"graphfield/internal/config"
	"graphfield/internal/mask/opencv"
	"graphfield/internal/version"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "fieldtool",
		Short:         "Inspect graph field configurations",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "field config file (TOML or YAML); built-in defaults when empty")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newRenderCmd(opts),
		newHitCmd(opts),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// loadField builds the field named by --config.
func (o *rootOptions) loadField() (*app.Field, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	return app.NewField(cfg, opencv.LoaderFor(cfg.Field.MaskLoader))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fieldtool %s (built %s, commit %s)\n",
				version.Version, version.BuildTime, version.GitCommit)
		},
	}
}
