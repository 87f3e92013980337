package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"portfolio-site/pkg/config"
	"portfolio-site/pkg/services"
	"portfolio-site/pkg/watcher"
)

// newWatchCmd creates a new command for rebuilding the site on changes
func newWatchCmd() *cobra.Command {
	var (
		opts         services.BuildOptions
		initialBuild bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the site when templates, components or the configuration change",
		Long: `Poll the configuration file, the page templates and the component files and run
a full build whenever one of them changes. A changed configuration is reloaded and
validated first; an invalid configuration is reported and the previous one kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}

			build := func(cfg *config.Config) error {
				return services.NewService(cfg).Build(opts)
			}

			if initialBuild {
				if err := build(cfg); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watcher.New(cfg, build, config.Load).Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&opts.Production, "production", false, "Rewrite internal links without the .html extension")
	cmd.Flags().BoolVar(&opts.SkipGalleries, "pages-only", false, "Render pages without regenerating galleries")
	cmd.Flags().BoolVar(&initialBuild, "initial-build", false, "Build once before watching")

	return cmd
}
