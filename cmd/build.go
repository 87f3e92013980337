package cmd

import (
	"github.com/spf13/cobra"

	"portfolio-site/pkg/services"
)

// newBuildCmd creates a new command for building the site
func newBuildCmd() *cobra.Command {
	var opts services.BuildOptions

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the site",
		Long: `Generate the gallery manifests and the portfolio index, then render every page
with the shared components. Production builds rewrite internal links without the
.html extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			return services.NewService(cfg).Build(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Production, "production", false, "Rewrite internal links without the .html extension")
	cmd.Flags().BoolVar(&opts.SkipGalleries, "pages-only", false, "Render pages without regenerating galleries")

	return cmd
}
