package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-site/pkg/services"
)

// newGenerateGalleriesCmd creates a new command for generating gallery data
func newGenerateGalleriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-galleries",
		Short: "Generate gallery manifests and the home page",
		Long: `Scan the images directory, write one manifest per gallery and render the home
page from the index template with the portfolio markup.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			svc := services.NewService(cfg)

			index, results, err := svc.GenerateGalleries()
			if err != nil {
				return err
			}
			if err := svc.WriteIndexPage(index); err != nil {
				return err
			}

			fmt.Printf("Generated %d galleries in %d categories\n", len(results), len(index.Categories))
			return nil
		},
	}
}
