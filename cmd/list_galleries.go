package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-site/pkg/services"
)

// newListGalleriesCmd creates a new command for listing galleries
func newListGalleriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-galleries",
		Short: "List all galleries",
		Long: `List every gallery folder with its category and image count. Galleries without
a cover image are listed but marked as hidden from the portfolio.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			listGalleries(services.NewService(cfg))
			return nil
		},
	}
}

// listGalleries displays all galleries and their image counts
func listGalleries(svc *services.Service) {
	results := svc.CollectGalleries()

	fmt.Println("Galleries:")
	fmt.Println("==========")

	hidden := 0
	for _, result := range results {
		fmt.Printf("  - %s (images: %d)\n", result.Gallery.Title, result.Gallery.ImageCount())
		fmt.Printf("    Folder: %s\n", result.Dir)
		fmt.Printf("    ID: %s\n", result.ID)
		fmt.Printf("    Category: %s\n", result.Gallery.Category)
		if result.Thumb == "" {
			fmt.Println("    Not on portfolio: no images")
			hidden++
		}
	}

	fmt.Println()
	fmt.Printf("Total: %d galleries, %d not on portfolio\n", len(results), hidden)
}
