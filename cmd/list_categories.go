package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-site/pkg/services"
)

// newListCategoriesCmd creates a new command for listing categories
func newListCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-categories",
		Short: "List all portfolio categories",
		Long:  `List the portfolio categories in display order with the number of galleries in each.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			listCategories(services.NewService(cfg))
			return nil
		},
	}
}

// listCategories displays all categories and their gallery counts
func listCategories(svc *services.Service) {
	categories := svc.SiteIndex().Categories

	fmt.Println("Portfolio Categories:")
	fmt.Println("=====================")

	for _, category := range categories {
		fmt.Printf("%s\n", category.Name)
		fmt.Printf("  Galleries: %d\n", len(category.Entries))
		fmt.Println()
	}

	fmt.Printf("Total: %d categories\n", len(categories))
}
