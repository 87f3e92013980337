package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-site/pkg/services"
)

// newGenerateThumbnailsCmd creates a new command for generating image thumbnails
func newGenerateThumbnailsCmd() *cobra.Command {
	opts := services.ThumbnailOptions{}

	cmd := &cobra.Command{
		Use:   "generate-thumbnails",
		Short: "Generate thumbnails for images without existing thumbnails",
		Long: `Generate scaled-down thumbnails next to gallery images that don't have one.
Thumbnails are written in the source format; WebP images are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}

			summary, err := services.NewService(cfg).GenerateThumbnails(opts)
			if err != nil {
				return err
			}

			fmt.Printf("\nSummary:\n")
			fmt.Printf("  Total images: %d\n", summary.Images)
			fmt.Printf("  Thumbnails generated: %d\n", summary.Generated)
			fmt.Printf("  Skipped: %d\n", summary.Skipped)
			fmt.Printf("  Errors: %d\n", summary.Errors)
			return nil
		},
	}

	// Add command-specific flags
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Force regeneration of all thumbnails, even if they exist")
	cmd.Flags().IntVarP(&opts.MaxSize, "max-size", "m", 600, "Longest thumbnail edge in pixels")
	cmd.Flags().IntVarP(&opts.Quality, "quality", "q", 85, "JPEG quality (1-100)")

	return cmd
}
