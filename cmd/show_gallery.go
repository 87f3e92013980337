package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-site/pkg/services"
)

// newShowGalleryCmd creates a new command for showing gallery details
func newShowGalleryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-gallery [folder|id]",
		Short: "Show the images in a specific gallery",
		Long:  `Show the sections and images of a gallery identified by its folder name or manifest id.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			return showGallery(services.NewService(cfg), args[0])
		},
	}
}

// showGallery displays details about a specific gallery
func showGallery(svc *services.Service, name string) error {
	result, err := svc.GetGallery(name)
	if err != nil {
		return err
	}
	gallery := result.Gallery

	fmt.Printf("Gallery: %s\n", gallery.Title)
	fmt.Printf("Folder: %s\n", result.Dir)
	fmt.Printf("ID: %s\n", result.ID)
	fmt.Printf("Category: %s\n", gallery.Category)
	if gallery.Location != "" {
		fmt.Printf("Location: %s\n", gallery.Location)
	}
	if gallery.Video != nil {
		fmt.Printf("Video: %s\n", *gallery.Video)
	}
	if result.Thumb != "" {
		fmt.Printf("Cover: %s\n", result.Thumb)
	}
	fmt.Printf("Images: %d\n", gallery.ImageCount())
	fmt.Println("================")

	for _, section := range gallery.Sections {
		title := section.Title
		if title == "" {
			title = "(main)"
		}
		fmt.Printf("%s\n", title)
		for i, img := range section.Images {
			fmt.Printf("%d. %s (%dx%d)\n", i+1, img.Src, img.Width, img.Height)
			fmt.Printf("   Alt: %s\n", img.Alt)
			if img.Thumb != img.Src {
				fmt.Printf("   Thumbnail: %s\n", img.Thumb)
			}
		}
		fmt.Println()
	}
	return nil
}
