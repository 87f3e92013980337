package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"portfolio-site/pkg/services"
)

// newPublishCmd creates a new command for uploading the site to a bucket
func newPublishCmd() *cobra.Command {
	var (
		opts  services.PublishOptions
		build bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the generated site to Google Cloud Storage",
		Long: `Upload the generated pages, gallery manifests and images to a Cloud Storage
bucket. Objects whose content already matches are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			svc := services.NewService(cfg)

			if build {
				if err := svc.Build(services.BuildOptions{Production: opts.CleanURLs}); err != nil {
					return err
				}
			}

			opts.Bucket = cfg.Bucket
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			summary, err := svc.Publish(ctx, opts)
			if err != nil {
				return err
			}

			fmt.Printf("\nSummary:\n")
			fmt.Printf("  Files: %d\n", summary.Files)
			fmt.Printf("  Uploaded: %d\n", summary.Uploaded)
			fmt.Printf("  Unchanged: %d\n", summary.Unchanged)
			fmt.Printf("  Missing: %d\n", summary.Missing)
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucketName, "bucket", "b", "", "Set the BUCKET_NAME (overrides environment variable)")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "Object name prefix inside the bucket")
	cmd.Flags().BoolVar(&opts.CleanURLs, "clean-urls", false, "Store HTML pages without the .html extension")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "List what would be uploaded without uploading")
	cmd.Flags().BoolVar(&build, "build", false, "Build the site before publishing")

	return cmd
}
