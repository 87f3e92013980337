package cmd

import (
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"portfolio-site/pkg/config"
	"portfolio-site/pkg/handlers"
	"portfolio-site/pkg/logfields"
	"portfolio-site/pkg/services"
)

// newServeCmd creates a new command for previewing the generated site
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server",
		Long: `Serve the generated site over HTTP. Extension-free links resolve to their .html
pages so production builds preview correctly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			return serveWebsite(services.NewService(cfg))
		},
	}

	cmd.Flags().StringVarP(&portNumber, "port", "p", "", "Set the PORT (overrides environment variable)")
	return cmd
}

// newMux wires the preview routes
func newMux(cfg *config.Config, svc *services.Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", handlers.SiteHandler(cfg.OutputDir))
	mux.HandleFunc("/data/site-index.json", handlers.FeedHandler(svc))
	mux.HandleFunc("/api/galleries/", handlers.GalleryHandler(svc, "/api/galleries/"))
	mux.HandleFunc("/api/portfolio", handlers.PortfolioHandler(svc))
	return mux
}

// serveWebsite runs the web server for the generated site
func serveWebsite(svc *services.Service) error {
	cfg := svc.Config()
	cfg.PrintServerStartMessage()
	if err := http.ListenAndServe(cfg.ServerAddress(), newMux(cfg, svc)); err != nil {
		slog.Error("Server error", logfields.Error(err))
		return err
	}
	return nil
}
