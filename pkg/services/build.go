package services

import (
	"log/slog"
	"time"

	"portfolio-site/pkg/logfields"
)

// BuildOptions controls a full site build
type BuildOptions struct {
	Production bool
	// SkipGalleries builds pages only, leaving manifests and the portfolio untouched
	SkipGalleries bool
}

// Build generates gallery manifests and the site index, then renders every page
// with the shared components and the portfolio markup.
func (s *Service) Build(opts BuildOptions) error {
	start := time.Now()
	s.ResetFragments()

	var extra []Fragment
	if !opts.SkipGalleries {
		index, results, err := s.GenerateGalleries()
		if err != nil {
			return err
		}
		slog.Info("Galleries generated", logfields.Count(len(results)), slog.Int("categories", len(index.Categories)))
		extra = append(extra, Fragment{
			Marker:  s.config.PortfolioMarker,
			Name:    "portfolio",
			Content: s.RenderPortfolio(index),
		})
	}

	if err := s.BuildPages(opts.Production, extra...); err != nil {
		return err
	}

	slog.Info("Build complete",
		slog.Bool("production", opts.Production),
		slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000))
	return nil
}
