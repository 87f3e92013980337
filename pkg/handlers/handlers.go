package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"portfolio-site/pkg/logfields"
	"portfolio-site/pkg/services"
)

// SiteHandler serves the generated site from root. A path without an extension
// is served from <path>.html when that file exists, so extension-free
// production links preview correctly.
func SiteHandler(root string) http.Handler {
	fileServer := http.FileServer(http.Dir(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urlPath := path.Clean("/" + r.URL.Path)
		if urlPath != "/" && path.Ext(urlPath) == "" {
			candidate := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(urlPath, "/"))+".html")
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				http.ServeFile(w, r, candidate)
				return
			}
		}
		fileServer.ServeHTTP(w, r)
	})
}

// FeedHandler serves the site index as JSON
func FeedHandler(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		slog.Debug("Generating feed")
		writeJSON(w, svc.SiteIndex())
	}
}

// GalleryHandler serves a freshly assembled gallery manifest for the id or
// folder named after the route prefix
func GalleryHandler(svc *services.Service, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix), ".json")
		if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
			http.NotFound(w, r)
			return
		}

		result, err := svc.GetGallery(name)
		if err != nil {
			slog.Info("Gallery not found", logfields.Gallery(name))
			http.NotFound(w, r)
			return
		}
		slog.Debug("Generating gallery", logfields.Gallery(result.Dir))
		writeJSON(w, result.Gallery.Manifest())
	}
}

// PortfolioHandler renders the portfolio markup alone for previewing the view
func PortfolioHandler(svc *services.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write([]byte(svc.RenderPortfolio(svc.SiteIndex()))); err != nil {
			slog.Debug("Error writing response", logfields.Error(err))
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Error marshaling response", logfields.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		slog.Debug("Error writing response", logfields.Error(err))
	}
}
