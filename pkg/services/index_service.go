package services

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/eknkc/pug"

	"portfolio-site/pkg/logfields"
	"portfolio-site/pkg/models"
)

const siteIndexCacheKey = "site-index"

// BuildSiteIndex groups galleries with a resolvable cover by category.
// Categories follow the configured priority list, then the rest alphabetically.
// Within a category galleries are ordered by folder name, numbers compared numerically.
func (s *Service) BuildSiteIndex(results []GalleryResult) *models.SiteIndex {
	byCategory := make(map[string][]models.IndexEntry)
	for _, result := range results {
		if result.Thumb == "" {
			continue
		}
		g := result.Gallery
		byCategory[g.Category] = append(byCategory[g.Category], models.IndexEntry{
			ID:       result.ID,
			Folder:   result.Dir,
			Title:    g.Title,
			Location: g.Location,
			URL:      s.galleryViewURL(result.ID),
			Thumb:    result.Thumb,
		})
	}

	index := &models.SiteIndex{Categories: []models.Category{}}
	for _, name := range orderCategories(byCategory, s.config.CategoryOrder) {
		entries := byCategory[name]
		sort.SliceStable(entries, func(i, j int) bool {
			return naturalLess(entries[i].Folder, entries[j].Folder)
		})
		slog.Debug("Category assembled", logfields.Category(name), logfields.Count(len(entries)))
		index.Categories = append(index.Categories, models.Category{Name: name, Entries: entries})
	}
	return index
}

func (s *Service) galleryViewURL(id string) string {
	return fmt.Sprintf("%s?id=%s", s.config.GalleryViewURL, id)
}

// orderCategories returns the priority categories that are present, then the others sorted
func orderCategories(present map[string][]models.IndexEntry, priority []string) []string {
	ordered := make([]string, 0, len(present))
	known := make(map[string]bool, len(priority))
	for _, name := range priority {
		known[name] = true
		if _, ok := present[name]; ok {
			ordered = append(ordered, name)
		}
	}

	var others []string
	for name := range present {
		if !known[name] {
			others = append(others, name)
		}
	}
	sort.Strings(others)
	return append(ordered, others...)
}

// SiteIndex returns the index of the last generation, assembling it when none is cached
func (s *Service) SiteIndex() *models.SiteIndex {
	if cached, found := s.cache.Get(siteIndexCacheKey); found {
		slog.Debug("Using cached site index")
		return cached.(*models.SiteIndex)
	}
	index := s.BuildSiteIndex(s.CollectGalleries())
	s.cache.SetDefault(siteIndexCacheKey, index)
	return index
}

// RenderPortfolio produces the portfolio markup for the home page. The configured
// pug view is used when present, otherwise the built-in markup.
func (s *Service) RenderPortfolio(index *models.SiteIndex) string {
	view := s.config.PortfolioView
	if view == "" {
		return renderPortfolio(index)
	}

	source, err := os.ReadFile(view)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("Portfolio view unreadable, using built-in markup", logfields.Path(view), logfields.Error(err))
		}
		return renderPortfolio(index)
	}

	out, err := renderPugView(string(source), index)
	if err != nil {
		slog.Warn("Portfolio view failed, using built-in markup", logfields.Path(view), logfields.Error(err))
		return renderPortfolio(index)
	}
	return out
}

// renderPugView compiles the view from source so its location does not matter
func renderPugView(source string, index *models.SiteIndex) (string, error) {
	tpl, err := pug.CompileString(source, pug.Options{})
	if err != nil {
		return "", fmt.Errorf("compile: %w", err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, models.Index{Categories: index.Categories}); err != nil {
		return "", fmt.Errorf("execute: %w", err)
	}
	return buf.String(), nil
}

// renderPortfolio writes the built-in portfolio markup
func renderPortfolio(index *models.SiteIndex) string {
	var b strings.Builder
	for _, category := range index.Categories {
		fmt.Fprintf(&b, "\n<h3 class=\"section__subtitle--gallery\">%s</h3>\n", html.EscapeString(category.Name))
		b.WriteString("<div class=\"portfolio\">\n")
		for _, entry := range category.Entries {
			title := html.EscapeString(entry.Title)
			fmt.Fprintf(&b, `
            <a href="%s" class="portfolio__item">
                <img src="%s" alt="%s" class="portfolio__img"/>
                <p class="portfolio__item_alt">
                    %s
                    <br>
                    <span style="font-size: 0.8em; font-weight: normal;">%s</span>
                </p>
            </a>
            `, html.EscapeString(entry.URL), html.EscapeString(entry.Thumb), title, title, html.EscapeString(entry.Location))
		}
		b.WriteString("</div>\n")
	}
	return b.String()
}

// WriteIndexPage writes the home page from the index template with only the
// portfolio marker substituted. A missing template is reported, not returned.
func (s *Service) WriteIndexPage(index *models.SiteIndex) error {
	data, err := os.ReadFile(s.config.IndexTemplate)
	if err != nil {
		slog.Error("Index template not found", logfields.Template(s.config.IndexTemplate), logfields.Error(err))
		return nil
	}

	page := strings.ReplaceAll(string(data), s.config.PortfolioMarker, s.RenderPortfolio(index))
	target := s.config.OutputPath(s.config.IndexOutput)
	if err := writeOutput(target, []byte(page)); err != nil {
		return err
	}

	slog.Info("Generated index page", logfields.Output(target), logfields.Count(len(index.Categories)))
	return nil
}
