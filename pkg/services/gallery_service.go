package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"portfolio-site/pkg/logfields"
	"portfolio-site/pkg/models"
)

// DefaultCategory is used when a gallery's metadata names none
const DefaultCategory = "Uncategorized"

// GalleryResult is an assembled gallery together with its manifest id and resolved cover
type GalleryResult struct {
	Dir     string // folder name under the images directory
	ID      string
	Gallery *models.Gallery
	Thumb   string // cover thumbnail URL, empty when none resolves
}

// ManifestFile returns the manifest filename for the gallery
func (r GalleryResult) ManifestFile() string {
	return r.ID + ".json"
}

// BuildGallery assembles the gallery stored in imagesDir/folder.
// It returns nil when the folder does not exist or is not a directory.
func (s *Service) BuildGallery(folder string) *models.Gallery {
	root := filepath.Join(s.config.ImagesDir, folder)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil
	}

	slog.Info("Processing gallery", logfields.Gallery(folder))

	gallery := &models.Gallery{
		URL:      strings.ToLower(folder),
		Title:    strings.ReplaceAll(folder, "_", " "),
		Category: DefaultCategory,
		Folder:   folder,
		Sections: []models.Section{},
	}

	s.applyMetadata(gallery, root, folder)

	entries, err := os.ReadDir(root)
	if err != nil {
		slog.Warn("Failed to list gallery folder", logfields.Gallery(folder), logfields.Error(err))
		return gallery
	}

	videoExt := strings.ToLower(s.config.VideoExtension)
	for _, entry := range entries {
		if strings.HasSuffix(strings.ToLower(entry.Name()), videoExt) {
			video := entry.Name()
			gallery.Video = &video
			break
		}
	}

	prefix := gallery.ImagePrefix
	processed := make(map[string]bool)

	if rootImages := s.ScanImages(root, "", prefix); len(rootImages) > 0 {
		gallery.Sections = append(gallery.Sections, models.Section{Title: "", Images: rootImages})
	}

	for _, sub := range gallery.Subsections {
		var images []models.Image
		for _, subfolder := range sub.Folders {
			images = append(images, s.ScanImages(root, subfolder, prefix)...)
			processed[subfolder] = true
		}
		if len(images) > 0 {
			gallery.Sections = append(gallery.Sections, models.Section{Title: sub.Title, Images: images})
		}
	}

	for _, entry := range entries {
		name := entry.Name()
		if processed[name] {
			continue
		}
		if info, err := os.Stat(filepath.Join(root, name)); err != nil || !info.IsDir() {
			continue
		}
		if images := s.ScanImages(root, name, prefix); len(images) > 0 {
			gallery.Sections = append(gallery.Sections, models.Section{
				Title:  FormatAltText(name),
				Images: images,
			})
		}
	}

	return gallery
}

// applyMetadata merges the optional metadata file over the defaults.
// A malformed file is reported and ignored.
func (s *Service) applyMetadata(gallery *models.Gallery, root, folder string) {
	metadataPath := filepath.Join(root, s.config.MetadataFile)
	data, err := os.ReadFile(metadataPath)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read metadata", logfields.Gallery(folder), logfields.Error(err))
		}
		return
	}

	var meta models.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		slog.Warn("Malformed metadata, using defaults", logfields.Gallery(folder), logfields.Path(metadataPath), logfields.Error(err))
		return
	}
	meta.Apply(gallery)
}

// ManifestID returns the id used for the manifest filename and the gallery-view link
func ManifestID(gallery *models.Gallery, dir string) string {
	target := gallery.URL
	if target == "" {
		target = strings.ToLower(dir)
	}
	if !strings.HasSuffix(strings.ToLower(target), ".json") {
		target += ".json"
	}
	return strings.ReplaceAll(target, ".json", "")
}

// ResolveCover finds the thumbnail of the gallery's cover image.
// The first section containing a match ends the search; without a configured
// or matching cover the first image found is used. Returns "" for a gallery with no images.
func (s *Service) ResolveCover(gallery *models.Gallery, dir string) string {
	var first *models.Image

	cover := norm.NFC.String(gallery.CoverImage)
	for si := range gallery.Sections {
		for ii := range gallery.Sections[si].Images {
			img := &gallery.Sections[si].Images[ii]
			if first == nil {
				first = img
			}
			if cover == "" {
				break
			}
			if strings.Contains(norm.NFC.String(img.Src), cover) || strings.Contains(norm.NFC.String(img.Filename), cover) {
				return s.imageURL(dir, img.Thumb)
			}
		}
		if cover == "" && first != nil {
			break
		}
	}

	if first == nil {
		return ""
	}
	if cover != "" {
		slog.Debug("Cover image not found, using first image",
			logfields.Gallery(dir),
			slog.String("cover_image", gallery.CoverImage))
	}
	return s.imageURL(dir, first.Thumb)
}

func (s *Service) imageURL(dir, rel string) string {
	return path.Join(s.config.ImagesURLPrefix, dir, rel)
}

// galleryDirs lists the folders of the images directory in name order
func (s *Service) galleryDirs() []string {
	entries, err := os.ReadDir(s.config.ImagesDir)
	if err != nil {
		slog.Warn("Images directory not found", logfields.Path(s.config.ImagesDir), logfields.Error(err))
		return nil
	}

	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		dirs = append(dirs, entry.Name())
	}
	return dirs
}

// CollectGalleries assembles every gallery without writing anything
func (s *Service) CollectGalleries() []GalleryResult {
	var results []GalleryResult
	for _, dir := range s.galleryDirs() {
		gallery := s.BuildGallery(dir)
		if gallery == nil {
			continue
		}
		results = append(results, GalleryResult{
			Dir:     dir,
			ID:      ManifestID(gallery, dir),
			Gallery: gallery,
			Thumb:   s.ResolveCover(gallery, dir),
		})
	}
	return results
}

// GetGallery assembles a single gallery by folder name or manifest id
func (s *Service) GetGallery(name string) (GalleryResult, error) {
	if gallery := s.BuildGallery(name); gallery != nil {
		return GalleryResult{
			Dir:     name,
			ID:      ManifestID(gallery, name),
			Gallery: gallery,
			Thumb:   s.ResolveCover(gallery, name),
		}, nil
	}
	for _, result := range s.CollectGalleries() {
		if result.ID == name {
			return result, nil
		}
	}
	return GalleryResult{}, fmt.Errorf("gallery not found: %s", name)
}

// GenerateGalleries writes one manifest per gallery and returns the site index.
// Only manifest write failures are returned.
func (s *Service) GenerateGalleries() (*models.SiteIndex, []GalleryResult, error) {
	results := s.CollectGalleries()
	for _, result := range results {
		if err := s.WriteManifest(result); err != nil {
			return nil, nil, err
		}
	}
	index := s.BuildSiteIndex(results)
	s.cache.SetDefault(siteIndexCacheKey, index)
	return index, results, nil
}

// WriteManifest persists the stripped gallery document
func (s *Service) WriteManifest(result GalleryResult) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Gallery.Manifest()); err != nil {
		return fmt.Errorf("failed to encode manifest for %s: %w", result.Dir, err)
	}

	target := filepath.Join(s.config.DataDir, filepath.FromSlash(result.ManifestFile()))
	if err := writeOutput(target, bytes.TrimRight(buf.Bytes(), "\n")); err != nil {
		return err
	}

	slog.Info("Generated manifest",
		logfields.Gallery(result.Dir),
		logfields.Output(target),
		slog.Int("sections", len(result.Gallery.Sections)))
	return nil
}
