package services

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "golang.org/x/image/webp"

	"portfolio-site/pkg/logfields"
	"portfolio-site/pkg/models"
)

var (
	leadingDigitsRegex = regexp.MustCompile(`^\d+[_-]?`)
	versionSuffixRegex = regexp.MustCompile(`[_-]?[vV]\d+$`)
	separatorReplacer  = strings.NewReplacer("_", " ", "-", " ")
)

// FormatAltText turns a file or folder base name into readable text:
// "01_MainEntrance_v2" -> "Main Entrance"
func FormatAltText(text string) string {
	text = leadingDigitsRegex.ReplaceAllString(text, "")
	text = versionSuffixRegex.ReplaceAllString(text, "")
	text = splitCamelCase(text)
	text = separatorReplacer.Replace(text)
	return strings.TrimSpace(text)
}

// AltText strips prefix from base when present, then formats the remainder
func AltText(base, prefix string) string {
	if prefix != "" && strings.HasPrefix(base, prefix) {
		base = base[len(prefix):]
	}
	return FormatAltText(base)
}

// splitCamelCase inserts a space at every a-z to A-Z boundary
func splitCamelCase(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if i > 0 && c >= 'A' && c <= 'Z' {
			prev := text[i-1]
			if prev >= 'a' && prev <= 'z' {
				b.WriteByte(' ')
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ScanImages lists the images directly inside baseFolder/subfolder in filename order.
// Paths in the result are relative to baseFolder. Thumbnails are skipped as entries
// and attached to their source image instead.
func (s *Service) ScanImages(baseFolder, subfolder, prefix string) []models.Image {
	scanPath := baseFolder
	relPrefix := ""
	if subfolder != "" {
		scanPath = filepath.Join(baseFolder, subfolder)
		relPrefix = filepath.ToSlash(subfolder) + "/"
	}

	entries, err := os.ReadDir(scanPath)
	if err != nil {
		slog.Warn("Folder not found", logfields.Path(scanPath), logfields.Error(err))
		return []models.Image{}
	}

	images := make([]models.Image, 0, len(entries))
	for _, entry := range entries {
		filename := entry.Name()
		filePath := filepath.Join(scanPath, filename)

		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			continue
		}

		ext := filepath.Ext(filename)
		base := strings.TrimSuffix(filename, ext)
		if !s.config.AllowsExtension(ext) || strings.Contains(base, s.config.ThumbMarker) {
			continue
		}

		width, height, err := imageSize(filePath)
		if err != nil {
			slog.Warn("Skipping unreadable image",
				logfields.Path(filePath),
				logfields.Section(subfolder),
				logfields.Error(err))
			continue
		}

		src := relPrefix + filename
		thumb := src
		thumbName := base + s.config.ThumbMarker + ext
		if _, err := os.Stat(filepath.Join(scanPath, thumbName)); err == nil {
			thumb = relPrefix + thumbName
		}

		images = append(images, models.Image{
			Src:      src,
			Thumb:    thumb,
			Width:    width,
			Height:   height,
			Alt:      AltText(base, prefix),
			Filename: filename,
		})
	}

	return images
}

// imageSize reads the pixel dimensions from the image header
func imageSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
