package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"portfolio-site/pkg/logfields"
)

// ThumbnailOptions controls thumbnail generation
type ThumbnailOptions struct {
	MaxSize int  // longest edge of the thumbnail in pixels
	Force   bool // regenerate thumbnails that already exist
	Quality int  // JPEG quality, 1-100
}

// ThumbnailSummary reports what a generation run did
type ThumbnailSummary struct {
	Images    int
	Generated int
	Skipped   int
	Errors    int
}

// GenerateThumbnails creates <name><thumb marker><ext> next to every JPEG or PNG
// image in the images directory that lacks one. WebP images are skipped because
// they cannot be encoded.
func (s *Service) GenerateThumbnails(opts ThumbnailOptions) (ThumbnailSummary, error) {
	var summary ThumbnailSummary
	if opts.MaxSize <= 0 {
		return summary, fmt.Errorf("max size must be positive, got %d", opts.MaxSize)
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = jpeg.DefaultQuality
	}

	root := s.config.ImagesDir
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			slog.Warn("Skipping unreadable path", logfields.Path(path), logfields.Error(err))
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(d.Name())
		base := strings.TrimSuffix(d.Name(), ext)
		if !s.config.AllowsExtension(ext) || strings.Contains(base, s.config.ThumbMarker) {
			return nil
		}
		summary.Images++

		thumbPath := filepath.Join(filepath.Dir(path), base+s.config.ThumbMarker+ext)
		if _, err := os.Stat(thumbPath); err == nil && !opts.Force {
			summary.Skipped++
			return nil
		}

		if !canEncode(ext) {
			slog.Warn("No thumbnail encoder for format, skipping", logfields.Path(path))
			summary.Skipped++
			return nil
		}

		if err := createThumbnail(path, thumbPath, opts); err != nil {
			slog.Warn("Failed to create thumbnail", logfields.Path(path), logfields.Error(err))
			summary.Errors++
			return nil
		}
		slog.Info("Created thumbnail", logfields.Output(thumbPath))
		summary.Generated++
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return summary, nil
}

// createThumbnail scales src to fit within opts.MaxSize and writes it to dst
// in the source format
func createThumbnail(src, dst string, opts ThumbnailOptions) error {
	format := strings.ToLower(filepath.Ext(src))
	if !canEncode(format) {
		return fmt.Errorf("no encoder for %s images", format)
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := scaleToFit(img, opts.MaxSize)

	var buf bytes.Buffer
	switch format {
	case ".png":
		err = png.Encode(&buf, thumb)
	default:
		err = jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: opts.Quality})
	}
	if err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return writeOutput(dst, buf.Bytes())
}

func canEncode(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// scaleToFit returns img scaled so its longest edge is at most maxSize.
// Images already small enough are returned unchanged.
func scaleToFit(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxSize && height <= maxSize {
		return img
	}

	var newWidth, newHeight int
	if width >= height {
		newWidth = maxSize
		newHeight = max(1, height*maxSize/width)
	} else {
		newHeight = maxSize
		newWidth = max(1, width*maxSize/height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
