package services

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"portfolio-site/pkg/config"
)

// newTestService returns a service whose directories all live under a temp root
func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.ComponentsDir = filepath.Join(root, "components")
	cfg.TemplatesDir = filepath.Join(root, "templates")
	cfg.OutputDir = filepath.Join(root, "site")
	cfg.ImagesDir = filepath.Join(root, "images")
	cfg.DataDir = filepath.Join(root, "data", "galleries")
	cfg.IndexTemplate = filepath.Join(root, "templates", "index_template.html")
	cfg.PortfolioView = filepath.Join(root, "views", "portfolio.pug")

	require.NoError(t, os.MkdirAll(cfg.ImagesDir, 0755))
	return NewService(cfg), root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
