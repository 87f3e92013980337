package services

import (
	"context"
	"crypto/md5"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-site/pkg/config"
)

func TestObjectName(t *testing.T) {
	testCases := []struct {
		name     string
		prefix   string
		rel      string
		clean    bool
		expected string
	}{
		{"plain", "", "pages/contact.html", false, "pages/contact.html"},
		{"clean", "", "pages/contact.html", true, "pages/contact"},
		{"index kept", "", "index.html", true, "index.html"},
		{"not found kept", "", "404.html", true, "404.html"},
		{"dot prefix", "", "./images/Clinic/a.png", false, "images/Clinic/a.png"},
		{"bucket prefix", "/site/", "pages/contact.html", true, "site/pages/contact"},
		{"non html", "", "data/galleries/clinic.json", true, "data/galleries/clinic.json"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, objectName(tc.prefix, tc.rel, tc.clean))
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/html; charset=utf-8", contentType("pages/contact.html"))
	assert.Equal(t, "image/png", contentType("a.PNG"))
	assert.Equal(t, "application/octet-stream", contentType("LICENSE"))
}

func TestPublishFiles(t *testing.T) {
	root := t.TempDir()
	testChdir(t, root)

	cfg := config.Default()
	cfg.Pages = []config.Page{
		{Template: "index_template.html", Output: "index.html"},
		{Template: "pages/contact_template.html", Output: "pages/contact.html"},
	}
	svc := NewService(cfg)

	writeFile(t, "images/Clinic/a.png", "png")
	writeFile(t, "images/Clinic/metadata.json", "{}")
	writeFile(t, "data/galleries/clinic.json", "{}")

	files := svc.PublishFiles(PublishOptions{CleanURLs: true})

	objects := make(map[string]PublishFile, len(files))
	for _, f := range files {
		objects[f.Object] = f
	}

	assert.Len(t, files, 4, "the index page is listed once")
	assert.Contains(t, objects, "index.html")
	assert.Contains(t, objects, "pages/contact")
	assert.Contains(t, objects, "images/Clinic/a.png")
	assert.Contains(t, objects, "data/galleries/clinic.json")
	assert.NotContains(t, objects, "images/Clinic/metadata.json")

	assert.Equal(t, "text/html; charset=utf-8", objects["pages/contact"].ContentType)
	assert.Equal(t, filepath.Join("pages", "contact.html"), objects["pages/contact"].Local)
}

func TestFileMD5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, path, "hello")

	sum, err := fileMD5(path)
	require.NoError(t, err)
	expected := md5.Sum([]byte("hello"))
	assert.Equal(t, expected[:], sum)

	_, err = fileMD5(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestPublishRequiresBucket(t *testing.T) {
	svc := NewService(config.Default())
	_, err := svc.Publish(context.Background(), PublishOptions{})
	assert.Error(t, err)
}

func TestPublishFilesAbsoluteDirs(t *testing.T) {
	root := t.TempDir()
	elsewhere := t.TempDir()

	cfg := config.Default()
	cfg.OutputDir = root
	cfg.DataDir = filepath.Join(root, "data", "galleries")
	cfg.ImagesDir = filepath.Join(elsewhere, "photos")
	cfg.Pages = []config.Page{{Template: "index_template.html", Output: "index.html"}}
	svc := NewService(cfg)

	writeFile(t, filepath.Join(cfg.DataDir, "clinic.json"), "{}")
	writeFile(t, filepath.Join(cfg.ImagesDir, "Clinic", "a.png"), "png")

	objects := make(map[string]PublishFile)
	for _, f := range svc.PublishFiles(PublishOptions{Prefix: "site"}) {
		objects[f.Object] = f
	}

	assert.Contains(t, objects, "site/index.html")
	assert.Contains(t, objects, "site/data/galleries/clinic.json")
	require.Contains(t, objects, "site/images/Clinic/a.png", "images are stored under their URL prefix")
	assert.Equal(t, filepath.Join(cfg.ImagesDir, "Clinic", "a.png"), objects["site/images/Clinic/a.png"].Local)
	for object := range objects {
		assert.NotContains(t, object, root)
	}
}
