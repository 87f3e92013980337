package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSite(t *testing.T, svc *Service) {
	t.Helper()
	cfg := svc.config

	writeFile(t, filepath.Join(cfg.ImagesDir, "Clinic", "metadata.json"),
		`{"title": "North Clinic", "category": "Healthcare", "location": "Austin"}`)
	writePNG(t, filepath.Join(cfg.ImagesDir, "Clinic", "01_Lobby.png"), 6, 4)
	writePNG(t, filepath.Join(cfg.ImagesDir, "Clinic", "01_Lobby_thumb.png"), 3, 2)

	writeFile(t, cfg.ComponentPath("header.html"), "<nav>\n<a href=\"pages/contact.html\">Contact</a>\n</nav>\n")
	writeFile(t, cfg.TemplatePath("index_template.html"),
		"<body>\n  <!-- HEADER TEMPLATE -->\n  <section>\n    <!-- PORTFOLIO -->\n  </section>\n</body>\n")
}

func TestBuild(t *testing.T) {
	svc, _ := newTestService(t)
	setupSite(t, svc)

	require.NoError(t, svc.Build(BuildOptions{Production: true}))

	index := readFile(t, svc.config.OutputPath("index.html"))
	assert.Contains(t, index, "<nav>\n  <a href=\"pages/contact\">Contact</a>\n  </nav>")
	assert.Contains(t, index, `<a href="/gallery-view.html?id=clinic" class="portfolio__item">`, "query links keep their extension")
	assert.Contains(t, index, `<img src="/images/Clinic/01_Lobby_thumb.png" alt="North Clinic" class="portfolio__img"/>`)
	assert.NotContains(t, index, "<!-- PORTFOLIO -->")

	assert.FileExists(t, filepath.Join(svc.config.DataDir, "clinic.json"))
}

func TestBuildDevelopmentKeepsLinks(t *testing.T) {
	svc, _ := newTestService(t)
	setupSite(t, svc)

	require.NoError(t, svc.Build(BuildOptions{}))

	index := readFile(t, svc.config.OutputPath("index.html"))
	assert.Contains(t, index, `href="pages/contact.html"`)
	assert.Contains(t, index, `href="/gallery-view.html?id=clinic"`)
}

func TestBuildPagesOnly(t *testing.T) {
	svc, _ := newTestService(t)
	setupSite(t, svc)

	require.NoError(t, svc.Build(BuildOptions{SkipGalleries: true}))

	index := readFile(t, svc.config.OutputPath("index.html"))
	assert.Contains(t, index, "<!-- PORTFOLIO -->")
	assert.NoFileExists(t, filepath.Join(svc.config.DataDir, "clinic.json"))
}

func TestBuildPicksUpComponentChanges(t *testing.T) {
	svc, _ := newTestService(t)
	setupSite(t, svc)

	require.NoError(t, svc.Build(BuildOptions{SkipGalleries: true}))
	writeFile(t, svc.config.ComponentPath("header.html"), "<nav>changed</nav>\n")
	require.NoError(t, svc.Build(BuildOptions{SkipGalleries: true}))

	assert.Contains(t, readFile(t, svc.config.OutputPath("index.html")), "<nav>changed</nav>")
}
