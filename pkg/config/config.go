package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up in the working directory
const DefaultFile = "site.yaml"

// Component maps a placeholder marker to the fragment file that replaces it
type Component struct {
	Marker string `mapstructure:"marker" yaml:"marker"`
	File   string `mapstructure:"file" yaml:"file"`
}

// Page maps a template to the file it is rendered into
type Page struct {
	Template string `mapstructure:"template" yaml:"template"`
	Output   string `mapstructure:"output" yaml:"output"`
}

// WatchConfig holds settings for the development watcher
type WatchConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// Config holds all configuration for the site build
type Config struct {
	ComponentsDir string `mapstructure:"components_dir" yaml:"components_dir"`
	TemplatesDir  string `mapstructure:"templates_dir" yaml:"templates_dir"`
	OutputDir     string `mapstructure:"output_dir" yaml:"output_dir"`

	ImagesDir         string   `mapstructure:"images_dir" yaml:"images_dir"`
	DataDir           string   `mapstructure:"data_dir" yaml:"data_dir"`
	MetadataFile      string   `mapstructure:"metadata_file" yaml:"metadata_file"`
	AllowedExtensions []string `mapstructure:"allowed_extensions" yaml:"allowed_extensions"`
	ThumbMarker       string   `mapstructure:"thumb_marker" yaml:"thumb_marker"`
	VideoExtension    string   `mapstructure:"video_extension" yaml:"video_extension"`

	IndexTemplate   string   `mapstructure:"index_template" yaml:"index_template"`
	IndexOutput     string   `mapstructure:"index_output" yaml:"index_output"`
	PortfolioMarker string   `mapstructure:"portfolio_marker" yaml:"portfolio_marker"`
	PortfolioView   string   `mapstructure:"portfolio_view" yaml:"portfolio_view"`
	ImagesURLPrefix string   `mapstructure:"images_url_prefix" yaml:"images_url_prefix"`
	GalleryViewURL  string   `mapstructure:"gallery_view_url" yaml:"gallery_view_url"`
	CategoryOrder   []string `mapstructure:"category_order" yaml:"category_order"`

	LandingTemplate string      `mapstructure:"landing_template" yaml:"landing_template"`
	Components      []Component `mapstructure:"components" yaml:"components"`
	Pages           []Page      `mapstructure:"pages" yaml:"pages"`

	Watch WatchConfig `mapstructure:"watch" yaml:"watch"`

	Bucket string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Port   string `mapstructure:"port" yaml:"port"`

	// Path is the file the configuration was read from, empty when only defaults apply
	Path string `mapstructure:"-" yaml:"-"`
}

var (
	// ErrNoPages is returned when no page is configured
	ErrNoPages = errors.New("no pages configured")

	// ErrEmptyMarker is returned when a component has no placeholder marker
	ErrEmptyMarker = errors.New("component marker is empty")

	// ErrDuplicateMarker is returned when two components share a marker
	ErrDuplicateMarker = errors.New("duplicate component marker")

	// ErrInvalidPage is returned when a page lacks a template or an output
	ErrInvalidPage = errors.New("page needs both template and output")

	// ErrMissingDir is returned when a required directory setting is empty
	ErrMissingDir = errors.New("directory setting is empty")

	// ErrInvalidInterval is returned when the watch interval is not positive
	ErrInvalidInterval = errors.New("watch interval must be positive")

	// ErrNoExtensions is returned when no image extension is allowed
	ErrNoExtensions = errors.New("no allowed image extensions")

	// ErrEmptyThumbMarker is returned when no thumbnail marker is set
	ErrEmptyThumbMarker = errors.New("thumbnail marker is empty")

	// ErrEmptyVideoExtension is returned when no video extension is set
	ErrEmptyVideoExtension = errors.New("video extension is empty")
)

// Default returns the configuration used when no file overrides it
func Default() *Config {
	return &Config{
		ComponentsDir: "components",
		TemplatesDir:  "templates",
		OutputDir:     ".",

		ImagesDir:         "images",
		DataDir:           "data/galleries",
		MetadataFile:      "metadata.json",
		AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".webp"},
		ThumbMarker:       "_thumb",
		VideoExtension:    ".mp4",

		IndexTemplate:   "templates/index_template.html",
		IndexOutput:     "index.html",
		PortfolioMarker: "<!-- PORTFOLIO -->",
		PortfolioView:   "views/portfolio.pug",
		ImagesURLPrefix: "/images",
		GalleryViewURL:  "/gallery-view.html",
		CategoryOrder: []string{
			"Healthcare",
			"Senior Living",
			"Education",
			"Business & Industry",
			"Government",
			"Concepts",
			"Residential",
			"Products",
		},

		LandingTemplate: "index_template.html",
		Components: []Component{
			{Marker: "<!-- HEAD TEMPLATE -->", File: "head.html"},
			{Marker: "<!-- HEADER TEMPLATE -->", File: "header.html"},
			{Marker: "<!-- FOOTER TEMPLATE -->", File: "footer.html"},
			{Marker: "<!-- SKILLS TEMPLATE -->", File: "skills-cloud.html"},
		},
		Pages: []Page{
			{Template: "index_template.html", Output: "index.html"},
			{Template: "pages/contact_template.html", Output: "pages/contact.html"},
			{Template: "pages/privacy-policy_template.html", Output: "pages/privacy-policy.html"},
			{Template: "gallery_template.html", Output: "gallery.html"},
			{Template: "404_template.html", Output: "404.html"},
		},

		Watch: WatchConfig{Interval: time.Second},
		Port:  "8080",
	}
}

// Load reads configuration from path, or from DefaultFile when path is empty.
// A missing DefaultFile is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("SITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("bucket", "SITE_BUCKET", "BUCKET_NAME")
	_ = v.BindEnv("port", "SITE_PORT", "PORT")

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound), errors.Is(err, os.ErrNotExist):
			if explicit {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if used != "" {
		if abs, err := filepath.Abs(used); err == nil {
			used = abs
		}
	}
	cfg.Path = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("components_dir", d.ComponentsDir)
	v.SetDefault("templates_dir", d.TemplatesDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("images_dir", d.ImagesDir)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("metadata_file", d.MetadataFile)
	v.SetDefault("allowed_extensions", d.AllowedExtensions)
	v.SetDefault("thumb_marker", d.ThumbMarker)
	v.SetDefault("video_extension", d.VideoExtension)
	v.SetDefault("index_template", d.IndexTemplate)
	v.SetDefault("index_output", d.IndexOutput)
	v.SetDefault("portfolio_marker", d.PortfolioMarker)
	v.SetDefault("portfolio_view", d.PortfolioView)
	v.SetDefault("images_url_prefix", d.ImagesURLPrefix)
	v.SetDefault("gallery_view_url", d.GalleryViewURL)
	v.SetDefault("category_order", d.CategoryOrder)
	v.SetDefault("landing_template", d.LandingTemplate)
	v.SetDefault("components", d.Components)
	v.SetDefault("pages", d.Pages)
	v.SetDefault("watch.interval", d.Watch.Interval)
	v.SetDefault("bucket", d.Bucket)
	v.SetDefault("port", d.Port)
}

// Validate checks the configuration before it is used or swapped in by the watcher
func (c *Config) Validate() error {
	dirs := map[string]string{
		"components_dir": c.ComponentsDir,
		"templates_dir":  c.TemplatesDir,
		"output_dir":     c.OutputDir,
		"images_dir":     c.ImagesDir,
		"data_dir":       c.DataDir,
	}
	for _, key := range []string{"components_dir", "templates_dir", "output_dir", "images_dir", "data_dir"} {
		if strings.TrimSpace(dirs[key]) == "" {
			return fmt.Errorf("%s: %w", key, ErrMissingDir)
		}
	}

	if len(c.AllowedExtensions) == 0 {
		return ErrNoExtensions
	}
	if strings.TrimSpace(c.ThumbMarker) == "" {
		return ErrEmptyThumbMarker
	}
	if strings.TrimSpace(c.VideoExtension) == "" {
		return ErrEmptyVideoExtension
	}

	seen := make(map[string]bool, len(c.Components))
	for i, comp := range c.Components {
		if comp.Marker == "" {
			return fmt.Errorf("components[%d]: %w", i, ErrEmptyMarker)
		}
		if seen[comp.Marker] {
			return fmt.Errorf("%q: %w", comp.Marker, ErrDuplicateMarker)
		}
		seen[comp.Marker] = true
	}

	if len(c.Pages) == 0 {
		return ErrNoPages
	}
	for i, page := range c.Pages {
		if page.Template == "" || page.Output == "" {
			return fmt.Errorf("pages[%d]: %w", i, ErrInvalidPage)
		}
	}

	if c.Watch.Interval <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// AllowsExtension reports whether ext (any case) is a configured image extension
func (c *Config) AllowsExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range c.AllowedExtensions {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}

// TemplatePath returns the on-disk path of a page template
func (c *Config) TemplatePath(template string) string {
	return filepath.Join(c.TemplatesDir, template)
}

// ComponentPath returns the on-disk path of a fragment file
func (c *Config) ComponentPath(file string) string {
	return filepath.Join(c.ComponentsDir, file)
}

// OutputPath returns the on-disk path of a generated page
func (c *Config) OutputPath(output string) string {
	return filepath.Join(c.OutputDir, output)
}

// WriteFile stores the configuration as YAML at path
func (c *Config) WriteFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// ServerAddress returns the server address with port
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// PrintServerStartMessage prints a message when the preview server starts
func (c *Config) PrintServerStartMessage() {
	fmt.Printf("Starting server at port %s\n", c.Port)
	fmt.Printf("Site URL: http://localhost:%s/\n", c.Port)
	fmt.Printf("Index feed: http://localhost:%s/data/site-index.json\n", c.Port)
}
