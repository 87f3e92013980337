package models

// Image represents one gallery image with its pixel size and derived alt text
type Image struct {
	Src    string `json:"src"`
	Thumb  string `json:"thumb"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Alt    string `json:"alt"`

	// Filename is kept only for cover matching and never persisted
	Filename string `json:"-"`
}

// Section is a titled, ordered group of images; the root section has an empty title
type Section struct {
	Title  string  `json:"title"`
	Images []Image `json:"images"`
}

// Gallery is the assembled document for one image folder, including the
// working fields the pipeline consumes before persisting a Manifest
type Gallery struct {
	URL         string
	Title       string
	Location    string
	Category    string
	CoverImage  string
	Folder      string
	Video       *string
	ImagePrefix string
	Subsections Subsections
	Sections    []Section
}

// Manifest is the persisted form of a Gallery
type Manifest struct {
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Folder   string    `json:"folder"`
	Video    *string   `json:"video"`
	Sections []Section `json:"sections"`
}

// Manifest strips the working-only fields from the gallery
func (g *Gallery) Manifest() Manifest {
	sections := g.Sections
	if sections == nil {
		sections = []Section{}
	}
	return Manifest{
		Title:    g.Title,
		Location: g.Location,
		Folder:   g.Folder,
		Video:    g.Video,
		Sections: sections,
	}
}

// ImageCount returns the number of images across all sections
func (g *Gallery) ImageCount() int {
	n := 0
	for _, s := range g.Sections {
		n += len(s.Images)
	}
	return n
}

// IndexEntry is one gallery tile on the site index
type IndexEntry struct {
	ID       string `json:"id"`
	Folder   string `json:"folder"`
	Title    string `json:"title"`
	Location string `json:"location"`
	URL      string `json:"url"`
	Thumb    string `json:"thumb"`
}

// Category groups index entries under one heading
type Category struct {
	Name    string       `json:"name"`
	Entries []IndexEntry `json:"galleries"`
}

// SiteIndex is the category-ordered content of the home page portfolio
type SiteIndex struct {
	Categories []Category `json:"categories"`
}

// Index represents the data passed to the portfolio view
type Index struct {
	Categories []Category
}
