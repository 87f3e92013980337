package logfields

import "log/slog"

// Canonical log field names shared by the build commands.
const (
	KeyGallery  = "gallery"
	KeyPath     = "path"
	KeyTemplate = "template"
	KeyOutput   = "output"
	KeyMarker   = "marker"
	KeySection  = "section"
	KeyCategory = "category"
	KeyCount    = "count"
	KeyError    = "error"
)

// Gallery names the gallery folder or id being processed
func Gallery(name string) slog.Attr { return slog.String(KeyGallery, name) }

// Path is a filesystem path
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

// Template is a page or index template path
func Template(t string) slog.Attr { return slog.String(KeyTemplate, t) }

// Output is a generated file path
func Output(o string) slog.Attr { return slog.String(KeyOutput, o) }

// Marker is a component placeholder
func Marker(m string) slog.Attr { return slog.String(KeyMarker, m) }

// Section is a gallery section title
func Section(s string) slog.Attr { return slog.String(KeySection, s) }

// Category is a portfolio category name
func Category(c string) slog.Attr { return slog.String(KeyCategory, c) }

// Count is a number of items handled
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }

// Error records err, or an empty string for nil
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
