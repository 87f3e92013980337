package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Metadata is the optional per-gallery override file. Every field is optional;
// a nil field keeps the gallery default.
type Metadata struct {
	URL         *string     `json:"url"`
	Title       *string     `json:"title"`
	Location    *string     `json:"location"`
	Category    *string     `json:"category"`
	CoverImage  *string     `json:"cover_image"`
	Folder      *string     `json:"folder"`
	Video       *string     `json:"video"`
	ImagePrefix *string     `json:"image_prefix"`
	Subsections Subsections `json:"subsections"`
}

// Subsection is one declared section title and the subfolders feeding it
type Subsection struct {
	Title   string
	Folders []string
}

// Subsections keeps the declaration order of the metadata object
type Subsections []Subsection

// UnmarshalJSON decodes {"Title": "folder" | ["folder", ...]} preserving key order
func (s *Subsections) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("subsections: expected object, got %v", tok)
	}

	var out Subsections
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		title, ok := tok.(string)
		if !ok {
			return fmt.Errorf("subsections: expected key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("subsections %q: %w", title, err)
		}
		folders, err := decodeFolders(raw)
		if err != nil {
			return fmt.Errorf("subsections %q: %w", title, err)
		}

		// a repeated key replaces the earlier value in place
		replaced := false
		for i := range out {
			if out[i].Title == title {
				out[i].Folders = folders
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, Subsection{Title: title, Folders: folders})
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// MarshalJSON writes the subsections back as an ordered object
func (s Subsections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sub := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sub.Title)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(sub.Folders)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeFolders(raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("expected folder name or list of folder names")
	}
	return many, nil
}

// Apply merges the metadata over the gallery defaults; metadata wins
func (m *Metadata) Apply(g *Gallery) {
	if m.URL != nil {
		g.URL = *m.URL
	}
	if m.Title != nil {
		g.Title = *m.Title
	}
	if m.Location != nil {
		g.Location = *m.Location
	}
	if m.Category != nil {
		g.Category = *m.Category
	}
	if m.CoverImage != nil {
		g.CoverImage = *m.CoverImage
	}
	if m.Folder != nil {
		g.Folder = *m.Folder
	}
	if m.Video != nil {
		video := *m.Video
		g.Video = &video
	}
	if m.ImagePrefix != nil {
		g.ImagePrefix = *m.ImagePrefix
	}
	if m.Subsections != nil {
		g.Subsections = m.Subsections
	}
}
