package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsectionsKeepDeclarationOrder(t *testing.T) {
	data := []byte(`{
		"subsections": {
			"Zeta Wing": "zeta",
			"Alpha Wing": ["alpha1", "alpha2"],
			"Middle": []
		}
	}`)

	var meta Metadata
	require.NoError(t, json.Unmarshal(data, &meta))

	require.Len(t, meta.Subsections, 3)
	assert.Equal(t, Subsection{Title: "Zeta Wing", Folders: []string{"zeta"}}, meta.Subsections[0])
	assert.Equal(t, Subsection{Title: "Alpha Wing", Folders: []string{"alpha1", "alpha2"}}, meta.Subsections[1])
	assert.Equal(t, "Middle", meta.Subsections[2].Title)
	assert.Empty(t, meta.Subsections[2].Folders)
}

func TestSubsectionsRejectsBadValues(t *testing.T) {
	var meta Metadata
	err := json.Unmarshal([]byte(`{"subsections": {"A": 3}}`), &meta)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"subsections": ["a"]}`), &meta)
	assert.Error(t, err)
}

func TestSubsectionsMarshalRoundTrip(t *testing.T) {
	in := Subsections{
		{Title: "B", Folders: []string{"b"}},
		{Title: "A", Folders: []string{"a1", "a2"}},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"B":["b"],"A":["a1","a2"]}`, string(data))
	assert.Equal(t, `{"B":["b"],"A":["a1","a2"]}`, string(data))
}

func TestMetadataApplyOverridesSubset(t *testing.T) {
	g := &Gallery{
		URL:      "lobby",
		Title:    "Lobby",
		Category: "Uncategorized",
		Folder:   "Lobby",
	}

	var meta Metadata
	require.NoError(t, json.Unmarshal([]byte(`{"title": "Grand Lobby", "category": "Healthcare", "location": null}`), &meta))
	meta.Apply(g)

	assert.Equal(t, "Grand Lobby", g.Title)
	assert.Equal(t, "Healthcare", g.Category)
	assert.Equal(t, "lobby", g.URL)
	assert.Equal(t, "", g.Location)
	assert.Nil(t, g.Video)
	assert.Nil(t, g.Subsections)
}

func TestManifestStripsWorkingFields(t *testing.T) {
	video := "tour.mp4"
	g := &Gallery{
		URL:         "lobby",
		Title:       "Lobby",
		Category:    "Healthcare",
		CoverImage:  "hero.jpg",
		Folder:      "Lobby",
		Video:       &video,
		ImagePrefix: "Lobby_",
		Subsections: Subsections{{Title: "A", Folders: []string{"a"}}},
		Sections: []Section{{
			Title: "",
			Images: []Image{{Src: "hero.jpg", Thumb: "hero_thumb.jpg", Width: 4, Height: 3, Alt: "hero", Filename: "hero.jpg"}},
		}},
	}

	data, err := json.Marshal(g.Manifest())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"title": "Lobby",
		"location": "",
		"folder": "Lobby",
		"video": "tour.mp4",
		"sections": [{"title": "", "images": [{"src": "hero.jpg", "thumb": "hero_thumb.jpg", "width": 4, "height": 3, "alt": "hero"}]}]
	}`, string(data))
}

func TestManifestEmptySections(t *testing.T) {
	g := &Gallery{Title: "Empty", Folder: "Empty"}
	data, err := json.Marshal(g.Manifest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Empty","location":"","folder":"Empty","video":null,"sections":[]}`, string(data))
	assert.Equal(t, 0, g.ImageCount())
}
