package services

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAltText(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"01_MainEntrance_v2", "Main Entrance"},
		{"exterior-view", "exterior view"},
		{"PatientRoomV3", "Patient Room"},
		{"12-Lobby", "Lobby"},
		{"nurse_station", "nurse station"},
		{"ABCTest", "ABCTest"},
		{"2023", ""},
		{"Dining_Hall-v10", "Dining Hall"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatAltText(tc.input))
		})
	}
}

func TestAltTextStripsPrefix(t *testing.T) {
	assert.Equal(t, "Main Entrance", AltText("Lobby_01_MainEntrance_v2", "Lobby_"))
	assert.Equal(t, "Hall 01", AltText("Hall_01", "Lobby_"))
	assert.Equal(t, "Lobby Entrance", AltText("Lobby_Entrance", ""))
}

func TestFormatAltTextProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("no separators remain", prop.ForAll(
		func(name string) bool {
			out := FormatAltText(name)
			return !strings.ContainsAny(out, "_-")
		},
		gen.RegexMatch(`^[a-zA-Z0-9_-]{0,24}$`),
	))

	properties.Property("result is trimmed", prop.ForAll(
		func(name string) bool {
			out := FormatAltText(name)
			return out == strings.TrimSpace(out)
		},
		gen.RegexMatch(`^[a-zA-Z0-9_-]{0,24}$`),
	))

	properties.Property("letters are preserved in order", prop.ForAll(
		func(name string) bool {
			out := strings.ReplaceAll(FormatAltText("x"+name), " ", "")
			return strings.HasPrefix(out, "x")
		},
		gen.RegexMatch(`^[a-z]{0,12}$`),
	))

	properties.TestingRun(t)
}

func TestScanImages(t *testing.T) {
	svc, _ := newTestService(t)
	gallery := filepath.Join(svc.config.ImagesDir, "Clinic")

	writePNG(t, filepath.Join(gallery, "01_Lobby.png"), 40, 20)
	writePNG(t, filepath.Join(gallery, "01_Lobby_thumb.png"), 4, 2)
	writePNG(t, filepath.Join(gallery, "02_NurseStation.png"), 30, 30)
	writePNG(t, filepath.Join(gallery, "Exterior.PNG"), 10, 12)
	writeFile(t, filepath.Join(gallery, "notes.txt"), "not an image")
	writeFile(t, filepath.Join(gallery, "broken.jpg"), "not a jpeg")
	writePNG(t, filepath.Join(gallery, "nested", "inner.png"), 5, 5)

	images := svc.ScanImages(gallery, "", "")
	require.Len(t, images, 3)

	assert.Equal(t, "01_Lobby.png", images[0].Src)
	assert.Equal(t, "01_Lobby_thumb.png", images[0].Thumb)
	assert.Equal(t, 40, images[0].Width)
	assert.Equal(t, 20, images[0].Height)
	assert.Equal(t, "Lobby", images[0].Alt)
	assert.Equal(t, "01_Lobby.png", images[0].Filename)

	assert.Equal(t, "02_NurseStation.png", images[1].Src)
	assert.Equal(t, "02_NurseStation.png", images[1].Thumb, "missing thumbnail falls back to the image")
	assert.Equal(t, "Nurse Station", images[1].Alt)

	assert.Equal(t, "Exterior.PNG", images[2].Src)
	assert.Equal(t, 10, images[2].Width)
	assert.Equal(t, 12, images[2].Height)
}

func TestScanImagesSubfolderPaths(t *testing.T) {
	svc, _ := newTestService(t)
	gallery := filepath.Join(svc.config.ImagesDir, "School")

	writePNG(t, filepath.Join(gallery, "Classrooms", "School_Room1.png"), 8, 8)
	writePNG(t, filepath.Join(gallery, "Classrooms", "School_Room1_thumb.png"), 2, 2)

	images := svc.ScanImages(gallery, "Classrooms", "School_")
	require.Len(t, images, 1)
	assert.Equal(t, "Classrooms/School_Room1.png", images[0].Src)
	assert.Equal(t, "Classrooms/School_Room1_thumb.png", images[0].Thumb)
	assert.Equal(t, "Room1", images[0].Alt)
}

func TestScanImagesMissingFolder(t *testing.T) {
	svc, _ := newTestService(t)

	images := svc.ScanImages(filepath.Join(svc.config.ImagesDir, "Nope"), "", "")
	assert.NotNil(t, images)
	assert.Empty(t, images)
}
