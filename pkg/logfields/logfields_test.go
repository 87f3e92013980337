package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpersUseCanonicalKeys(t *testing.T) {
	testCases := []struct {
		attr slog.Attr
		key  string
	}{
		{Gallery("Clinic"), KeyGallery},
		{Path("images/Clinic"), KeyPath},
		{Template("index_template.html"), KeyTemplate},
		{Output("index.html"), KeyOutput},
		{Marker("<!-- HEADER TEMPLATE -->"), KeyMarker},
		{Section("Lobby"), KeySection},
		{Category("Healthcare"), KeyCategory},
		{Count(3), KeyCount},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.key, tc.attr.Key)
		})
	}
}

func TestError(t *testing.T) {
	assert.Equal(t, "disk full", Error(errors.New("disk full")).Value.String())
	assert.Equal(t, "", Error(nil).Value.String())
}
