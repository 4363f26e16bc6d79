package scrum

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/ceres/internal/store"
)

func TestParsePlayerPage(t *testing.T) {
	t.Parallel()

	doc := loadDocument(t, "testdata/player_page.html")
	player := &store.Player{ID: "1001", Name: "Alan Smith"}

	require.True(t, ParsePlayerPage(doc, player))

	assert.Equal(t, "Alan David Smith", player.FullName.String)
	assert.True(t, player.FullName.Valid)
	assert.Equal(t, "March 3, 1985, Leeds", player.Birthday.String)
	assert.Equal(t, "6 ft 1 in", player.Height.String)
	assert.Equal(t, "212 lb", player.Weight.String)
}

func TestParsePlayerPageWithoutBio(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body><p>gone</p></body></html>"))
	require.NoError(t, err)

	player := &store.Player{ID: "1001", Name: "Alan Smith"}
	assert.False(t, ParsePlayerPage(doc, player))
	assert.False(t, player.FullName.Valid)
}

func TestParsePlayerPageSkipsEmptyValues(t *testing.T) {
	t.Parallel()

	// The "Major teams" block in the fixture has a label but no text,
	// and must not clobber anything.
	doc := loadDocument(t, "testdata/player_page.html")
	player := &store.Player{ID: "1001", Name: "Alan Smith"}
	require.True(t, ParsePlayerPage(doc, player))
	assert.True(t, player.Weight.Valid)
}
