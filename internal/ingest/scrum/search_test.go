package scrum

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDocument(t *testing.T, path string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	require.NoError(t, err)
	return doc
}

func TestSearchURL(t *testing.T) {
	t.Parallel()

	got := searchURL(CategoryHome, 3)
	want := "http://stats.espnscrum.com/statsguru/rugby/stats/index.html?" +
		"class=1;home_or_away=1;orderby=date;orderbyad=reverse;page=3;size=100;" +
		"spanmin1=24+Jul+1992;spanval1=span;template=results;type=team;view=match"
	assert.Equal(t, want, got)

	assert.Contains(t, searchURL(CategoryNeutral, 1), "home_or_away=3")
}

func TestEntityURLs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "http://stats.espnscrum.com/statsguru/rugby/match/63412.html", matchPageURL("63412"))
	assert.Equal(t, "http://stats.espnscrum.com/statsguru/rugby/player/1001.html", playerPageURL("1001"))
}

func TestParseSearchPage(t *testing.T) {
	t.Parallel()

	doc := loadDocument(t, "testdata/search_page.html")
	page := ParseSearchPage(doc, CategoryHome)

	require.False(t, page.NoRecords)
	// The second link block has no match link, so its row is dropped.
	require.Len(t, page.Matches, 2)

	first := page.Matches[0]
	assert.Equal(t, "63412", first.ID)
	assert.Equal(t, "500", first.HomeTeamID)
	assert.Equal(t, "600", first.AwayTeamID)
	assert.Equal(t, "123", first.GroundID)
	assert.Equal(t, "home", first.MatchType)
	assert.Equal(t, "won", first.Won)
	assert.Equal(t, "26 Mar 2022", first.Date)

	second := page.Matches[1]
	assert.Equal(t, "63414", second.ID)
	assert.Equal(t, "520", second.HomeTeamID)
	assert.Equal(t, "620", second.AwayTeamID)
	assert.Equal(t, "5 Mar 2022", second.Date)
}

func TestParseSearchPageNoRecords(t *testing.T) {
	t.Parallel()

	html := `<html><body><table><tbody>
		<tr class="data1"><td><b>No records available to match this query</b></td></tr>
	</tbody></table></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	page := ParseSearchPage(doc, CategoryNeutral)
	assert.True(t, page.NoRecords)
	assert.Empty(t, page.Matches)
}

func TestParseSearchPageCategoryLabels(t *testing.T) {
	t.Parallel()

	doc := loadDocument(t, "testdata/search_page.html")
	page := ParseSearchPage(doc, CategoryNeutral)
	require.NotEmpty(t, page.Matches)
	for _, m := range page.Matches {
		assert.Equal(t, "neutral", m.MatchType)
	}
}

func TestLinkID(t *testing.T) {
	t.Parallel()

	html := `<div><a href="/statsguru/rugby/match/63412.html?view=stats">m</a></div>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, "63412", linkID(doc.Selection, "a"))
	assert.Equal(t, "", linkID(doc.Selection, "span"))
}
