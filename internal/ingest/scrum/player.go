package scrum

import (
	"database/sql"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/ceres/internal/store"
)

// ParsePlayerPage reads the bio description blocks of a player page and
// fills the optional fields onto player. Returns false when the page has
// no bio content at all.
func ParsePlayerPage(doc *goquery.Document, player *store.Player) bool {
	infos := doc.Find("#scrumPlayerContent table .scrumPlayerDesc")
	if infos.Length() == 0 {
		return false
	}

	infos.Each(func(_ int, info *goquery.Selection) {
		title := strings.TrimSpace(info.ChildrenFiltered("b").First().Text())
		value := ownText(info)
		if value == "" {
			return
		}
		field := sql.NullString{String: value, Valid: true}
		switch title {
		case "Full name":
			player.FullName = field
		case "Born":
			player.Birthday = field
		case "Height":
			player.Height = field
		case "Weight":
			player.Weight = field
		}
	})
	return true
}

// ownText concatenates the direct text nodes of a selection, excluding
// text inside child elements (the label lives in a nested <b>).
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
		}
	})
	return strings.TrimSpace(b.String())
}
