package scrum

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/fortuna/ceres/internal/store"
)

const (
	baseDomain = "http://stats.espnscrum.com"
	searchPath = "/statsguru/rugby/stats/index.html"

	// Rugby union changed its point values on this date; older matches
	// are not comparable and are excluded from the harvest. Do not alter.
	lowerBoundDate = "24+Jul+1992"

	pageSize = 100
)

// reLinkID pulls the numeric entity id out of a statsguru hyperlink,
// e.g. "/statsguru/rugby/match/63412.html" -> "63412".
var reLinkID = regexp.MustCompile(`/([0-9]+)\.`)

// searchURL builds one search request for a category page. Statsguru
// expects `;`-separated key=value pairs in this exact key order.
func searchURL(category Category, page int) string {
	pairs := []string{
		"class=1",
		"home_or_away=" + strconv.Itoa(int(category)),
		"orderby=date",
		"orderbyad=reverse",
		"page=" + strconv.Itoa(page),
		"size=" + strconv.Itoa(pageSize),
		"spanmin1=" + lowerBoundDate,
		"spanval1=span",
		"template=results",
		"type=team",
		"view=match",
	}
	return baseDomain + searchPath + "?" + strings.Join(pairs, ";")
}

func matchPageURL(matchID string) string {
	return fmt.Sprintf("%s/statsguru/rugby/match/%s.html", baseDomain, matchID)
}

func playerPageURL(playerID string) string {
	return fmt.Sprintf("%s/statsguru/rugby/player/%s.html", baseDomain, playerID)
}

// SearchPage is the parsed form of one match-list result page.
type SearchPage struct {
	Matches   []*store.Match
	NoRecords bool
}

// ParseSearchPage extracts the match references from a search result page,
// or detects the "No records" marker that terminates the category.
func ParseSearchPage(doc *goquery.Document, category Category) *SearchPage {
	page := &SearchPage{}

	rows := doc.Find("tr.data1")
	if rows.Length() == 1 {
		msg := strings.TrimSpace(rows.First().Find("td b").Text())
		if strings.Contains(msg, "No records") {
			page.NoRecords = true
			return page
		}
	}

	// Each data row has a matching side-menu link block #engine-ddN; the
	// page also carries UI divs with dashed ids that must be skipped, so
	// the row index is offset from the div index.
	offset := -1
	doc.Find(".engine-dd").Each(func(index int, links *goquery.Selection) {
		if links.Is(`[id^="engine-dd-"]`) || links.Find(`[id^="engine-dd-"]`).Length() > 0 {
			return
		}
		if offset < 0 {
			offset = index - 1
		}
		n := index - offset

		linkBlock := doc.Find(fmt.Sprintf("#engine-dd%d", n))
		row := doc.Find(fmt.Sprintf("tr.data1:nth-child(%d)", n))

		match := &store.Match{
			ID:         linkID(linkBlock, "li:nth-child(6) > a"),
			HomeTeamID: linkID(linkBlock, "li:nth-child(3) > a"),
			AwayTeamID: linkID(linkBlock, "li:nth-child(4) > a"),
			GroundID:   linkID(linkBlock, "li:nth-child(5) > a"),
			MatchType:  category.String(),
			Won:        strings.TrimSpace(row.Find("td:nth-child(2)").Text()),
			Date:       strings.TrimSpace(row.Find("td:nth-child(13) b").Text()),
		}

		if match.ID == "" || match.HomeTeamID == "" || match.AwayTeamID == "" ||
			match.MatchType == "" || match.Won == "" || match.Date == "" {
			zap.S().Errorf("[search] Missing IDs for match row %d (%s page). Skipping.", n, category)
			return
		}
		page.Matches = append(page.Matches, match)
	})

	return page
}

// linkID extracts the numeric id from the href of the first element the
// selector matches.
func linkID(s *goquery.Selection, selector string) string {
	href, ok := s.Find(selector).First().Attr("href")
	if !ok {
		return ""
	}
	m := reLinkID.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return m[1]
}
