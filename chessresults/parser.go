package chessresults

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/darshanscodesoftwares/chess-arbiter/model"
)

var roundPattern = regexp.MustCompile(`Round\s+(\d+)`)

func parseKeysPage(body io.Reader) (*model.TournamentKeys, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("%w: error parsing keys page: %v", ErrUpstreamUnavailable, err)
	}

	keys := &model.TournamentKeys{}
	keys.DBKey, _ = doc.Find(`input[name="hid_dbkey"]`).First().Attr("value")
	keys.SidKey, _ = doc.Find(`input[name="hid_sidkey"]`).First().Attr("value")
	keys.Name = strings.TrimSpace(doc.Find("h2").First().Text())

	if keys.DBKey == "" || keys.SidKey == "" {
		return nil, fmt.Errorf("%w: keys page is missing the hidden key fields", ErrUpstreamUnavailable)
	}

	m := roundPattern.FindStringSubmatch(doc.Text())
	if m == nil {
		return nil, fmt.Errorf("%w: keys page has no round header", ErrUpstreamUnavailable)
	}
	keys.Round, err = strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable round number %q", ErrUpstreamUnavailable, m[1])
	}

	return keys, nil
}

// The pairing table rows are: board | white seed | white | black seed | black.
func parsePairingsPage(body io.Reader) ([]model.Pairing, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("%w: error parsing pairings page: %v", ErrUpstreamUnavailable, err)
	}

	table := doc.Find("table.CRs1").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: pairings page has no pairing table", ErrUpstreamUnavailable)
	}

	pairings := make([]model.Pairing, 0, 32)
	var rowErr error
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if rowErr != nil {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 5 {
			// header row or decoration
			return
		}

		p := model.Pairing{
			PlayerA: strings.TrimSpace(cells.Eq(2).Text()),
			PlayerB: strings.TrimSpace(cells.Eq(4).Text()),
		}
		p.Board, rowErr = parseCellInt(cells, 0, "board")
		if rowErr != nil {
			return
		}
		p.WhiteSNo, rowErr = parseCellInt(cells, 1, "white seed")
		if rowErr != nil {
			return
		}
		p.BlackSNo, rowErr = parseCellInt(cells, 3, "black seed")
		if rowErr != nil {
			return
		}

		if p.Board <= 0 {
			rowErr = fmt.Errorf("%w: non-positive board number %d", ErrUpstreamUnavailable, p.Board)
			return
		}
		pairings = append(pairings, p)
	})
	if rowErr != nil {
		return nil, rowErr
	}

	if len(pairings) == 0 {
		return nil, fmt.Errorf("%w: pairing table has no rows", ErrUpstreamUnavailable)
	}
	return pairings, nil
}

func parseCellInt(cells *goquery.Selection, idx int, what string) (int, error) {
	raw := strings.TrimSpace(cells.Eq(idx).Text())
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable %s %q", ErrUpstreamUnavailable, what, raw)
	}
	return n, nil
}
