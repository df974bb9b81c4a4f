package scraper

import (
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"lottery-predictor/internal/logger"
	"lottery-predictor/internal/lottery"
)

// RowSelector selects the data rows of the draw history table.
const RowSelector = "#tdata tr"

// ParseTable extracts one record per row of the history table in document order.
// Cells that do not start with digits become lottery.Unparsed and are logged;
// the record is kept.
func ParseTable(r io.Reader, game lottery.Game) ([]lottery.DrawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return parseRows(doc.Selection, game), nil
}

func parseRows(doc *goquery.Selection, game lottery.Game) []lottery.DrawRecord {
	layout := game.Layout
	records := make([]lottery.DrawRecord, 0)

	doc.Find(RowSelector).Each(func(_ int, row *goquery.Selection) {
		tds := row.Find("td")
		cell := func(i int) string {
			return strings.TrimSpace(tds.Eq(i).Text())
		}

		record := lottery.DrawRecord{
			IssueNumber:     cell(layout.IssueColumn),
			MainBalls:       make([]int, 0, game.MainCount),
			SupplementBalls: make([]int, 0, game.SupplementCount),
			DrawDate:        cell(layout.DateColumn),
		}
		for i := 0; i < game.MainCount; i++ {
			record.MainBalls = append(record.MainBalls, parseBall(cell(layout.MainColumn+i)))
		}
		for i := 0; i < game.SupplementCount; i++ {
			record.SupplementBalls = append(record.SupplementBalls, parseBall(cell(layout.SupplementColumn+i)))
		}

		if record.HasUnparsed() {
			logger.Warningf("%s issue %q has unparsed ball cells: %v | %v",
				game.Name, record.IssueNumber, record.MainBalls, record.SupplementBalls)
		}
		records = append(records, record)
	})
	return records
}

// parseBall reads the leading decimal digits of a cell, ignoring any trailing text.
// A prefix too large for an int is Unparsed.
func parseBall(text string) int {
	end := strings.IndexFunc(text, func(c rune) bool { return c < '0' || c > '9' })
	if end < 0 {
		end = len(text)
	}
	n, err := strconv.Atoi(text[:end])
	if err != nil {
		return lottery.Unparsed
	}
	return n
}
