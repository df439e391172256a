package yahoo

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"stockpulse-api/internal/models"
)

// minMoverColumns is the narrowest row that still carries symbol, name,
// price, change and percent change.
const minMoverColumns = 6

// DefaultMoversCount is used when ScrapeMovers gets a non-positive count
const DefaultMoversCount = 5

var nonNumeric = regexp.MustCompile(`[^0-9.\-]+`)

// ScrapeMovers reads the gainers or losers table from the Yahoo screener
// page. The page layout is not a contract: when no selector matches, the
// result is empty rather than an error.
func (c *Client) ScrapeMovers(ctx context.Context, kind models.MoverKind, count int) ([]models.Mover, error) {
	if count <= 0 {
		count = DefaultMoversCount
	}
	op := "movers/" + string(kind)
	body, status, err := c.fetch(ctx, fmt.Sprintf("%s/%s", c.moversURL, kind))
	if err != nil {
		return nil, models.Transient(provider, op, 0, err)
	}
	if status != http.StatusOK {
		return nil, models.Transient(provider, op, status, fmt.Errorf("%s", snippet(body)))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, models.Transient(provider, op, status, fmt.Errorf("parse page: %w", err))
	}

	rows := moverRows(doc)
	if rows.Length() == 0 {
		c.logger.Warn().Str("kind", string(kind)).Msg("No mover rows matched any selector; page layout may have changed")
	}

	movers := make([]models.Mover, 0, count)
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if m, ok := parseMoverRow(row); ok {
			movers = append(movers, m)
		}
		return len(movers) < count
	})

	return movers, nil
}

func moverRows(doc *goquery.Document) *goquery.Selection {
	rows := doc.Find("div#scr-res-table table tbody tr")
	if rows.Length() == 0 {
		rows = doc.Find(`table[class*="W(100%)"] tbody tr`)
	}
	if rows.Length() == 0 {
		rows = doc.Find("table tbody tr").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Find("td").Length() >= minMoverColumns
		})
	}
	return rows
}

func parseMoverRow(row *goquery.Selection) (models.Mover, bool) {
	cols := row.Find("td")
	if cols.Length() < minMoverColumns {
		return models.Mover{}, false
	}

	first := cols.Eq(0)
	symbol := strings.TrimSpace(first.Find(`a[data-test="quoteLink"]`).Text())
	if symbol == "" {
		symbol = strings.TrimSpace(first.Find("a").First().Text())
	}
	if symbol == "" {
		symbol = strings.TrimSpace(first.Text())
	}

	name := strings.TrimSpace(cols.Eq(1).Text())
	priceText := strings.TrimSpace(cols.Eq(2).Text())
	if symbol == "" || name == "" || priceText == "" || priceText == "-" || priceText == "N/A" {
		return models.Mover{}, false
	}

	// Column 3 is market time
	return models.Mover{
		Symbol:                     symbol,
		ShortName:                  name,
		RegularMarketPrice:         parseNumber(strings.ReplaceAll(priceText, ",", "")),
		RegularMarketChange:        parseNumber(strings.ReplaceAll(strings.TrimSpace(cols.Eq(4).Text()), ",", "")),
		RegularMarketChangePercent: parseNumber(nonNumeric.ReplaceAllString(cols.Eq(5).Text(), "")),
	}, true
}

func parseNumber(s string) null.Float {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return null.Float{}
	}
	f, _ := d.Float64()
	return null.FloatFrom(f)
}
