package yahoo

import (
	"context"
	"net/url"
	"strconv"

	"stockpulse-api/internal/models"
)

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		ExchDisp  string `json:"exchDisp"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// Search returns Yahoo's ranked symbol matches for a free-text query
func (c *Client) Search(ctx context.Context, query string, limit int) ([]models.SearchCandidate, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", strconv.Itoa(limit))
	params.Set("newsCount", "0")

	var resp searchResponse
	if err := c.get(ctx, "search", c.queryURL+"/v1/finance/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	candidates := make([]models.SearchCandidate, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		exchange := q.ExchDisp
		if exchange == "" {
			exchange = q.Exchange
		}
		candidates = append(candidates, models.SearchCandidate{
			Symbol:    q.Symbol,
			Name:      name,
			Exchange:  exchange,
			QuoteType: q.QuoteType,
		})
	}
	return candidates, nil
}
