package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"stockpulse-api/internal/models"
)

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				Currency             string `json:"currency"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

// GetChart fetches close prices for [start, end) at the given interval. Null
// closes (halted or not-yet-traded bars) are dropped, so the result may be
// empty without an error.
func (c *Client) GetChart(ctx context.Context, symbol, interval string, start, end time.Time) (*models.HistoricalSeries, error) {
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(start.Unix(), 10))
	params.Set("period2", strconv.FormatInt(end.Unix(), 10))
	params.Set("interval", interval)
	params.Set("includePrePost", "false")
	reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.queryURL, url.PathEscape(symbol), params.Encode())

	var resp chartResponse
	if err := c.get(ctx, "chart", reqURL, &resp); err != nil {
		return nil, err
	}

	if e := resp.Chart.Error; e != nil {
		if e.notFound() {
			return nil, models.NotFound(provider, "chart", errors.New(e.Description))
		}
		return nil, models.Transient(provider, "chart", 0, errors.New(e.Description))
	}

	series := &models.HistoricalSeries{
		Symbol:   symbol,
		Interval: interval,
	}
	if len(resp.Chart.Result) == 0 {
		return series, nil
	}

	result := resp.Chart.Result[0]
	series.Currency = result.Meta.Currency
	if len(result.Indicators.Quote) == 0 {
		return series, nil
	}

	closes := result.Indicators.Quote[0].Close
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		series.Points = append(series.Points, models.SeriesPoint{
			Timestamp: time.Unix(ts, 0).UTC(),
			Close:     *closes[i],
		})
	}

	return series, nil
}
