package services

import (
	"context"
	"fmt"
	"time"

	"stockpulse-api/internal/common"
	"stockpulse-api/internal/models"
)

// ChartSource fetches raw close series from the market-data provider
type ChartSource interface {
	GetChart(ctx context.Context, symbol, interval string, start, end time.Time) (*models.HistoricalSeries, error)
}

var intradayIntervals = map[string]bool{
	"1m": true, "2m": true, "5m": true, "15m": true,
	"30m": true, "60m": true, "90m": true, "1h": true,
}

var dailyIntervals = map[string]bool{
	"1d": true, "5d": true, "1wk": true, "1mo": true, "3mo": true,
}

// rangeOffsets maps a range to the calendar offset subtracted from today.
// ytd and max are handled separately.
var rangeOffsets = map[string]struct{ years, months, days int }{
	"1d":  {0, 0, 1},
	"5d":  {0, 0, 5},
	"1mo": {0, 1, 0},
	"3mo": {0, 3, 0},
	"6mo": {0, 6, 0},
	"1y":  {1, 0, 0},
	"2y":  {2, 0, 0},
	"5y":  {5, 0, 0},
	"10y": {10, 0, 0},
}

// intradayLookbackDays bounds intraday requests over long ranges
const intradayLookbackDays = 7

var chartIntervals = []models.ChartInterval{
	{Label: "Today", Interval: "15m", Range: "1d"},
	{Label: "5D", Interval: "1d", Range: "5d"},
	{Label: "1M", Interval: "1d", Range: "1mo"},
	{Label: "6M", Interval: "1d", Range: "6mo"},
	{Label: "1Y", Interval: "1wk", Range: "1y"},
	{Label: "5Y", Interval: "1mo", Range: "5y"},
	{Label: "Max", Interval: "1mo", Range: "max"},
}

// ChartIntervals returns the fixed interval menu offered to clients
func ChartIntervals() []models.ChartInterval {
	out := make([]models.ChartInterval, len(chartIntervals))
	copy(out, chartIntervals)
	return out
}

// IsIntraday reports whether interval samples within a trading day
func IsIntraday(interval string) bool {
	return intradayIntervals[interval]
}

// ComputePeriod resolves the query window for an interval/range pair in the
// exchange location.
func ComputePeriod(interval, rng string, now time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if !intradayIntervals[interval] && !dailyIntervals[interval] {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unsupported interval %q", models.ErrInvalidArgument, interval)
	}
	if loc == nil {
		loc = time.UTC
	}

	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	intraday := intradayIntervals[interval]

	if rng == "1d" && intraday {
		return today, today.AddDate(0, 0, 1), nil
	}

	var start time.Time
	switch rng {
	case "max":
		return time.Unix(0, 0).UTC(), local, nil
	case "ytd":
		start = time.Date(local.Year(), time.January, 1, 0, 0, 0, 0, loc)
	default:
		off, ok := rangeOffsets[rng]
		if !ok {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: unsupported range %q", models.ErrInvalidArgument, rng)
		}
		start = today.AddDate(-off.years, -off.months, -off.days)
	}

	if intraday && rng != "5d" {
		start = today.AddDate(0, 0, -intradayLookbackDays)
	}

	return start, local, nil
}

// LabelLayout picks the time layout for point labels: clock time for intraday
// samples, day and month up to a year, month and year beyond.
func LabelLayout(interval, rng string) string {
	switch {
	case intradayIntervals[interval]:
		return "15:04"
	case rng == "2y" || rng == "5y" || rng == "10y" || rng == "max":
		return "Jan 2006"
	default:
		return "02 Jan"
	}
}

// HistoricalService fetches close series for the chart panel
type HistoricalService struct {
	source     ChartSource
	normalizer *SymbolNormalizer
	loc        *time.Location
	now        func() time.Time
	logger     *common.Logger
}

func NewHistoricalService(source ChartSource, normalizer *SymbolNormalizer, loc *time.Location, logger *common.Logger) *HistoricalService {
	if loc == nil {
		loc = time.UTC
	}
	return &HistoricalService{
		source:     source,
		normalizer: normalizer,
		loc:        loc,
		now:        time.Now,
		logger:     logger,
	}
}

// Fetch returns the ascending close series for the window. An empty series is
// reported as not found.
func (s *HistoricalService) Fetch(ctx context.Context, raw, interval, rng string) (*models.HistoricalSeries, error) {
	sym, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}

	start, end, err := ComputePeriod(interval, rng, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("symbol", sym.Resolved).
		Str("interval", interval).
		Str("range", rng).
		Time("start", start).
		Time("end", end).
		Msg("Fetching historical series")

	series, err := s.source.GetChart(ctx, YahooSymbol(sym), interval, start, end)
	if err != nil {
		return nil, err
	}
	if series == nil || len(series.Points) == 0 {
		return nil, models.NotFound("yahoo", "chart", fmt.Errorf("no historical data for %s (%s/%s)", sym.Resolved, interval, rng))
	}

	series.Symbol = sym.Resolved
	series.Interval = interval
	series.Range = rng
	series.PeriodStart = start
	series.PeriodEnd = end
	return series, nil
}

// Chart fetches the series and reshapes it into the chart payload
func (s *HistoricalService) Chart(ctx context.Context, raw, interval, rng string) (*models.HistoricalResponse, error) {
	series, err := s.Fetch(ctx, raw, interval, rng)
	if err != nil {
		return nil, err
	}
	return s.ChartPayload(series), nil
}

// ChartPayload formats series into named data plus display labels
func (s *HistoricalService) ChartPayload(series *models.HistoricalSeries) *models.HistoricalResponse {
	layout := LabelLayout(series.Interval, series.Range)
	data := make([]float64, len(series.Points))
	labels := make([]string, len(series.Points))
	stamps := make([]int64, len(series.Points))
	for i, p := range series.Points {
		data[i] = p.Close
		labels[i] = p.Timestamp.In(s.loc).Format(layout)
		stamps[i] = p.Timestamp.Unix()
	}

	return &models.HistoricalResponse{
		Symbol:     series.Symbol,
		Series:     []models.ChartSeries{{Name: series.Symbol, Data: data}},
		Categories: labels,
		Metadata: models.ChartMetadata{
			Interval:    series.Interval,
			Range:       series.Range,
			PeriodStart: series.PeriodStart,
			PeriodEnd:   series.PeriodEnd,
			Points:      len(series.Points),
			Currency:    series.Currency,
			Timestamps:  stamps,
		},
	}
}
