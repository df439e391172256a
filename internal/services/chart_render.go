package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"stockpulse-api/internal/models"
)

// RenderSeriesPNG draws the close series as a line chart and returns PNG bytes
func RenderSeriesPNG(series *models.HistoricalSeries, loc *time.Location) ([]byte, error) {
	if series == nil || len(series.Points) < 2 {
		n := 0
		if series != nil {
			n = len(series.Points)
		}
		return nil, fmt.Errorf("%w: need at least 2 data points, got %d", models.ErrInsufficientData, n)
	}
	if loc == nil {
		loc = time.UTC
	}

	xValues := make([]time.Time, len(series.Points))
	yValues := make([]float64, len(series.Points))
	for i, p := range series.Points {
		xValues[i] = p.Timestamp.In(loc)
		yValues[i] = p.Close
	}

	stroke := drawing.ColorFromHex("16a34a") // green-600
	if yValues[len(yValues)-1] < yValues[0] {
		stroke = drawing.ColorFromHex("dc2626") // red-600
	}

	layout := LabelLayout(series.Interval, series.Range)
	title := series.Symbol
	if series.Range != "" {
		title = fmt.Sprintf("%s (%s, %s)", series.Symbol, series.Range, series.Interval)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).In(loc).Format(layout)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: series.Symbol,
				Style: chart.Style{
					StrokeColor: stroke,
					StrokeWidth: 2,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
