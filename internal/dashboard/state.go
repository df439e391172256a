// Package dashboard holds the client-side application state of the stock
// dashboard and the reducer that is its only writer.
package dashboard

import (
	"strings"

	"stockpulse-api/internal/models"
)

// MaxRecentSearches caps the recent symbol list
const MaxRecentSearches = 5

// Resource names one independently fetched panel of the dashboard
type Resource string

const (
	ResourceQuote  Resource = "quote"
	ResourceChart  Resource = "chart"
	ResourceTrend  Resource = "trend"
	ResourceAnswer Resource = "answer"
)

// Tab is the visible dashboard section
type Tab string

const (
	TabOverview Tab = "overview"
	TabChart    Tab = "chart"
	TabAI       Tab = "ai"
)

func (t Tab) valid() bool {
	switch t {
	case TabOverview, TabChart, TabAI:
		return true
	}
	return false
}

// Status of a resource slot
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Slot tracks the newest request issued for one resource. Seq is the
// sequence number a result must carry to be applied.
type Slot struct {
	Status Status
	Seq    uint64
	Err    string
}

// State is the whole dashboard. Treat it as a value: Reduce never mutates
// the State it is given.
type State struct {
	Symbol   string
	Resolved string
	Tab      Tab
	Interval models.ChartInterval
	Recent   []string

	LastSeq uint64
	Slots   map[Resource]Slot

	Quote  *models.QuoteRecord
	Chart  *models.HistoricalResponse
	Trend  string
	Answer string
}

// DefaultInterval is the chart window selected on start
func DefaultInterval() models.ChartInterval {
	return models.ChartInterval{Label: "1M", Interval: "1d", Range: "1mo"}
}

// New returns the initial state
func New() State {
	return State{
		Tab:      TabOverview,
		Interval: DefaultInterval(),
		Slots:    map[Resource]Slot{},
	}
}

// Slot returns the slot for r, idle if no request was ever issued
func (s State) Slot(r Resource) Slot {
	return s.Slots[r]
}

// Loading reports whether any resource has a request in flight
func (s State) Loading() bool {
	for _, slot := range s.Slots {
		if slot.Status == StatusLoading {
			return true
		}
	}
	return false
}

// canonicalSymbol is how symbols are compared inside the state. Server-side
// normalization still decides the resolved ticker.
func canonicalSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
