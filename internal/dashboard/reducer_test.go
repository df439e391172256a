package dashboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpulse-api/internal/models"
)

func submitted(t *testing.T, symbol string) State {
	t.Helper()
	s := Reduce(New(), SymbolSubmitted{Symbol: symbol})
	require.Equal(t, canonicalSymbol(symbol), s.Symbol)
	return s
}

func start(s State, r Resource) (State, uint64) {
	s = Reduce(s, RequestStarted{Resource: r})
	return s, s.Slot(r).Seq
}

func TestNew(t *testing.T) {
	s := New()
	assert.Equal(t, TabOverview, s.Tab)
	assert.Equal(t, "1d", s.Interval.Interval)
	assert.Equal(t, "1mo", s.Interval.Range)
	assert.False(t, s.Loading())
	assert.Equal(t, StatusIdle, s.Slot(ResourceQuote).Status)
}

func TestSymbolSubmitted_IgnoresBlank(t *testing.T) {
	s := submitted(t, "tcs")
	assert.Equal(t, s, Reduce(s, SymbolSubmitted{Symbol: "   "}))
}

func TestRequestLifecycle(t *testing.T) {
	s := submitted(t, "reliance")
	s, seq := start(s, ResourceQuote)
	assert.True(t, s.Loading())
	assert.Equal(t, StatusLoading, s.Slot(ResourceQuote).Status)

	quote := &models.QuoteRecord{Symbol: "RELIANCE.BO"}
	s = Reduce(s, DataFetched{Resource: ResourceQuote, Symbol: "reliance", Seq: seq, Payload: quote})

	assert.Equal(t, StatusReady, s.Slot(ResourceQuote).Status)
	assert.Same(t, quote, s.Quote)
	assert.Equal(t, "RELIANCE.BO", s.Resolved)
	assert.False(t, s.Loading())
}

func TestSequenceNumbersIncrease(t *testing.T) {
	s := submitted(t, "tcs")
	s, a := start(s, ResourceQuote)
	s, b := start(s, ResourceChart)
	_, c := start(s, ResourceQuote)
	assert.Less(t, a, b)
	assert.Less(t, b, c)
}

func TestSupersededResultIsDropped(t *testing.T) {
	s := submitted(t, "tcs")
	s, first := start(s, ResourceTrend)
	s, second := start(s, ResourceTrend)

	after := Reduce(s, DataFetched{Resource: ResourceTrend, Symbol: "TCS", Seq: first, Payload: "old"})
	assert.Equal(t, s, after)

	after = Reduce(after, DataFetched{Resource: ResourceTrend, Symbol: "TCS", Seq: second, Payload: "new"})
	assert.Equal(t, "new", after.Trend)
}

func TestResultForPreviousSymbolIsDropped(t *testing.T) {
	s := submitted(t, "tcs")
	s, seq := start(s, ResourceQuote)
	s = Reduce(s, SymbolSubmitted{Symbol: "INFY"})

	after := Reduce(s, DataFetched{Resource: ResourceQuote, Symbol: "TCS", Seq: seq, Payload: &models.QuoteRecord{Symbol: "TCS.BO"}})
	assert.Nil(t, after.Quote)
	assert.Equal(t, s, after)

	after = Reduce(s, FetchFailed{Resource: ResourceQuote, Symbol: "TCS", Seq: seq, Err: errors.New("boom")})
	assert.Empty(t, after.Slot(ResourceQuote).Err)
}

func TestDuplicateDeliveryIsDropped(t *testing.T) {
	s := submitted(t, "tcs")
	s, seq := start(s, ResourceTrend)
	s = Reduce(s, DataFetched{Resource: ResourceTrend, Symbol: "TCS", Seq: seq, Payload: "first"})
	s = Reduce(s, FetchFailed{Resource: ResourceTrend, Symbol: "TCS", Seq: seq, Err: errors.New("late")})

	assert.Equal(t, StatusReady, s.Slot(ResourceTrend).Status)
	assert.Equal(t, "first", s.Trend)
}

func TestFetchFailedKeepsPriorData(t *testing.T) {
	s := submitted(t, "tcs")
	s, seq := start(s, ResourceChart)
	chart := &models.HistoricalResponse{Symbol: "TCS.BO"}
	s = Reduce(s, DataFetched{Resource: ResourceChart, Symbol: "TCS", Seq: seq, Payload: chart})

	s = Reduce(s, IntervalChanged{Interval: models.ChartInterval{Label: "1Y", Interval: "1wk", Range: "1y"}})
	s, seq = start(s, ResourceChart)
	s = Reduce(s, FetchFailed{Resource: ResourceChart, Symbol: "TCS", Seq: seq, Err: errors.New("upstream unavailable")})

	assert.Equal(t, StatusFailed, s.Slot(ResourceChart).Status)
	assert.Equal(t, "upstream unavailable", s.Slot(ResourceChart).Err)
	assert.Same(t, chart, s.Chart)
	assert.Equal(t, "1y", s.Interval.Range)
}

func TestNewSymbolClearsPanels(t *testing.T) {
	s := submitted(t, "tcs")
	s, seq := start(s, ResourceTrend)
	s = Reduce(s, DataFetched{Resource: ResourceTrend, Symbol: "TCS", Seq: seq, Payload: "up"})

	same := Reduce(s, SymbolSubmitted{Symbol: " tcs "})
	assert.Equal(t, "up", same.Trend)

	other := Reduce(s, SymbolSubmitted{Symbol: "infy"})
	assert.Empty(t, other.Trend)
	assert.Equal(t, StatusIdle, other.Slot(ResourceTrend).Status)
	assert.Equal(t, seq, other.Slot(ResourceTrend).Seq)
}

func TestWrongPayloadTypeIsIgnored(t *testing.T) {
	s := submitted(t, "tcs")
	s, seq := start(s, ResourceQuote)

	after := Reduce(s, DataFetched{Resource: ResourceQuote, Symbol: "TCS", Seq: seq, Payload: "not a quote"})
	assert.Equal(t, StatusLoading, after.Slot(ResourceQuote).Status)
	assert.Nil(t, after.Quote)
}

func TestTabChanged(t *testing.T) {
	s := Reduce(New(), TabChanged{Tab: TabAI})
	assert.Equal(t, TabAI, s.Tab)

	s = Reduce(s, TabChanged{Tab: "settings"})
	assert.Equal(t, TabAI, s.Tab)
}

func TestIntervalChanged_RejectsIncomplete(t *testing.T) {
	s := Reduce(New(), IntervalChanged{Interval: models.ChartInterval{Label: "bad"}})
	assert.Equal(t, DefaultInterval(), s.Interval)
}

func TestRecentSearches(t *testing.T) {
	s := New()
	for _, sym := range []string{"a", "b", "c", "d", "e", "f"} {
		s = Reduce(s, SymbolSubmitted{Symbol: sym})
	}
	assert.Equal(t, []string{"F", "E", "D", "C", "B"}, s.Recent)

	s = Reduce(s, SymbolSubmitted{Symbol: "c"})
	assert.Equal(t, []string{"C", "F", "E", "D", "B"}, s.Recent)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := submitted(t, "tcs")
	before := s.Slot(ResourceQuote)

	_ = Reduce(s, RequestStarted{Resource: ResourceQuote})
	assert.Equal(t, before, s.Slot(ResourceQuote))
	assert.Zero(t, s.LastSeq)
}
