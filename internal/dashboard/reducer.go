package dashboard

import (
	"maps"
	"slices"

	"stockpulse-api/internal/models"
)

// Action is a state transition request
type Action interface {
	action()
}

// SymbolSubmitted selects a symbol. A different symbol resets every panel.
type SymbolSubmitted struct {
	Symbol string
}

// TabChanged switches the visible section
type TabChanged struct {
	Tab Tab
}

// IntervalChanged selects a chart window. The current chart stays visible
// until the new one arrives.
type IntervalChanged struct {
	Interval models.ChartInterval
}

// RequestStarted issues a request for Resource. The reducer assigns the
// sequence number; read it back with State.Slot.
type RequestStarted struct {
	Resource Resource
}

// DataFetched delivers a result. Symbol is the symbol the request was issued
// for. Payload is *models.QuoteRecord, *models.HistoricalResponse or string,
// matching Resource.
type DataFetched struct {
	Resource Resource
	Symbol   string
	Seq      uint64
	Payload  any
}

// FetchFailed delivers a failure. Prior data for the resource is kept.
type FetchFailed struct {
	Resource Resource
	Symbol   string
	Seq      uint64
	Err      error
}

func (SymbolSubmitted) action() {}
func (TabChanged) action()      {}
func (IntervalChanged) action() {}
func (RequestStarted) action()  {}
func (DataFetched) action()     {}
func (FetchFailed) action()     {}

// Reduce returns the state after applying a. Results for a symbol other than
// the selected one, or carrying a sequence number older than the newest
// request for their resource, are discarded.
func Reduce(s State, a Action) State {
	next := s
	next.Slots = maps.Clone(s.Slots)
	if next.Slots == nil {
		next.Slots = map[Resource]Slot{}
	}

	switch a := a.(type) {
	case SymbolSubmitted:
		sym := canonicalSymbol(a.Symbol)
		if sym == "" {
			return s
		}
		next.Recent = pushRecent(s.Recent, sym)
		if sym != s.Symbol {
			next.Symbol = sym
			next.Resolved = ""
			next.Quote = nil
			next.Chart = nil
			next.Trend = ""
			next.Answer = ""
			for r, slot := range next.Slots {
				next.Slots[r] = Slot{Seq: slot.Seq}
			}
		}

	case TabChanged:
		if !a.Tab.valid() {
			return s
		}
		next.Tab = a.Tab

	case IntervalChanged:
		if a.Interval.Interval == "" || a.Interval.Range == "" {
			return s
		}
		next.Interval = a.Interval

	case RequestStarted:
		next.LastSeq = s.LastSeq + 1
		next.Slots[a.Resource] = Slot{Status: StatusLoading, Seq: next.LastSeq}

	case DataFetched:
		if stale(s, a.Resource, a.Symbol, a.Seq) {
			return s
		}
		if !apply(&next, a.Resource, a.Payload) {
			return s
		}
		next.Slots[a.Resource] = Slot{Status: StatusReady, Seq: a.Seq}

	case FetchFailed:
		if stale(s, a.Resource, a.Symbol, a.Seq) {
			return s
		}
		msg := "request failed"
		if a.Err != nil {
			msg = a.Err.Error()
		}
		next.Slots[a.Resource] = Slot{Status: StatusFailed, Seq: a.Seq, Err: msg}

	default:
		return s
	}

	return next
}

func stale(s State, r Resource, symbol string, seq uint64) bool {
	if canonicalSymbol(symbol) != s.Symbol {
		return true
	}
	slot, ok := s.Slots[r]
	return !ok || slot.Seq != seq || slot.Status != StatusLoading
}

func apply(s *State, r Resource, payload any) bool {
	switch r {
	case ResourceQuote:
		q, ok := payload.(*models.QuoteRecord)
		if !ok || q == nil {
			return false
		}
		s.Quote = q
		s.Resolved = q.Symbol
	case ResourceChart:
		c, ok := payload.(*models.HistoricalResponse)
		if !ok || c == nil {
			return false
		}
		s.Chart = c
	case ResourceTrend:
		text, ok := payload.(string)
		if !ok {
			return false
		}
		s.Trend = text
	case ResourceAnswer:
		text, ok := payload.(string)
		if !ok {
			return false
		}
		s.Answer = text
	default:
		return false
	}
	return true
}

func pushRecent(recent []string, sym string) []string {
	out := make([]string, 0, MaxRecentSearches)
	out = append(out, sym)
	for _, r := range recent {
		if len(out) == MaxRecentSearches {
			break
		}
		if r != sym {
			out = append(out, r)
		}
	}
	return slices.Clip(out)
}
