package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpulse-api/internal/models"
)

type fixture struct {
	srv        *httptest.Server
	client     *Client
	crumbCalls atomic.Int32
}

// newTestServer serves the crumb handshake plus the given routes
func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) *fixture {
	t.Helper()
	f := &fixture{}
	mux := http.NewServeMux()
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "A3", Value: "cookie"})
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/v1/test/getcrumb", func(w http.ResponseWriter, r *http.Request) {
		f.crumbCalls.Add(1)
		w.Write([]byte("crumb-123"))
	})
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	f.client = NewClient(
		WithQueryURL(f.srv.URL),
		WithSessionURL(f.srv.URL+"/session"),
		WithMoversURL(f.srv.URL),
		WithTimeout(2*time.Second),
	)
	return f
}

func TestGetQuote_ParsesResponse(t *testing.T) {
	var gotCrumb, gotSymbols string
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v7/finance/quote": func(w http.ResponseWriter, r *http.Request) {
			gotCrumb = r.URL.Query().Get("crumb")
			gotSymbols = r.URL.Query().Get("symbols")
			w.Write([]byte(`{"quoteResponse":{"result":[{
				"symbol":"RELIANCE.BO","longName":"Reliance Industries Limited",
				"fullExchangeName":"BSE","currency":"INR","quoteType":"EQUITY",
				"regularMarketPrice":2950.5,"regularMarketChange":12.25,
				"regularMarketChangePercent":0.42,"regularMarketTime":1718000000,
				"regularMarketVolume":123456,"fiftyTwoWeekHigh":3200,"trailingPE":28.4
			}],"error":null}}`))
		},
	})

	quote, err := f.client.GetQuote(context.Background(), "RELIANCE.BO")
	require.NoError(t, err)

	assert.Equal(t, "crumb-123", gotCrumb)
	assert.Equal(t, "RELIANCE.BO", gotSymbols)
	assert.Equal(t, "RELIANCE.BO", quote.Symbol)
	assert.Equal(t, "Reliance Industries Limited", quote.LongName.String)
	assert.False(t, quote.ShortName.Valid)
	assert.Equal(t, 2950.5, quote.RegularMarketPrice.Float64)
	assert.Equal(t, int64(1718000000), quote.RegularMarketTime.Int64)
	assert.Equal(t, int64(123456), quote.RegularMarketVolume.Int64)
	assert.Equal(t, 28.4, quote.TrailingPE.Float64)
	assert.False(t, quote.ForwardPE.Valid)
}

func TestGetQuote_EmptyResultIsNotFound(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v7/finance/quote": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"quoteResponse":{"result":[],"error":null}}`))
		},
	})

	_, err := f.client.GetQuote(context.Background(), "NOPE.BO")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.False(t, models.IsRetryable(err))
}

func TestGetQuote_ProviderNotFoundError(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v7/finance/quote": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"quoteResponse":{"result":null,"error":{"code":"Not Found","description":"No data found for symbol"}}}`))
		},
	})

	_, err := f.client.GetQuote(context.Background(), "NOPE.BO")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.False(t, models.IsRetryable(err))
}

func TestGetQuote_ProviderErrorIsTransient(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v7/finance/quote": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"quoteResponse":{"result":null,"error":{"code":"Internal Server Error","description":"backend timeout"}}}`))
		},
	})

	_, err := f.client.GetQuote(context.Background(), "TCS.BO")
	require.Error(t, err)
	assert.True(t, models.IsRetryable(err))
}

func TestGetQuote_ServerErrorIsTransient(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v7/finance/quote": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
	})

	_, err := f.client.GetQuote(context.Background(), "TCS.BO")
	require.Error(t, err)
	assert.True(t, models.IsRetryable(err))

	var upErr *models.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusBadGateway, upErr.StatusCode)
}

func TestGetQuote_UnauthorizedResetsCrumb(t *testing.T) {
	var quoteCalls atomic.Int32
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v7/finance/quote": func(w http.ResponseWriter, r *http.Request) {
			if quoteCalls.Add(1) == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"TCS.BO"}]}}`))
		},
	})

	_, err := f.client.GetQuote(context.Background(), "TCS.BO")
	require.Error(t, err)
	assert.True(t, models.IsRetryable(err))

	quote, err := f.client.GetQuote(context.Background(), "TCS.BO")
	require.NoError(t, err)
	assert.Equal(t, "TCS.BO", quote.Symbol)
	assert.Equal(t, int32(2), f.crumbCalls.Load(), "crumb is fetched again after a 401")
}

func TestGetQuote_CrumbReused(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v7/finance/quote": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"TCS.BO"}]}}`))
		},
	})

	for i := 0; i < 3; i++ {
		_, err := f.client.GetQuote(context.Background(), "TCS.BO")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), f.crumbCalls.Load())
}

func TestGetQuote_TransportFailureIsTransient(t *testing.T) {
	client := NewClient(WithQueryURL("http://127.0.0.1:1"), WithSessionURL("http://127.0.0.1:1"), WithTimeout(500*time.Millisecond))

	_, err := client.GetQuote(context.Background(), "TCS.BO")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrTransientUpstream))
}

func TestGetFundamentals_PartialModules(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v10/finance/quoteSummary/INFY.BO": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, fundamentalsModules, r.URL.Query().Get("modules"))
			w.Write([]byte(`{"quoteSummary":{"result":[{
				"summaryDetail":{"trailingPE":{"raw":24.1,"fmt":"24.10"},"forwardPE":{},"averageVolume10days":{"raw":900000}},
				"defaultKeyStatistics":{"priceToBook":{"raw":7.5},"beta":{"raw":0.8}},
				"financialData":{"recommendationKey":"buy","numberOfAnalystOpinions":{"raw":31}}
			}],"error":null}}`))
		},
	})

	fund, err := f.client.GetFundamentals(context.Background(), "INFY.BO")
	require.NoError(t, err)

	assert.Equal(t, 24.1, fund.TrailingPE.Float64)
	assert.False(t, fund.ForwardPE.Valid)
	assert.Equal(t, int64(900000), fund.AverageVolume10Day.Int64)
	assert.Equal(t, 7.5, fund.PriceToBook.Float64)
	assert.Equal(t, 0.8, fund.Beta.Float64, "beta falls back to key statistics")
	assert.Equal(t, "buy", fund.RecommendationKey.String)
	assert.Equal(t, int64(31), fund.NumberOfAnalystOpinions.Int64)
	assert.False(t, fund.TargetMeanPrice.Valid)
	assert.False(t, fund.EnterpriseValue.Valid)
}

func TestGetFundamentals_NotFound(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v10/finance/quoteSummary/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found"}}}`))
		},
	})

	_, err := f.client.GetFundamentals(context.Background(), "NOPE.BO")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestGetChart_DropsNullCloses(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5)

	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v8/finance/chart/TCS.BO": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "1718409600", q.Get("period2"))
			assert.Equal(t, "1717977600", q.Get("period1"))
			assert.Equal(t, "1d", q.Get("interval"))
			w.Write([]byte(`{"chart":{"result":[{
				"meta":{"symbol":"TCS.BO","currency":"INR"},
				"timestamp":[1717991100,1718077500,1718163900],
				"indicators":{"quote":[{"close":[3800.5,null,3850.25]}]}
			}],"error":null}}`))
		},
	})

	series, err := f.client.GetChart(context.Background(), "TCS.BO", "1d", start, end)
	require.NoError(t, err)

	assert.Equal(t, "INR", series.Currency)
	require.Len(t, series.Points, 2)
	assert.Equal(t, 3800.5, series.Points[0].Close)
	assert.Equal(t, int64(1718163900), series.Points[1].Timestamp.Unix())
}

func TestGetChart_NoResultIsEmpty(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v8/finance/chart/TCS.BO": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chart":{"result":[{"meta":{"currency":"INR"},"indicators":{"quote":[{}]}}],"error":null}}`))
		},
	})

	series, err := f.client.GetChart(context.Background(), "TCS.BO", "1wk", time.Unix(0, 0), time.Now())
	require.NoError(t, err)
	assert.Empty(t, series.Points)
}

func TestGetChart_NotFoundError(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v8/finance/chart/": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
		},
	})

	_, err := f.client.GetChart(context.Background(), "GONE.BO", "1d", time.Unix(0, 0), time.Now())
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSearch_MapsQuotes(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/v1/finance/search": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "reli", r.URL.Query().Get("q"))
			assert.Equal(t, "7", r.URL.Query().Get("quotesCount"))
			w.Write([]byte(`{"quotes":[
				{"symbol":"RELIANCE.NS","shortname":"RELIANCE IND","longname":"Reliance Industries Limited","exchange":"NSI","exchDisp":"NSE","quoteType":"EQUITY"},
				{"shortname":"news item without symbol"},
				{"symbol":"RELINFRA.BO","shortname":"RELIANCE INFRA","exchange":"BSE","quoteType":"EQUITY"}
			]}`))
		},
	})

	got, err := f.client.Search(context.Background(), "reli", 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.SearchCandidate{Symbol: "RELIANCE.NS", Name: "Reliance Industries Limited", Exchange: "NSE", QuoteType: "EQUITY"}, got[0])
	assert.Equal(t, "RELIANCE INFRA", got[1].Name)
	assert.Equal(t, "BSE", got[1].Exchange)
}
