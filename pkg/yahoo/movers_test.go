package yahoo

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpulse-api/internal/models"
)

const gainersPage = `<html><body>
<div id="scr-res-table"><table><tbody>
<tr>
  <td><a data-test="quoteLink" href="/quote/ADANIENT.NS">ADANIENT.NS</a></td>
  <td>Adani Enterprises Limited</td>
  <td>3,120.40</td>
  <td>3:29 PM IST</td>
  <td>+152.30</td>
  <td>+5.13%</td>
</tr>
<tr>
  <td><a href="/quote/SUSPENDED.NS">SUSPENDED.NS</a></td>
  <td>Suspended Co</td>
  <td>N/A</td>
  <td></td>
  <td>-</td>
  <td>-</td>
</tr>
<tr>
  <td><a href="/quote/TATAMOTORS.NS">TATAMOTORS.NS</a></td>
  <td>Tata Motors Limited</td>
  <td>980.15</td>
  <td>3:29 PM IST</td>
  <td>+40.05</td>
  <td>+4.26%</td>
</tr>
<tr>
  <td>HDFCBANK.NS</td>
  <td>HDFC Bank Limited</td>
  <td>1,650.00</td>
  <td>3:29 PM IST</td>
  <td>+50.00</td>
  <td>+3.13%</td>
</tr>
</tbody></table></div>
</body></html>`

const fallbackLosersPage = `<html><body>
<table><tbody>
<tr><td colspan="6">Header row</td></tr>
<tr>
  <td><a href="/quote/INFY.NS">INFY.NS</a></td>
  <td>Infosys Limited</td>
  <td>1,420.55</td>
  <td>3:29 PM IST</td>
  <td>-60.20</td>
  <td>-4.07%</td>
</tr>
</tbody></table>
</body></html>`

func TestScrapeMovers_PrimaryLayout(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/gainers": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(gainersPage))
		},
	})

	movers, err := f.client.ScrapeMovers(context.Background(), models.Gainers, 5)
	require.NoError(t, err)
	require.Len(t, movers, 3, "rows without a price are skipped")

	assert.Equal(t, "ADANIENT.NS", movers[0].Symbol)
	assert.Equal(t, "Adani Enterprises Limited", movers[0].ShortName)
	assert.Equal(t, 3120.40, movers[0].RegularMarketPrice.Float64)
	assert.Equal(t, 152.30, movers[0].RegularMarketChange.Float64)
	assert.Equal(t, 5.13, movers[0].RegularMarketChangePercent.Float64)

	assert.Equal(t, "TATAMOTORS.NS", movers[1].Symbol)
	assert.Equal(t, "HDFCBANK.NS", movers[2].Symbol, "symbol falls back to cell text")
}

func TestScrapeMovers_RespectsCount(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/gainers": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(gainersPage))
		},
	})

	movers, err := f.client.ScrapeMovers(context.Background(), models.Gainers, 1)
	require.NoError(t, err)
	require.Len(t, movers, 1)
	assert.Equal(t, "ADANIENT.NS", movers[0].Symbol)
}

func TestScrapeMovers_NonPositiveCountUsesDefault(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/gainers": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(gainersPage))
		},
	})

	for _, count := range []int{0, -3} {
		movers, err := f.client.ScrapeMovers(context.Background(), models.Gainers, count)
		require.NoError(t, err, "count %d", count)
		assert.Len(t, movers, 3, "count %d", count)
	}
}

func TestScrapeMovers_FallbackSelector(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/losers": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(fallbackLosersPage))
		},
	})

	movers, err := f.client.ScrapeMovers(context.Background(), models.Losers, 5)
	require.NoError(t, err)
	require.Len(t, movers, 1)
	assert.Equal(t, "INFY.NS", movers[0].Symbol)
	assert.Equal(t, -60.20, movers[0].RegularMarketChange.Float64)
	assert.Equal(t, -4.07, movers[0].RegularMarketChangePercent.Float64)
}

func TestScrapeMovers_UnknownLayoutIsEmpty(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/gainers": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><body><p>Something went wrong</p></body></html>`))
		},
	})

	movers, err := f.client.ScrapeMovers(context.Background(), models.Gainers, 5)
	require.NoError(t, err)
	assert.Empty(t, movers)
}

func TestScrapeMovers_UpstreamFailure(t *testing.T) {
	f := newTestServer(t, map[string]http.HandlerFunc{
		"/losers": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
	})

	_, err := f.client.ScrapeMovers(context.Background(), models.Losers, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrTransientUpstream))
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, 12.5, parseNumber("+12.5").Float64)
	assert.Equal(t, -3.0, parseNumber("-3").Float64)
	assert.False(t, parseNumber("").Valid)
	assert.False(t, parseNumber("N/A").Valid)
}
