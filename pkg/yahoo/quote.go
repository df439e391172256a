package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/guregu/null/v6"

	"stockpulse-api/internal/models"
)

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteResponse"`
}

type quoteResult struct {
	Symbol                      string   `json:"symbol"`
	ShortName                   *string  `json:"shortName"`
	LongName                    *string  `json:"longName"`
	FullExchangeName            *string  `json:"fullExchangeName"`
	QuoteType                   *string  `json:"quoteType"`
	Currency                    *string  `json:"currency"`
	MarketState                 *string  `json:"marketState"`
	RegularMarketPrice          *float64 `json:"regularMarketPrice"`
	RegularMarketOpen           *float64 `json:"regularMarketOpen"`
	RegularMarketDayHigh        *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow         *float64 `json:"regularMarketDayLow"`
	RegularMarketChange         *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent  *float64 `json:"regularMarketChangePercent"`
	RegularMarketPreviousClose  *float64 `json:"regularMarketPreviousClose"`
	RegularMarketTime           *float64 `json:"regularMarketTime"`
	RegularMarketVolume         *float64 `json:"regularMarketVolume"`
	MarketCap                   *float64 `json:"marketCap"`
	TrailingPE                  *float64 `json:"trailingPE"`
	ForwardPE                   *float64 `json:"forwardPE"`
	PriceToBook                 *float64 `json:"priceToBook"`
	EpsTrailingTwelveMonths     *float64 `json:"epsTrailingTwelveMonths"`
	EpsForward                  *float64 `json:"epsForward"`
	TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield"`
	TrailingAnnualDividendRate  *float64 `json:"trailingAnnualDividendRate"`
	FiftyTwoWeekHigh            *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow             *float64 `json:"fiftyTwoWeekLow"`
	AverageDailyVolume3Month    *float64 `json:"averageDailyVolume3Month"`
	AverageDailyVolume10Day     *float64 `json:"averageDailyVolume10Day"`
}

// GetQuote fetches the real-time snapshot for one provider symbol
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.QuoteCore, error) {
	crumb, err := c.sessionCrumb(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbols", symbol)
	params.Set("crumb", crumb)

	var resp quoteResponse
	if err := c.get(ctx, "quote", c.queryURL+"/v7/finance/quote?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	if e := resp.QuoteResponse.Error; e != nil {
		if e.notFound() {
			return nil, models.NotFound(provider, "quote", errors.New(e.Description))
		}
		return nil, models.Transient(provider, "quote", 0, errors.New(e.Description))
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, models.NotFound(provider, "quote", fmt.Errorf("no quote for symbol %s", symbol))
	}

	r := resp.QuoteResponse.Result[0]
	return &models.QuoteCore{
		Symbol:                     r.Symbol,
		ShortName:                  null.StringFromPtr(r.ShortName),
		LongName:                   null.StringFromPtr(r.LongName),
		Exchange:                   null.StringFromPtr(r.FullExchangeName),
		QuoteType:                  null.StringFromPtr(r.QuoteType),
		Currency:                   null.StringFromPtr(r.Currency),
		MarketState:                null.StringFromPtr(r.MarketState),
		RegularMarketPrice:         null.FloatFromPtr(r.RegularMarketPrice),
		RegularMarketOpen:          null.FloatFromPtr(r.RegularMarketOpen),
		RegularMarketDayHigh:       null.FloatFromPtr(r.RegularMarketDayHigh),
		RegularMarketDayLow:        null.FloatFromPtr(r.RegularMarketDayLow),
		RegularMarketChange:        null.FloatFromPtr(r.RegularMarketChange),
		RegularMarketChangePercent: null.FloatFromPtr(r.RegularMarketChangePercent),
		RegularMarketPreviousClose: null.FloatFromPtr(r.RegularMarketPreviousClose),
		RegularMarketTime:          intFromPtr(r.RegularMarketTime),
		RegularMarketVolume:        intFromPtr(r.RegularMarketVolume),
		MarketCap:                  null.FloatFromPtr(r.MarketCap),
		TrailingPE:                 null.FloatFromPtr(r.TrailingPE),
		ForwardPE:                  null.FloatFromPtr(r.ForwardPE),
		PriceToBook:                null.FloatFromPtr(r.PriceToBook),
		EpsTrailing:                null.FloatFromPtr(r.EpsTrailingTwelveMonths),
		EpsForward:                 null.FloatFromPtr(r.EpsForward),
		DividendYield:              null.FloatFromPtr(r.TrailingAnnualDividendYield),
		DividendRate:               null.FloatFromPtr(r.TrailingAnnualDividendRate),
		FiftyTwoWeekHigh:           null.FloatFromPtr(r.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:            null.FloatFromPtr(r.FiftyTwoWeekLow),
		AverageVolume:              intFromPtr(r.AverageDailyVolume3Month),
		AverageVolume10Day:         intFromPtr(r.AverageDailyVolume10Day),
	}, nil
}

// rawValue is the {"raw": 1.2, "fmt": "1.20"} wrapper quoteSummary uses.
// Missing values arrive as {} and decode to a nil Raw.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (v rawValue) float() null.Float {
	return null.FloatFromPtr(v.Raw)
}

func (v rawValue) int() null.Int {
	return intFromPtr(v.Raw)
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	SummaryDetail *struct {
		MarketCap           rawValue `json:"marketCap"`
		TrailingPE          rawValue `json:"trailingPE"`
		ForwardPE           rawValue `json:"forwardPE"`
		DividendYield       rawValue `json:"dividendYield"`
		DividendRate        rawValue `json:"dividendRate"`
		Beta                rawValue `json:"beta"`
		FiftyTwoWeekHigh    rawValue `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow     rawValue `json:"fiftyTwoWeekLow"`
		AverageVolume       rawValue `json:"averageVolume"`
		AverageVolume10days rawValue `json:"averageVolume10days"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics *struct {
		PriceToBook     rawValue `json:"priceToBook"`
		TrailingEps     rawValue `json:"trailingEps"`
		ForwardEps      rawValue `json:"forwardEps"`
		EnterpriseValue rawValue `json:"enterpriseValue"`
		Beta            rawValue `json:"beta"`
	} `json:"defaultKeyStatistics"`
	FinancialData *struct {
		TargetMeanPrice         rawValue `json:"targetMeanPrice"`
		RecommendationKey       *string  `json:"recommendationKey"`
		NumberOfAnalystOpinions rawValue `json:"numberOfAnalystOpinions"`
		RevenueGrowth           rawValue `json:"revenueGrowth"`
	} `json:"financialData"`
}

const fundamentalsModules = "summaryDetail,defaultKeyStatistics,financialData"

// GetFundamentals fetches valuation ratios and analyst data. Modules missing
// from the response leave their fields null.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	crumb, err := c.sessionCrumb(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("modules", fundamentalsModules)
	params.Set("crumb", crumb)
	reqURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.queryURL, url.PathEscape(symbol), params.Encode())

	var resp quoteSummaryResponse
	if err := c.get(ctx, "quoteSummary", reqURL, &resp); err != nil {
		return nil, err
	}

	if e := resp.QuoteSummary.Error; e != nil {
		if e.notFound() {
			return nil, models.NotFound(provider, "quoteSummary", errors.New(e.Description))
		}
		return nil, models.Transient(provider, "quoteSummary", 0, errors.New(e.Description))
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, models.NotFound(provider, "quoteSummary", fmt.Errorf("no fundamentals for symbol %s", symbol))
	}

	r := resp.QuoteSummary.Result[0]
	f := &models.Fundamentals{}

	if sd := r.SummaryDetail; sd != nil {
		f.MarketCap = sd.MarketCap.float()
		f.TrailingPE = sd.TrailingPE.float()
		f.ForwardPE = sd.ForwardPE.float()
		f.DividendYield = sd.DividendYield.float()
		f.DividendRate = sd.DividendRate.float()
		f.Beta = sd.Beta.float()
		f.FiftyTwoWeekHigh = sd.FiftyTwoWeekHigh.float()
		f.FiftyTwoWeekLow = sd.FiftyTwoWeekLow.float()
		f.AverageVolume = sd.AverageVolume.int()
		f.AverageVolume10Day = sd.AverageVolume10days.int()
	}
	if ks := r.DefaultKeyStatistics; ks != nil {
		f.PriceToBook = ks.PriceToBook.float()
		f.EpsTrailing = ks.TrailingEps.float()
		f.EpsForward = ks.ForwardEps.float()
		f.EnterpriseValue = ks.EnterpriseValue.float()
		if !f.Beta.Valid {
			f.Beta = ks.Beta.float()
		}
	}
	if fd := r.FinancialData; fd != nil {
		f.TargetMeanPrice = fd.TargetMeanPrice.float()
		f.RecommendationKey = null.StringFromPtr(fd.RecommendationKey)
		f.NumberOfAnalystOpinions = fd.NumberOfAnalystOpinions.int()
		f.RevenueGrowth = fd.RevenueGrowth.float()
	}

	return f, nil
}

func intFromPtr(p *float64) null.Int {
	if p == nil {
		return null.Int{}
	}
	return null.IntFrom(int64(*p))
}
