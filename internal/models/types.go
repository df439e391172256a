package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// NormalizedSymbol is a user-entered ticker resolved to the provider convention
type NormalizedSymbol struct {
	Raw      string `json:"raw"`
	Resolved string `json:"resolved"`
	IsIndex  bool   `json:"isIndex"`
}

func (s NormalizedSymbol) String() string {
	return s.Resolved
}

// QuoteCore is the real-time snapshot returned by the primary quote endpoint
type QuoteCore struct {
	Symbol                     string
	ShortName                  null.String
	LongName                   null.String
	Exchange                   null.String
	QuoteType                  null.String
	Currency                   null.String
	MarketState                null.String
	RegularMarketPrice         null.Float
	RegularMarketOpen          null.Float
	RegularMarketDayHigh       null.Float
	RegularMarketDayLow        null.Float
	RegularMarketChange        null.Float
	RegularMarketChangePercent null.Float
	RegularMarketPreviousClose null.Float
	RegularMarketTime          null.Int
	RegularMarketVolume        null.Int
	MarketCap                  null.Float
	TrailingPE                 null.Float
	ForwardPE                  null.Float
	PriceToBook                null.Float
	EpsTrailing                null.Float
	EpsForward                 null.Float
	DividendYield              null.Float
	DividendRate               null.Float
	FiftyTwoWeekHigh           null.Float
	FiftyTwoWeekLow            null.Float
	AverageVolume              null.Int
	AverageVolume10Day         null.Int
}

// Fundamentals holds valuation and analyst data from the quoteSummary modules.
// The zero value is the "nothing available" result.
type Fundamentals struct {
	MarketCap               null.Float
	TrailingPE              null.Float
	ForwardPE               null.Float
	PriceToBook             null.Float
	DividendYield           null.Float
	DividendRate            null.Float
	Beta                    null.Float
	FiftyTwoWeekHigh        null.Float
	FiftyTwoWeekLow         null.Float
	AverageVolume           null.Int
	AverageVolume10Day      null.Int
	EpsTrailing             null.Float
	EpsForward              null.Float
	TargetMeanPrice         null.Float
	RecommendationKey       null.String
	NumberOfAnalystOpinions null.Int
	EnterpriseValue         null.Float
	RevenueGrowth           null.Float
}

// QuoteRecord is the merged quote sent to clients and used to build prompts.
// Every field is always serialized; unavailable values are JSON null.
type QuoteRecord struct {
	Symbol                   string      `json:"symbol"`
	IsIndex                  bool        `json:"isIndex"`
	DisplayName              null.String `json:"displayName"`
	Exchange                 null.String `json:"exchange"`
	QuoteType                null.String `json:"quoteType"`
	Currency                 null.String `json:"currency"`
	MarketState              null.String `json:"marketState"`
	CurrentPrice             null.Float  `json:"currentPrice"`
	Open                     null.Float  `json:"open"`
	PreviousClose            null.Float  `json:"previousClose"`
	DayHigh                  null.Float  `json:"dayHigh"`
	DayLow                   null.Float  `json:"dayLow"`
	ChangeAbsolute           null.Float  `json:"changeAbsolute"`
	ChangePercent            null.Float  `json:"changePercent"`
	MarketTimeEpoch          null.Int    `json:"marketTimeEpoch"`
	Volume                   null.Int    `json:"volume"`
	MarketCap                null.Float  `json:"marketCap"`
	PETrailing               null.Float  `json:"peTrailing"`
	PEForward                null.Float  `json:"peForward"`
	PriceToBook              null.Float  `json:"priceToBook"`
	DividendYield            null.Float  `json:"dividendYield"`
	DividendRate             null.Float  `json:"dividendRate"`
	Beta                     null.Float  `json:"beta"`
	Week52High               null.Float  `json:"week52High"`
	Week52Low                null.Float  `json:"week52Low"`
	AverageVolume            null.Int    `json:"averageVolume"`
	AvgVolume10Day           null.Int    `json:"avgVolume10Day"`
	EPSTrailing              null.Float  `json:"epsTrailing"`
	EPSForward               null.Float  `json:"epsForward"`
	TargetMeanPrice          null.Float  `json:"targetMeanPrice"`
	AnalystRecommendationKey null.String `json:"analystRecommendationKey"`
	NumberOfAnalystOpinions  null.Int    `json:"numberOfAnalystOpinions"`
	EnterpriseValue          null.Float  `json:"enterpriseValue"`
	RevenueGrowth            null.Float  `json:"revenueGrowth"`
}

// SeriesPoint is one close sample of a historical series
type SeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Close     float64   `json:"close"`
}

// HistoricalSeries is an ascending close series for one symbol
type HistoricalSeries struct {
	Symbol      string        `json:"symbol"`
	Interval    string        `json:"interval"`
	Range       string        `json:"range"`
	PeriodStart time.Time     `json:"periodStart"`
	PeriodEnd   time.Time     `json:"periodEnd"`
	Currency    string        `json:"currency,omitempty"`
	Points      []SeriesPoint `json:"points"`
}

// ChartInterval is one entry of the fixed chart interval menu
type ChartInterval struct {
	Label    string `json:"label"`
	Interval string `json:"interval"`
	Range    string `json:"range"`
}

// ChartSeries matches the series shape the charting client expects
type ChartSeries struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// ChartMetadata describes the window a chart response covers
type ChartMetadata struct {
	Interval    string    `json:"interval"`
	Range       string    `json:"range"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	Points      int       `json:"points"`
	Currency    string    `json:"currency,omitempty"`
	Timestamps  []int64   `json:"timestamps"`
}

// HistoricalResponse is the body of GET /api/stock/historical/:symbol
type HistoricalResponse struct {
	Symbol     string        `json:"symbol"`
	Series     []ChartSeries `json:"series"`
	Categories []string      `json:"categories"`
	Metadata   ChartMetadata `json:"metadata"`
}

// PromptMode selects one of the prompt templates
type PromptMode int

const (
	TrendSummary PromptMode = iota
	FundamentalsAnalysis
	FreeformQuestion
)

func (m PromptMode) String() string {
	switch m {
	case TrendSummary:
		return "trend-summary"
	case FundamentalsAnalysis:
		return "fundamentals"
	case FreeformQuestion:
		return "question"
	}
	return "unknown"
}

// PromptContext is the input of the prompt assembler
type PromptContext struct {
	Mode     PromptMode
	Quote    QuoteRecord
	Question string
}

// SearchCandidate is one symbol search suggestion
type SearchCandidate struct {
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Exchange  string `json:"exchange"`
	QuoteType string `json:"quoteType"`
}

// SearchResponse is the body of GET /api/symbol-search
type SearchResponse struct {
	BestMatches []SearchCandidate `json:"bestMatches"`
}

// Mover is one row of the market gainers/losers tables
type Mover struct {
	Symbol                     string     `json:"symbol"`
	ShortName                  string     `json:"shortName"`
	RegularMarketPrice         null.Float `json:"regularMarketPrice"`
	RegularMarketChange        null.Float `json:"regularMarketChange"`
	RegularMarketChangePercent null.Float `json:"regularMarketChangePercent"`
}

// MoverKind selects the gainers or losers table
type MoverKind string

const (
	Gainers MoverKind = "gainers"
	Losers  MoverKind = "losers"
)

// AskAIRequest is the body of POST /api/ask-ai
type AskAIRequest struct {
	Symbol   string `json:"symbol"`
	Question string `json:"question"`
	Mode     string `json:"mode,omitempty"`
}

// AskAIResponse is returned by POST /api/ask-ai
type AskAIResponse struct {
	Symbol string `json:"symbol"`
	Answer string `json:"answer"`
}

// TrendSummaryResponse is returned by GET /api/trend-summary
type TrendSummaryResponse struct {
	Symbol       string `json:"symbol"`
	TrendSummary string `json:"trendSummary"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
