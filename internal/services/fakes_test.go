package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guregu/null/v6"

	"stockpulse-api/internal/common"
	"stockpulse-api/internal/models"
)

type fakeQuotes struct {
	core    *models.QuoteCore
	coreErr error
	fund    *models.Fundamentals
	fundErr error

	quoteCalls atomic.Int32
	fundCalls  atomic.Int32

	mu      sync.Mutex
	symbols []string
}

func (f *fakeQuotes) GetQuote(ctx context.Context, symbol string) (*models.QuoteCore, error) {
	f.quoteCalls.Add(1)
	f.mu.Lock()
	f.symbols = append(f.symbols, symbol)
	f.mu.Unlock()
	if f.coreErr != nil {
		return nil, f.coreErr
	}
	c := *f.core
	return &c, nil
}

func (f *fakeQuotes) GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	f.fundCalls.Add(1)
	if f.fundErr != nil {
		return nil, f.fundErr
	}
	if f.fund == nil {
		return &models.Fundamentals{}, nil
	}
	fd := *f.fund
	return &fd, nil
}

type fakeGenerator struct {
	answer string
	err    error
	calls  atomic.Int32

	mu         sync.Mutex
	lastPrompt string
}

func (g *fakeGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.lastPrompt = prompt
	g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

type fakeChart struct {
	series *models.HistoricalSeries
	err    error

	gotSymbol   string
	gotInterval string
	gotStart    time.Time
	gotEnd      time.Time
}

func (c *fakeChart) GetChart(ctx context.Context, symbol, interval string, start, end time.Time) (*models.HistoricalSeries, error) {
	c.gotSymbol, c.gotInterval, c.gotStart, c.gotEnd = symbol, interval, start, end
	if c.err != nil {
		return nil, c.err
	}
	return c.series, nil
}

func testNormalizer() *SymbolNormalizer {
	return NewSymbolNormalizer(".BO", []string{".BO", ".NS", ".BSE"})
}

func silent() *common.Logger {
	return common.NewSilentLogger()
}

func relianceCore() *models.QuoteCore {
	return &models.QuoteCore{
		Symbol:                     "RELIANCE.BO",
		LongName:                   null.StringFrom("Reliance Industries Limited"),
		ShortName:                  null.StringFrom("RELIANCE"),
		Exchange:                   null.StringFrom("BSE"),
		QuoteType:                  null.StringFrom("EQUITY"),
		Currency:                   null.StringFrom("INR"),
		MarketState:                null.StringFrom("REGULAR"),
		RegularMarketPrice:         null.FloatFrom(2950.5),
		RegularMarketChange:        null.FloatFrom(12.25),
		RegularMarketChangePercent: null.FloatFrom(0.42),
		RegularMarketDayHigh:       null.FloatFrom(2962),
		RegularMarketDayLow:        null.FloatFrom(2930.1),
		RegularMarketTime:          null.IntFrom(1718000000),
		RegularMarketVolume:        null.IntFrom(123456),
		FiftyTwoWeekHigh:           null.FloatFrom(3217.9),
		FiftyTwoWeekLow:            null.FloatFrom(2220.3),
		MarketCap:                  null.FloatFrom(19.9e12),
	}
}

func relianceFundamentals() *models.Fundamentals {
	return &models.Fundamentals{
		TrailingPE:              null.FloatFrom(28.4),
		ForwardPE:               null.FloatFrom(24.2),
		PriceToBook:             null.FloatFrom(2.31),
		Beta:                    null.FloatFrom(0.92),
		FiftyTwoWeekHigh:        null.FloatFrom(3220),
		DividendYield:           null.FloatFrom(0.0034),
		EpsTrailing:             null.FloatFrom(103.9),
		EpsForward:              null.FloatFrom(121.9),
		TargetMeanPrice:         null.FloatFrom(3300),
		RecommendationKey:       null.StringFrom("buy"),
		NumberOfAnalystOpinions: null.IntFrom(31),
		RevenueGrowth:           null.FloatFrom(0.116),
	}
}
