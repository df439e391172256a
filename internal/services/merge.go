package services

import (
	"github.com/guregu/null/v6"

	"stockpulse-api/internal/models"
)

// MergeQuote combines the core quote with fundamentals. Fields carried by both
// sources take the fundamentals value when present; everything missing stays
// null. A failed fundamentals fetch is passed in as the zero Fundamentals.
func MergeQuote(sym models.NormalizedSymbol, core models.QuoteCore, fund models.Fundamentals) models.QuoteRecord {
	return models.QuoteRecord{
		Symbol:      sym.Resolved,
		IsIndex:     sym.IsIndex,
		DisplayName: firstString(core.LongName, core.ShortName),
		Exchange:    core.Exchange,
		QuoteType:   core.QuoteType,
		Currency:    core.Currency,
		MarketState: core.MarketState,

		CurrentPrice:    core.RegularMarketPrice,
		Open:            core.RegularMarketOpen,
		PreviousClose:   core.RegularMarketPreviousClose,
		DayHigh:         core.RegularMarketDayHigh,
		DayLow:          core.RegularMarketDayLow,
		ChangeAbsolute:  core.RegularMarketChange,
		ChangePercent:   core.RegularMarketChangePercent,
		MarketTimeEpoch: core.RegularMarketTime,
		Volume:          core.RegularMarketVolume,

		MarketCap:      firstFloat(fund.MarketCap, core.MarketCap),
		PETrailing:     firstFloat(fund.TrailingPE, core.TrailingPE),
		PEForward:      firstFloat(fund.ForwardPE, core.ForwardPE),
		PriceToBook:    firstFloat(fund.PriceToBook, core.PriceToBook),
		DividendYield:  firstFloat(fund.DividendYield, core.DividendYield),
		DividendRate:   firstFloat(fund.DividendRate, core.DividendRate),
		Beta:           fund.Beta,
		Week52High:     firstFloat(fund.FiftyTwoWeekHigh, core.FiftyTwoWeekHigh),
		Week52Low:      firstFloat(fund.FiftyTwoWeekLow, core.FiftyTwoWeekLow),
		AverageVolume:  firstInt(fund.AverageVolume, core.AverageVolume),
		AvgVolume10Day: firstInt(fund.AverageVolume10Day, core.AverageVolume10Day),
		EPSTrailing:    firstFloat(fund.EpsTrailing, core.EpsTrailing),
		EPSForward:     firstFloat(fund.EpsForward, core.EpsForward),

		TargetMeanPrice:          fund.TargetMeanPrice,
		AnalystRecommendationKey: fund.RecommendationKey,
		NumberOfAnalystOpinions:  fund.NumberOfAnalystOpinions,
		EnterpriseValue:          fund.EnterpriseValue,
		RevenueGrowth:            fund.RevenueGrowth,
	}
}

func firstFloat(values ...null.Float) null.Float {
	for _, v := range values {
		if v.Valid {
			return v
		}
	}
	return null.Float{}
}

func firstInt(values ...null.Int) null.Int {
	for _, v := range values {
		if v.Valid {
			return v
		}
	}
	return null.Int{}
}

func firstString(values ...null.String) null.String {
	for _, v := range values {
		if v.Valid && v.String != "" {
			return v
		}
	}
	return null.String{}
}
