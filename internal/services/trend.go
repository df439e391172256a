package services

import (
	"fmt"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"stockpulse-api/internal/models"
)

var hundred = decimal.NewFromInt(100)

// BuildTrendSummary describes the quote in a few sentences without calling a
// model. A quote without a current price cannot be summarized.
func BuildTrendSummary(q models.QuoteRecord) (string, error) {
	if !q.CurrentPrice.Valid {
		return "", &models.InsufficientDataError{Symbol: q.Symbol, Category: "price data"}
	}

	price := decimal.NewFromFloat(q.CurrentPrice.Float64)
	name := displayName(q)
	cur := ""
	if q.Currency.Valid && q.Currency.String != "" {
		cur = q.Currency.String + " "
	}

	var sentences []string

	opening := fmt.Sprintf("%s (%s) last traded at %s%s", name, q.Symbol, cur, price.StringFixed(2))
	if q.ChangeAbsolute.Valid && q.ChangePercent.Valid {
		change := decimal.NewFromFloat(q.ChangeAbsolute.Float64)
		direction := "up"
		if change.IsNegative() {
			direction = "down"
		} else if change.IsZero() {
			direction = "flat"
		}
		if direction == "flat" {
			opening += ", unchanged on the day"
		} else {
			opening += fmt.Sprintf(", %s %s (%s%%) on the day", direction,
				change.Abs().StringFixed(2),
				decimal.NewFromFloat(q.ChangePercent.Float64).Abs().StringFixed(2))
		}
	}
	sentences = append(sentences, opening+".")

	if s := rangeSentence(price, q.Week52Low, q.Week52High); s != "" {
		sentences = append(sentences, s)
	}

	if !q.IsIndex {
		if s := valuationSentence(q); s != "" {
			sentences = append(sentences, s)
		}
		if s := analystSentence(price, cur, q); s != "" {
			sentences = append(sentences, s)
		}
		if s := earningsSentence(q); s != "" {
			sentences = append(sentences, s)
		}
	}

	return strings.Join(sentences, " "), nil
}

func rangeSentence(price decimal.Decimal, lowV, highV null.Float) string {
	if !lowV.Valid || !highV.Valid {
		return ""
	}
	low := decimal.NewFromFloat(lowV.Float64)
	high := decimal.NewFromFloat(highV.Float64)
	span := high.Sub(low)
	if !span.IsPositive() || !low.IsPositive() {
		return ""
	}

	position := price.Sub(low).Div(span).Mul(hundred)
	fromHigh := high.Sub(price).Div(high).Mul(hundred)
	fromLow := price.Sub(low).Div(low).Mul(hundred)

	var zone string
	switch {
	case position.GreaterThanOrEqual(decimal.NewFromInt(80)):
		zone = "near the top of its 52-week range"
	case position.LessThanOrEqual(decimal.NewFromInt(20)):
		zone = "near the bottom of its 52-week range"
	default:
		zone = "in the middle of its 52-week range"
	}

	return fmt.Sprintf("It is trading %s (%s to %s), at %s%% of the range: %s%% below the 52-week high and %s%% above the 52-week low.",
		zone, low.StringFixed(2), high.StringFixed(2),
		position.StringFixed(1), fromHigh.StringFixed(1), fromLow.StringFixed(1))
}

func valuationSentence(q models.QuoteRecord) string {
	var parts []string
	if q.PETrailing.Valid {
		parts = append(parts, "trailing P/E "+fmtFloat(q.PETrailing, 2))
	}
	if q.PEForward.Valid {
		parts = append(parts, "forward P/E "+fmtFloat(q.PEForward, 2))
	}
	if q.PriceToBook.Valid {
		parts = append(parts, "price to book "+fmtFloat(q.PriceToBook, 2))
	}
	if q.DividendYield.Valid {
		parts = append(parts, "dividend yield "+fmtRatioPercent(q.DividendYield))
	}
	if len(parts) == 0 {
		return "Valuation ratios are not available."
	}
	return "Valuation: " + strings.Join(parts, ", ") + "."
}

func analystSentence(price decimal.Decimal, cur string, q models.QuoteRecord) string {
	if !q.AnalystRecommendationKey.Valid && !q.TargetMeanPrice.Valid {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Analysts")
	if q.AnalystRecommendationKey.Valid && q.AnalystRecommendationKey.String != "" {
		fmt.Fprintf(&sb, " rate it %q", strings.ReplaceAll(q.AnalystRecommendationKey.String, "_", " "))
		if q.NumberOfAnalystOpinions.Valid {
			fmt.Fprintf(&sb, " (%d opinions)", q.NumberOfAnalystOpinions.Int64)
		}
	}
	if q.TargetMeanPrice.Valid && price.IsPositive() {
		target := decimal.NewFromFloat(q.TargetMeanPrice.Float64)
		upside := target.Sub(price).Div(price).Mul(hundred)
		side := "above"
		if upside.IsNegative() {
			side = "below"
		}
		if sb.Len() > len("Analysts") {
			sb.WriteString(" with")
		}
		fmt.Fprintf(&sb, " a mean target of %s%s, %s%% %s the current price", cur, target.StringFixed(2), upside.Abs().StringFixed(1), side)
	}
	sb.WriteString(".")
	return sb.String()
}

func earningsSentence(q models.QuoteRecord) string {
	switch {
	case q.EPSTrailing.Valid && q.EPSForward.Valid:
		s := fmt.Sprintf("Trailing EPS is %s against a forward estimate of %s", fmtFloat(q.EPSTrailing, 2), fmtFloat(q.EPSForward, 2))
		trailing := decimal.NewFromFloat(q.EPSTrailing.Float64)
		if trailing.IsPositive() {
			growth := decimal.NewFromFloat(q.EPSForward.Float64).Sub(trailing).Div(trailing).Mul(hundred)
			s += fmt.Sprintf(", implying %s%% earnings growth", growth.StringFixed(1))
		}
		return s + "."
	case q.EPSTrailing.Valid:
		return fmt.Sprintf("Trailing EPS is %s.", fmtFloat(q.EPSTrailing, 2))
	case q.EPSForward.Valid:
		return fmt.Sprintf("Forward EPS is estimated at %s.", fmtFloat(q.EPSForward, 2))
	}
	return ""
}
