package services

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

const notAvailable = "N/A"

// fmtFloat renders v with the given decimals, or N/A
func fmtFloat(v null.Float, places int32) string {
	if !v.Valid {
		return notAvailable
	}
	return decimal.NewFromFloat(v.Float64).StringFixed(places)
}

// fmtRatioPercent renders a fraction such as 0.0123 as "1.23%"
func fmtRatioPercent(v null.Float) string {
	if !v.Valid {
		return notAvailable
	}
	return decimal.NewFromFloat(v.Float64).Shift(2).StringFixed(2) + "%"
}

// fmtGrouped renders an integer with thousands separators
func fmtGrouped(v null.Int) string {
	if !v.Valid {
		return notAvailable
	}
	return humanize.Comma(v.Int64)
}

// fmtGroupedFloat renders a large amount rounded to units with separators
func fmtGroupedFloat(v null.Float) string {
	if !v.Valid {
		return notAvailable
	}
	return humanize.Comma(decimal.NewFromFloat(v.Float64).Round(0).IntPart())
}

func fmtString(v null.String) string {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return notAvailable
	}
	return v.String
}
