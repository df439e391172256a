package services

import (
	"fmt"
	"strings"

	"stockpulse-api/internal/models"
)

// FundamentalsQuestion is the canned question the dashboard sends to request a
// fundamentals analysis instead of a free-form answer.
const FundamentalsQuestion = "Generate an analysis of the provided financial fundamentals."

const defaultQuestion = "Provide a general overview"

const dataOnlyRules = `IMPORTANT INSTRUCTIONS:
- Base your answer ONLY on the data provided below.
- Do NOT use any external knowledge or real-time information.
- Do NOT provide financial advice, buy/sell recommendations or price predictions.
`

// PromptAssembler turns a merged quote into model prompts
type PromptAssembler struct{}

func NewPromptAssembler() *PromptAssembler {
	return &PromptAssembler{}
}

// Build renders the prompt for ctx.Mode. TrendSummary needs no model and
// returns the finished summary text.
func (a *PromptAssembler) Build(ctx models.PromptContext) (string, error) {
	switch ctx.Mode {
	case models.TrendSummary:
		return BuildTrendSummary(ctx.Quote)
	case models.FundamentalsAnalysis:
		if ctx.Quote.IsIndex {
			return indexOverviewPrompt(ctx.Quote), nil
		}
		if err := requireValuation(ctx.Quote); err != nil {
			return "", err
		}
		return fundamentalsPrompt(ctx.Quote), nil
	case models.FreeformQuestion:
		return questionPrompt(ctx.Quote, ctx.Question), nil
	}
	return "", fmt.Errorf("%w: unknown prompt mode %d", models.ErrInvalidArgument, ctx.Mode)
}

// requireValuation rejects company analyses with no valuation metric at all
func requireValuation(q models.QuoteRecord) error {
	if q.PETrailing.Valid || q.PEForward.Valid || q.PriceToBook.Valid || q.EPSTrailing.Valid {
		return nil
	}
	return &models.InsufficientDataError{Symbol: q.Symbol, Category: "valuation metrics"}
}

func displayName(q models.QuoteRecord) string {
	if q.DisplayName.Valid && q.DisplayName.String != "" {
		return q.DisplayName.String
	}
	return q.Symbol
}

func currency(q models.QuoteRecord) string {
	if q.Currency.Valid && q.Currency.String != "" {
		return q.Currency.String
	}
	return notAvailable
}

func fundamentalsPrompt(q models.QuoteRecord) string {
	name := displayName(q)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a financial analyst assistant. Summarize and interpret the key financial fundamentals of %s (%s).\n\n", name, q.Symbol)
	sb.WriteString(dataOnlyRules)
	sb.WriteString("- Explain in plain terms what the valuation, income and analyst metrics indicate about the company.\n")
	sb.WriteString("- When a value is N/A, say that the information is not available. Do not estimate it.\n")
	sb.WriteString("- Keep it to 3-5 short paragraphs or bullet points.\n\n")

	fmt.Fprintf(&sb, "Data for %s (%s):\n", name, q.Symbol)
	fmt.Fprintf(&sb, "- Exchange: %s\n", fmtString(q.Exchange))
	fmt.Fprintf(&sb, "- Current Price (%s): %s\n", currency(q), fmtFloat(q.CurrentPrice, 2))
	fmt.Fprintf(&sb, "- Day Change: %s (%s%%)\n", fmtFloat(q.ChangeAbsolute, 2), fmtFloat(q.ChangePercent, 2))
	fmt.Fprintf(&sb, "- Market Cap: %s\n", fmtGroupedFloat(q.MarketCap))
	fmt.Fprintf(&sb, "- Enterprise Value: %s\n", fmtGroupedFloat(q.EnterpriseValue))
	fmt.Fprintf(&sb, "- P/E Ratio (Trailing): %s\n", fmtFloat(q.PETrailing, 2))
	fmt.Fprintf(&sb, "- P/E Ratio (Forward): %s\n", fmtFloat(q.PEForward, 2))
	fmt.Fprintf(&sb, "- EPS (Trailing TTM): %s\n", fmtFloat(q.EPSTrailing, 2))
	fmt.Fprintf(&sb, "- EPS (Forward): %s\n", fmtFloat(q.EPSForward, 2))
	fmt.Fprintf(&sb, "- Price to Book: %s\n", fmtFloat(q.PriceToBook, 2))
	fmt.Fprintf(&sb, "- Dividend Yield: %s\n", fmtRatioPercent(q.DividendYield))
	fmt.Fprintf(&sb, "- Dividend Rate: %s\n", fmtFloat(q.DividendRate, 2))
	fmt.Fprintf(&sb, "- Beta: %s\n", fmtFloat(q.Beta, 2))
	fmt.Fprintf(&sb, "- Revenue Growth (YoY): %s\n", fmtRatioPercent(q.RevenueGrowth))
	fmt.Fprintf(&sb, "- 52 Week Range: %s - %s\n", fmtFloat(q.Week52Low, 2), fmtFloat(q.Week52High, 2))
	fmt.Fprintf(&sb, "- Average Volume (3 Month): %s\n", fmtGrouped(q.AverageVolume))
	fmt.Fprintf(&sb, "- Average Volume (10 Day): %s\n", fmtGrouped(q.AvgVolume10Day))
	fmt.Fprintf(&sb, "- Analyst Recommendation: %s\n", fmtString(q.AnalystRecommendationKey))
	fmt.Fprintf(&sb, "- Number of Analyst Opinions: %s\n", fmtGrouped(q.NumberOfAnalystOpinions))
	fmt.Fprintf(&sb, "- Target Mean Price: %s\n", fmtFloat(q.TargetMeanPrice, 2))
	sb.WriteString("\nFundamental analysis:\n")

	return sb.String()
}

func indexOverviewPrompt(q models.QuoteRecord) string {
	name := displayName(q)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a financial analyst assistant. Give an overview of the market index %s (%s).\n\n", name, q.Symbol)
	sb.WriteString(dataOnlyRules)
	sb.WriteString("- Explain that company ratios such as P/E, EPS, price to book and revenue growth do not apply to an index.\n")
	sb.WriteString("- Describe the current level, the day range, the 52-week range and volume where available.\n")
	sb.WriteString("- Keep it short and readable for a general audience.\n\n")

	fmt.Fprintf(&sb, "Data for %s (%s):\n", name, q.Symbol)
	fmt.Fprintf(&sb, "- Current Value (%s): %s\n", currency(q), fmtFloat(q.CurrentPrice, 2))
	fmt.Fprintf(&sb, "- Day Change: %s (%s%%)\n", fmtFloat(q.ChangeAbsolute, 2), fmtFloat(q.ChangePercent, 2))
	fmt.Fprintf(&sb, "- Day Range: %s - %s\n", fmtFloat(q.DayLow, 2), fmtFloat(q.DayHigh, 2))
	fmt.Fprintf(&sb, "- 52 Week Range: %s - %s\n", fmtFloat(q.Week52Low, 2), fmtFloat(q.Week52High, 2))
	fmt.Fprintf(&sb, "- Average Volume (10 Day): %s\n", fmtGrouped(q.AvgVolume10Day))
	fmt.Fprintf(&sb, "- Market State: %s\n", fmtString(q.MarketState))
	sb.WriteString("\nIndex overview:\n")

	return sb.String()
}

func questionPrompt(q models.QuoteRecord, question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		question = defaultQuestion
	}
	name := displayName(q)

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a financial assistant. Answer the user's question about %s (%s).\n\n", name, q.Symbol)
	sb.WriteString(dataOnlyRules)
	sb.WriteString("- If the data is not enough to answer, say so.\n")
	sb.WriteString("- Keep the answer concise.\n\n")

	sb.WriteString("Key data:\n")
	fmt.Fprintf(&sb, "- Company: %s (%s)\n", name, q.Symbol)
	fmt.Fprintf(&sb, "- Current Price (%s): %s\n", currency(q), fmtFloat(q.CurrentPrice, 2))
	fmt.Fprintf(&sb, "- Day Change: %s%%\n", fmtFloat(q.ChangePercent, 2))
	fmt.Fprintf(&sb, "- Market Cap: %s\n", fmtGroupedFloat(q.MarketCap))
	fmt.Fprintf(&sb, "- P/E Ratio (Trailing): %s\n", fmtFloat(q.PETrailing, 2))
	fmt.Fprintf(&sb, "- 52 Week Range: %s - %s\n", fmtFloat(q.Week52Low, 2), fmtFloat(q.Week52High, 2))
	fmt.Fprintf(&sb, "\nUser's question: %q\n\nAnswer:\n", question)

	return sb.String()
}
