package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"stockpulse-api/internal/models"
)

func addQuoteCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newChartCmd(app))
	rootCmd.AddCommand(newIntervalsCmd(app))
}

func addMarketCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSearchCmd(app))
	rootCmd.AddCommand(newMoversCmd(app))
}

func addAICommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newTrendCmd(app))
	rootCmd.AddCommand(newAskCmd(app))
}

func newQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "quote <symbol>",
		Short:   "Show the merged quote for a symbol",
		Example: "  stockpulse quote RELIANCE\n  stockpulse quote ^BSESN --json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.context()
			defer cancel()

			quote, err := app.Client.Quote(ctx, args[0])
			if err != nil {
				output.Error("quote %s: %v", args[0], err)
				return err
			}
			if app.JSON {
				return output.JSON(quote)
			}
			printQuote(output, quote)
			return nil
		},
	}
}

func printQuote(output *Output, q *models.QuoteRecord) {
	output.Heading(fmt.Sprintf("%s  %s", q.Symbol, str(q.DisplayName)))
	output.Field("Price", num(q.CurrentPrice, 2)+" "+str(q.Currency))
	output.Field("Change", num(q.ChangeAbsolute, 2)+" ("+pct(q.ChangePercent)+")")
	output.Field("Day range", num(q.DayLow, 2)+" - "+num(q.DayHigh, 2))
	output.Field("52-week range", num(q.Week52Low, 2)+" - "+num(q.Week52High, 2))
	output.Field("Volume", integer(q.Volume))
	if q.IsIndex {
		return
	}
	output.Field("Market cap", num(q.MarketCap, 0))
	output.Field("P/E (trailing)", num(q.PETrailing, 2))
	output.Field("P/E (forward)", num(q.PEForward, 2))
	output.Field("Price/book", num(q.PriceToBook, 2))
	output.Field("EPS (trailing)", num(q.EPSTrailing, 2))
	output.Field("Beta", num(q.Beta, 2))
	output.Field("Analyst view", str(q.AnalystRecommendationKey))
	output.Field("Target mean price", num(q.TargetMeanPrice, 2))
}

func newChartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart <symbol>",
		Short: "Show the close series for a symbol",
		Example: `  stockpulse chart TCS --interval 1wk --range 1y
  stockpulse chart INFY --png infy.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.context()
			defer cancel()

			interval, _ := cmd.Flags().GetString("interval")
			rng, _ := cmd.Flags().GetString("range")
			pngPath, _ := cmd.Flags().GetString("png")

			if pngPath != "" {
				img, err := app.Client.ChartPNG(ctx, args[0], interval, rng)
				if err != nil {
					output.Error("chart %s: %v", args[0], err)
					return err
				}
				if err := os.WriteFile(pngPath, img, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", pngPath, err)
				}
				output.Printf("Wrote %s (%d bytes)\n", pngPath, len(img))
				return nil
			}

			chart, err := app.Client.Historical(ctx, args[0], interval, rng)
			if err != nil {
				output.Error("chart %s: %v", args[0], err)
				return err
			}
			if app.JSON {
				return output.JSON(chart)
			}
			printChart(output, chart)
			return nil
		},
	}

	cmd.Flags().String("interval", "1d", "sample interval (1m..1mo)")
	cmd.Flags().String("range", "1mo", "window (1d, 5d, 1mo, 6mo, 1y, 5y, max, ...)")
	cmd.Flags().String("png", "", "write the rendered chart to this file instead")
	return cmd
}

func printChart(output *Output, chart *models.HistoricalResponse) {
	output.Heading(fmt.Sprintf("%s  %s/%s  (%d points)", chart.Symbol, chart.Metadata.Interval, chart.Metadata.Range, chart.Metadata.Points))
	if len(chart.Series) == 0 {
		return
	}
	data := chart.Series[0].Data
	for i, v := range data {
		label := ""
		if i < len(chart.Categories) {
			label = chart.Categories[i]
		}
		output.Printf("  %-12s %12.2f\n", label, v)
	}
}

func newIntervalsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "intervals",
		Short: "List the chart windows the server supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.context()
			defer cancel()

			intervals, err := app.Client.ChartIntervals(ctx)
			if err != nil {
				output.Error("intervals: %v", err)
				return err
			}
			if app.JSON {
				return output.JSON(intervals)
			}
			for _, iv := range intervals {
				output.Printf("  %-6s interval=%-4s range=%s\n", iv.Label, iv.Interval, iv.Range)
			}
			return nil
		},
	}
}

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "search <query>",
		Short:   "Look up symbols by name or ticker",
		Example: "  stockpulse search tata consultancy",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.context()
			defer cancel()

			query := strings.Join(args, " ")
			matches, err := app.Client.Search(ctx, query)
			if err != nil {
				output.Error("search %q: %v", query, err)
				return err
			}
			if app.JSON {
				return output.JSON(matches)
			}
			if len(matches) == 0 {
				output.Println("No matches.")
				return nil
			}
			for _, m := range matches {
				output.Printf("  %-16s %-40s %s\n", m.Symbol, m.Name, m.Exchange)
			}
			return nil
		},
	}
}

func newMoversCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "movers <gainers|losers>",
		Short:     "Show the day's top gainers or losers",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(models.Gainers), string(models.Losers)},
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.context()
			defer cancel()

			kind := models.MoverKind(strings.ToLower(args[0]))
			if kind != models.Gainers && kind != models.Losers {
				return fmt.Errorf("unknown movers table %q (want gainers or losers)", args[0])
			}
			count, _ := cmd.Flags().GetInt("count")

			movers, err := app.Client.Movers(ctx, kind, count)
			if err != nil {
				output.Error("movers: %v", err)
				return err
			}
			if app.JSON {
				return output.JSON(movers)
			}
			output.Heading("Top " + string(kind))
			for _, m := range movers {
				output.Printf("  %-16s %-32s %12s %9s\n", m.Symbol, m.ShortName, num(m.RegularMarketPrice, 2), pct(m.RegularMarketChangePercent))
			}
			return nil
		},
	}

	cmd.Flags().Int("count", 0, "rows to show (server default when 0)")
	return cmd
}

func newTrendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "trend <symbol>",
		Short: "Describe where a symbol trades today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.context()
			defer cancel()

			resp, err := app.Client.TrendSummary(ctx, args[0])
			if err != nil {
				output.Error("trend %s: %v", args[0], err)
				return err
			}
			if app.JSON {
				return output.JSON(resp)
			}
			output.Heading(resp.Symbol)
			output.Println(resp.TrendSummary)
			return nil
		},
	}
}

func newAskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <symbol> [question...]",
		Short: "Ask the AI model about a symbol",
		Example: `  stockpulse ask RELIANCE "How volatile has it been?"
  stockpulse ask TCS --fundamentals`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.context()
			defer cancel()

			fundamentals, _ := cmd.Flags().GetBool("fundamentals")
			req := models.AskAIRequest{
				Symbol:   args[0],
				Question: strings.Join(args[1:], " "),
			}
			if fundamentals {
				req.Mode = "fundamentals"
			} else if strings.TrimSpace(req.Question) == "" {
				return fmt.Errorf("a question is required unless --fundamentals is set")
			}

			resp, err := app.Client.AskAI(ctx, req)
			if err != nil {
				output.Error("ask %s: %v", args[0], err)
				return err
			}
			if app.JSON {
				return output.JSON(resp)
			}
			output.Heading(resp.Symbol)
			output.Println(resp.Answer)
			return nil
		},
	}

	cmd.Flags().Bool("fundamentals", false, "run the fundamentals analysis instead of a free-form question")
	return cmd
}
