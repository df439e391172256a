package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"stockpulse-api/internal/dashboard"
	"stockpulse-api/internal/models"
)

type fetchFunc func(ctx context.Context, symbol string, interval models.ChartInterval) (any, error)

func newDashboardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard <symbol>",
		Short: "Fetch quote, chart and trend summary together",
		Example: `  stockpulse dashboard RELIANCE
  stockpulse dashboard TCS --interval 1wk --range 1y`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.context()
			defer cancel()

			state := dashboard.Reduce(dashboard.New(), dashboard.SymbolSubmitted{Symbol: args[0]})

			interval, _ := cmd.Flags().GetString("interval")
			rng, _ := cmd.Flags().GetString("range")
			if cmd.Flags().Changed("interval") || cmd.Flags().Changed("range") {
				state = dashboard.Reduce(state, dashboard.IntervalChanged{
					Interval: models.ChartInterval{Label: rng, Interval: interval, Range: rng},
				})
			}

			state = runDashboard(ctx, state, map[dashboard.Resource]fetchFunc{
				dashboard.ResourceQuote: func(ctx context.Context, symbol string, _ models.ChartInterval) (any, error) {
					return app.Client.Quote(ctx, symbol)
				},
				dashboard.ResourceChart: func(ctx context.Context, symbol string, iv models.ChartInterval) (any, error) {
					return app.Client.Historical(ctx, symbol, iv.Interval, iv.Range)
				},
				dashboard.ResourceTrend: func(ctx context.Context, symbol string, _ models.ChartInterval) (any, error) {
					resp, err := app.Client.TrendSummary(ctx, symbol)
					if err != nil {
						return nil, err
					}
					return resp.TrendSummary, nil
				},
			})

			if app.JSON {
				return output.JSON(state)
			}
			renderDashboard(output, state)

			if slot := state.Slot(dashboard.ResourceQuote); slot.Status == dashboard.StatusFailed {
				return fmt.Errorf("quote %s: %s", state.Symbol, slot.Err)
			}
			return nil
		},
	}

	cmd.Flags().String("interval", dashboard.DefaultInterval().Interval, "chart sample interval")
	cmd.Flags().String("range", dashboard.DefaultInterval().Range, "chart window")
	return cmd
}

// runDashboard issues one request per resource concurrently and folds every
// result into the state through the reducer.
func runDashboard(ctx context.Context, state dashboard.State, fetchers map[dashboard.Resource]fetchFunc) dashboard.State {
	type request struct {
		resource dashboard.Resource
		seq      uint64
		fetch    fetchFunc
	}

	requests := make([]request, 0, len(fetchers))
	for _, r := range []dashboard.Resource{dashboard.ResourceQuote, dashboard.ResourceChart, dashboard.ResourceTrend, dashboard.ResourceAnswer} {
		fetch, ok := fetchers[r]
		if !ok {
			continue
		}
		state = dashboard.Reduce(state, dashboard.RequestStarted{Resource: r})
		requests = append(requests, request{resource: r, seq: state.Slot(r).Seq, fetch: fetch})
	}

	symbol := state.Symbol
	interval := state.Interval
	results := make(chan dashboard.Action, len(requests))

	var g errgroup.Group
	for _, req := range requests {
		g.Go(func() error {
			payload, err := req.fetch(ctx, symbol, interval)
			if err != nil {
				results <- dashboard.FetchFailed{Resource: req.resource, Symbol: symbol, Seq: req.seq, Err: err}
				return nil
			}
			results <- dashboard.DataFetched{Resource: req.resource, Symbol: symbol, Seq: req.seq, Payload: payload}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	for action := range results {
		state = dashboard.Reduce(state, action)
	}
	return state
}

func renderDashboard(output *Output, state dashboard.State) {
	if state.Quote != nil {
		printQuote(output, state.Quote)
	} else {
		output.Heading(state.Symbol)
	}
	reportFailure(output, state, dashboard.ResourceQuote)
	output.Println()

	output.Println("Trend")
	if state.Trend != "" {
		output.Println(state.Trend)
	}
	reportFailure(output, state, dashboard.ResourceTrend)
	output.Println()

	if state.Chart != nil {
		printChart(output, state.Chart)
	} else {
		output.Printf("Chart %s/%s\n", state.Interval.Interval, state.Interval.Range)
	}
	reportFailure(output, state, dashboard.ResourceChart)
}

func reportFailure(output *Output, state dashboard.State, r dashboard.Resource) {
	if slot := state.Slot(r); slot.Status == dashboard.StatusFailed {
		output.Warning("%s unavailable: %s", r, slot.Err)
	}
}
