package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stockpulse-api/pkg/stockpulse"
)

// App carries what every command needs
type App struct {
	Client  *stockpulse.Client
	Timeout time.Duration
	JSON    bool
}

func (a *App) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.Timeout)
}

func newRootCmd() *cobra.Command {
	app := &App{}
	var server string

	rootCmd := &cobra.Command{
		Use:           "stockpulse",
		Short:         "Quotes, charts and AI summaries for Indian equities",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.Client = stockpulse.NewClient(server, stockpulse.WithTimeout(app.Timeout))
		},
	}

	defaultServer := os.Getenv("STOCKPULSE_URL")
	if defaultServer == "" {
		defaultServer = stockpulse.DefaultBaseURL
	}

	rootCmd.PersistentFlags().StringVar(&server, "server", defaultServer, "StockPulse API base URL")
	rootCmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 60*time.Second, "request timeout")
	rootCmd.PersistentFlags().BoolVar(&app.JSON, "json", false, "print raw JSON")

	addQuoteCommands(rootCmd, app)
	addMarketCommands(rootCmd, app)
	addAICommands(rootCmd, app)
	rootCmd.AddCommand(newDashboardCmd(app))

	return rootCmd
}
