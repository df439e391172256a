package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockpulse-api/internal/common"
	"stockpulse-api/internal/config"
	"stockpulse-api/internal/handlers"
	"stockpulse-api/internal/models"
	"stockpulse-api/internal/services"
	"stockpulse-api/pkg/alphavantage"
	"stockpulse-api/pkg/gemini"
	"stockpulse-api/pkg/yahoo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		common.NewLogger("info", "console").Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger := common.NewLogger(cfg.LogLevel, cfg.LogFormat)
	upstreamTimeout := cfg.UpstreamTimeoutDuration()
	aiTimeout := cfg.AITimeoutDuration()

	yahooClient := yahoo.NewClient(
		yahoo.WithMoversURL(cfg.MoversBaseURL),
		yahoo.WithTimeout(upstreamTimeout),
		yahoo.WithLogger(logger),
	)

	providers := handlers.Providers{}

	var searcher services.SymbolSearcher
	switch {
	case cfg.SearchProvider == "yahoo":
		searcher = yahooClient
		providers.SymbolSearch = "yahoo"
	case cfg.AlphaVantageConfigured():
		av := alphavantage.NewClient(cfg.AlphaVantageKey,
			alphavantage.WithTimeout(upstreamTimeout),
			alphavantage.WithLogger(logger),
		)
		searcher = services.SearchFunc(func(ctx context.Context, query string, _ int) ([]models.SearchCandidate, error) {
			return av.SymbolSearch(ctx, query)
		})
		providers.SymbolSearch = "alphavantage"
	default:
		logger.Warn().Msg("ALPHA_VANTAGE_API_KEY not set, symbol search disabled")
	}

	var generator services.TextGenerator
	if cfg.GeminiConfigured() {
		gc, err := gemini.NewClient(context.Background(), cfg.GeminiKey,
			gemini.WithModel(cfg.GeminiModel),
			gemini.WithRateLimit(cfg.GeminiRate),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		generator = gc
		providers.AIModel = gc.Model()
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set, AI endpoints disabled")
	}

	normalizer := services.NewSymbolNormalizer(cfg.DefaultExchangeSuffix, cfg.RecognizedSuffixes)
	gateway := services.NewAIGateway(generator, aiTimeout, logger)
	stockService := services.NewStockService(normalizer, yahooClient, services.NewPromptAssembler(), gateway, upstreamTimeout, logger)
	historicalService := services.NewHistoricalService(yahooClient, normalizer, cfg.Location, logger)
	searchService := services.NewSearchService(searcher, cfg.SearchLimit, logger)

	app := handlers.NewApp(
		handlers.AppOptions{
			CORSOrigins:        cfg.CORSOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
		},
		logger,
		handlers.NewStockHandler(stockService, historicalService, cfg.Location, upstreamTimeout, upstreamTimeout+aiTimeout),
		handlers.NewMarketHandler(searchService, services.MoversFunc(yahooClient.ScrapeMovers), cfg.MoversCount, upstreamTimeout),
		handlers.NewHealthHandler(providers),
	)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	logger.Info().
		Str("port", cfg.Port).
		Str("environment", cfg.Environment).
		Str("default_suffix", cfg.DefaultExchangeSuffix).
		Str("timezone", cfg.ExchangeTimezone).
		Msg("StockPulse API started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server shutdown complete")
}
