package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"stockpulse-api/internal/common"
	"stockpulse-api/internal/models"
)

// AppOptions carries the HTTP-level settings of the server
type AppOptions struct {
	CORSOrigins        string
	RateLimitPerMinute int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
}

// NewApp assembles the Fiber application with middleware and routes
func NewApp(opts AppOptions, logger *common.Logger, stock *StockHandler, market *MarketHandler, health *HealthHandler) *fiber.App {
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 60 * time.Second
	}

	app := fiber.New(fiber.Config{
		StrictRouting:         false,
		CaseSensitive:         true,
		ServerHeader:          "StockPulse",
		AppName:               "StockPulse API v" + serviceVersion,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		BodyLimit:             1 * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(RequestLogger(logger))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	if opts.RateLimitPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimitPerMinute,
			Expiration: 1 * time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
					Error: msgRateLimited,
				})
			},
		}))
	}

	app.Get("/", health.Root)
	app.Get("/health", health.Health)
	app.Get("/health/ready", health.Ready)

	api := app.Group("/api")
	api.Get("/stock", stock.GetQuote)
	api.Get("/stock/historical/:symbol/chart.png", stock.ChartPNG)
	api.Get("/stock/historical/:symbol", stock.GetHistorical)
	api.Get("/chart-intervals", stock.ChartIntervals)
	api.Get("/trend-summary", stock.TrendSummary)
	api.Post("/ask-ai", stock.AskAI)
	api.Get("/symbol-search", market.SymbolSearch)

	mkt := api.Group("/market")
	mkt.Get("/gainers", market.Gainers)
	mkt.Get("/losers", market.Losers)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Route not found",
		})
	})

	return app
}
