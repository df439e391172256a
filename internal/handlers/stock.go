package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"stockpulse-api/internal/models"
	"stockpulse-api/internal/services"
)

const (
	defaultInterval = "1d"
	defaultRange    = "1mo"
)

type StockHandler struct {
	stocks     *services.StockService
	history    *services.HistoricalService
	loc        *time.Location
	timeout    time.Duration
	aiDeadline time.Duration
}

// NewStockHandler builds the quote, chart and analysis endpoints. timeout
// bounds market-data requests, aiDeadline the ask-ai request as a whole.
func NewStockHandler(stocks *services.StockService, history *services.HistoricalService, loc *time.Location, timeout, aiDeadline time.Duration) *StockHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &StockHandler{
		stocks:     stocks,
		history:    history,
		loc:        loc,
		timeout:    timeout,
		aiDeadline: aiDeadline,
	}
}

// GetQuote handles GET /api/stock?symbol=
func (h *StockHandler) GetQuote(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	quote, err := h.stocks.GetQuote(ctx, c.Query("symbol"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(quote)
}

// GetHistorical handles GET /api/stock/historical/:symbol
func (h *StockHandler) GetHistorical(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	interval, rng := seriesParams(c)
	resp, err := h.history.Chart(ctx, c.Params("symbol"), interval, rng)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// ChartPNG handles GET /api/stock/historical/:symbol/chart.png
func (h *StockHandler) ChartPNG(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	interval, rng := seriesParams(c)
	series, err := h.history.Fetch(ctx, c.Params("symbol"), interval, rng)
	if err != nil {
		return respondError(c, err)
	}

	img, err := services.RenderSeriesPNG(series, h.loc)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(img)
}

// ChartIntervals handles GET /api/chart-intervals
func (h *StockHandler) ChartIntervals(c *fiber.Ctx) error {
	return c.JSON(services.ChartIntervals())
}

// TrendSummary handles GET /api/trend-summary?symbol=
func (h *StockHandler) TrendSummary(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	resp, err := h.stocks.TrendSummary(ctx, c.Query("symbol"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// AskAI handles POST /api/ask-ai
func (h *StockHandler) AskAI(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.aiDeadline)
	defer cancel()

	var req models.AskAIRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
	}

	resp, err := h.stocks.AskAI(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func seriesParams(c *fiber.Ctx) (string, string) {
	return c.Query("interval", defaultInterval), c.Query("range", defaultRange)
}
