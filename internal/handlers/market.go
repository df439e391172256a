package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"stockpulse-api/internal/models"
	"stockpulse-api/internal/services"
)

type MarketHandler struct {
	search      *services.SearchService
	movers      services.MoversProvider
	moversCount int
	timeout     time.Duration
}

func NewMarketHandler(search *services.SearchService, movers services.MoversProvider, moversCount int, timeout time.Duration) *MarketHandler {
	return &MarketHandler{
		search:      search,
		movers:      movers,
		moversCount: moversCount,
		timeout:     timeout,
	}
}

// SymbolSearch handles GET /api/symbol-search?query=
func (h *MarketHandler) SymbolSearch(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	matches, err := h.search.Search(ctx, c.Query("query"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.SearchResponse{BestMatches: matches})
}

// Gainers handles GET /api/market/gainers
func (h *MarketHandler) Gainers(c *fiber.Ctx) error {
	return h.serveMovers(c, models.Gainers)
}

// Losers handles GET /api/market/losers
func (h *MarketHandler) Losers(c *fiber.Ctx) error {
	return h.serveMovers(c, models.Losers)
}

func (h *MarketHandler) serveMovers(c *fiber.Ctx, kind models.MoverKind) error {
	if h.movers == nil {
		return respondError(c, fmt.Errorf("market movers: %w", models.ErrNotConfigured))
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	count := services.ClampMoversCount(c.QueryInt("count", h.moversCount), h.moversCount)
	movers, err := h.movers.Movers(ctx, kind, count)
	if err != nil {
		return respondError(c, err)
	}
	if len(movers) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error:   fmt.Sprintf("Could not find any top %s", kind),
			Details: "The movers page returned no rows; its layout may have changed.",
		})
	}
	return c.JSON(movers)
}
