package services

import (
	"context"
	"fmt"

	"stockpulse-api/internal/models"
)

// MoversProvider lists the day's top gainers or losers. Implementations are
// best-effort: they may return stale or empty data without an error.
type MoversProvider interface {
	Movers(ctx context.Context, kind models.MoverKind, count int) ([]models.Mover, error)
}

// MoversFunc adapts a plain function to MoversProvider
type MoversFunc func(ctx context.Context, kind models.MoverKind, count int) ([]models.Mover, error)

func (f MoversFunc) Movers(ctx context.Context, kind models.MoverKind, count int) ([]models.Mover, error) {
	return f(ctx, kind, count)
}

// MaxMoversCount caps the count query parameter
const MaxMoversCount = 25

// ParseMoverKind validates the table name taken from a route
func ParseMoverKind(s string) (models.MoverKind, error) {
	switch models.MoverKind(s) {
	case models.Gainers, models.Losers:
		return models.MoverKind(s), nil
	}
	return "", fmt.Errorf("%w: unknown movers table %q", models.ErrInvalidArgument, s)
}

// ClampMoversCount falls back to def for non-positive counts and caps large ones
func ClampMoversCount(count, def int) int {
	if count <= 0 {
		count = def
	}
	if count > MaxMoversCount {
		count = MaxMoversCount
	}
	return count
}
