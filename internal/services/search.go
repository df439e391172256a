package services

import (
	"context"
	"fmt"
	"strings"

	"stockpulse-api/internal/common"
	"stockpulse-api/internal/models"
)

// SymbolSearcher is one upstream symbol search backend
type SymbolSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]models.SearchCandidate, error)
}

// SearchFunc adapts a plain function to SymbolSearcher
type SearchFunc func(ctx context.Context, query string, limit int) ([]models.SearchCandidate, error)

func (f SearchFunc) Search(ctx context.Context, query string, limit int) ([]models.SearchCandidate, error) {
	return f(ctx, query, limit)
}

// SearchService answers autocomplete lookups. It keeps no state between calls.
type SearchService struct {
	backend SymbolSearcher
	limit   int
	logger  *common.Logger
}

func NewSearchService(backend SymbolSearcher, limit int, logger *common.Logger) *SearchService {
	if limit <= 0 {
		limit = 7
	}
	return &SearchService{
		backend: backend,
		limit:   limit,
		logger:  logger,
	}
}

// Search passes query through untouched. No matches is an empty, non-nil
// slice; results are cut to the configured limit.
func (s *SearchService) Search(ctx context.Context, query string) ([]models.SearchCandidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", models.ErrInvalidArgument)
	}
	if s.backend == nil {
		return nil, fmt.Errorf("symbol search: %w", models.ErrNotConfigured)
	}

	matches, err := s.backend.Search(ctx, query, s.limit)
	if err != nil {
		return nil, err
	}

	if len(matches) > s.limit {
		matches = matches[:s.limit]
	}
	if matches == nil {
		matches = []models.SearchCandidate{}
	}

	s.logger.Debug().Str("query", query).Int("matches", len(matches)).Msg("Symbol search")
	return matches, nil
}
