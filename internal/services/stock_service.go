package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"stockpulse-api/internal/common"
	"stockpulse-api/internal/models"
)

// QuoteSource fetches the two halves of a quote from the market-data provider
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (*models.QuoteCore, error)
	GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error)
}

// StockService coordinates the quote pipeline and the analyses built on it
type StockService struct {
	normalizer *SymbolNormalizer
	quotes     QuoteSource
	prompts    *PromptAssembler
	ai         *AIGateway
	timeout    time.Duration
	logger     *common.Logger
}

func NewStockService(normalizer *SymbolNormalizer, quotes QuoteSource, prompts *PromptAssembler, ai *AIGateway, timeout time.Duration, logger *common.Logger) *StockService {
	return &StockService{
		normalizer: normalizer,
		quotes:     quotes,
		prompts:    prompts,
		ai:         ai,
		timeout:    timeout,
		logger:     logger,
	}
}

// Normalize exposes the shared normalizer
func (s *StockService) Normalize(raw string) (models.NormalizedSymbol, error) {
	return s.normalizer.Normalize(raw)
}

// GetQuote normalizes raw, fetches quote and fundamentals concurrently and
// merges them. Only the core quote can fail the call.
func (s *StockService) GetQuote(ctx context.Context, raw string) (models.QuoteRecord, error) {
	sym, err := s.normalizer.Normalize(raw)
	if err != nil {
		return models.QuoteRecord{}, err
	}
	return s.quoteFor(ctx, sym)
}

func (s *StockService) quoteFor(ctx context.Context, sym models.NormalizedSymbol) (models.QuoteRecord, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	upstream := YahooSymbol(sym)
	var core *models.QuoteCore
	var fund models.Fundamentals

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := s.quotes.GetQuote(gctx, upstream)
		if err != nil {
			return err
		}
		core = q
		return nil
	})
	g.Go(func() error {
		fund = s.fetchFundamentals(gctx, upstream)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Info().Err(err).Str("symbol", sym.Resolved).Msg("Quote fetch failed")
		return models.QuoteRecord{}, err
	}

	return MergeQuote(sym, *core, fund), nil
}

// fetchFundamentals never fails; any error degrades to empty fundamentals
func (s *StockService) fetchFundamentals(ctx context.Context, symbol string) models.Fundamentals {
	f, err := s.quotes.GetFundamentals(ctx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Fundamentals unavailable, continuing with core quote")
		return models.Fundamentals{}
	}
	if f == nil {
		return models.Fundamentals{}
	}
	return *f
}

// TrendSummary describes the current quote without a model call
func (s *StockService) TrendSummary(ctx context.Context, raw string) (*models.TrendSummaryResponse, error) {
	quote, err := s.GetQuote(ctx, raw)
	if err != nil {
		return nil, err
	}

	text, err := s.prompts.Build(models.PromptContext{Mode: models.TrendSummary, Quote: quote})
	if err != nil {
		return nil, err
	}

	return &models.TrendSummaryResponse{Symbol: quote.Symbol, TrendSummary: text}, nil
}

// AskAI answers a question about the symbol with the text model. The canned
// fundamentals question, or mode "fundamentals", selects the analysis template.
func (s *StockService) AskAI(ctx context.Context, req models.AskAIRequest) (*models.AskAIResponse, error) {
	sym, err := s.normalizer.Normalize(req.Symbol)
	if err != nil {
		return nil, err
	}
	if !s.ai.Configured() {
		return nil, fmt.Errorf("AI service: %w", models.ErrNotConfigured)
	}

	mode, err := promptModeFor(req)
	if err != nil {
		return nil, err
	}

	quote, err := s.quoteFor(ctx, sym)
	if err != nil {
		return nil, err
	}

	prompt, err := s.prompts.Build(models.PromptContext{Mode: mode, Quote: quote, Question: req.Question})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("symbol", sym.Resolved).Str("mode", mode.String()).Msg("Sending prompt to AI")

	answer, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &models.AskAIResponse{Symbol: quote.Symbol, Answer: answer}, nil
}

func promptModeFor(req models.AskAIRequest) (models.PromptMode, error) {
	switch strings.ToLower(strings.TrimSpace(req.Mode)) {
	case "fundamentals":
		return models.FundamentalsAnalysis, nil
	case "question", "":
		if strings.TrimSpace(req.Question) == FundamentalsQuestion {
			return models.FundamentalsAnalysis, nil
		}
		return models.FreeformQuestion, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", models.ErrInvalidArgument, req.Mode)
}
