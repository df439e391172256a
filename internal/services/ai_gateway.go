package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockpulse-api/internal/common"
	"stockpulse-api/internal/models"
)

// TextGenerator is a black-box text completion backend
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// AIGateway sends prompts to the text model and normalizes its failures
type AIGateway struct {
	generator TextGenerator
	timeout   time.Duration
	logger    *common.Logger
}

// NewAIGateway wraps generator. A nil generator yields a gateway that reports
// ErrNotConfigured on every call.
func NewAIGateway(generator TextGenerator, timeout time.Duration, logger *common.Logger) *AIGateway {
	return &AIGateway{
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

// Configured reports whether a backend is available
func (g *AIGateway) Configured() bool {
	return g != nil && g.generator != nil
}

// Generate makes exactly one model call. Errors are *models.AIServiceError;
// provider detail is logged, never returned to users.
func (g *AIGateway) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.Configured() {
		return "", fmt.Errorf("AI service: %w", models.ErrNotConfigured)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.generator.GenerateContent(ctx, prompt)
	if err != nil {
		var aiErr *models.AIServiceError
		if !errors.As(err, &aiErr) {
			category := "unavailable"
			if errors.Is(err, context.DeadlineExceeded) {
				category = "timeout"
			}
			aiErr = &models.AIServiceError{Category: category, Err: err}
		}
		g.logger.Error().
			Err(err).
			Str("category", aiErr.Category).
			Dur("elapsed", time.Since(start)).
			Msg("AI generation failed")
		return "", aiErr
	}

	g.logger.Debug().
		Int("prompt_chars", len(prompt)).
		Int("answer_chars", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("AI generation complete")
	return text, nil
}
