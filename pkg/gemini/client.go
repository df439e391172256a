// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"stockpulse-api/internal/common"
	"stockpulse-api/internal/models"
)

const (
	DefaultModel     = "gemini-2.0-flash"
	DefaultRateLimit = 2 // requests per second
)

// AI failure categories. These are the only provider-derived strings that
// reach end users.
const (
	CategoryQuota         = "quota"
	CategoryContentPolicy = "content policy"
	CategoryUnavailable   = "unavailable"
	CategoryRejected      = "rejected"
	CategoryEmpty         = "empty response"
	CategoryTimeout       = "timeout"
)

// Client generates text with a Gemini model
type Client struct {
	client  *genai.Client
	model   string
	baseURL string
	limiter *rate.Limiter
	logger  *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithRateLimit caps outbound requests per second
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithBaseURL points the client at a different API host
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		model:   DefaultModel,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	genaiClient, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.client = genaiClient

	return c, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// GenerateContent sends one prompt and returns the model's text. Failures are
// returned as *models.AIServiceError carrying a user-safe category.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &models.AIServiceError{Category: CategoryTimeout, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	c.logger.Debug().Str("model", c.model).Int("prompt_chars", len(prompt)).Msg("Generating content")

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", &models.AIServiceError{Category: categorize(err), Err: err}
	}

	return extractTextFromResponse(result)
}

// extractTextFromResponse concatenates the text parts of the first candidate
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if result == nil {
		return "", &models.AIServiceError{Category: CategoryEmpty, Err: errors.New("nil response")}
	}
	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", &models.AIServiceError{Category: CategoryContentPolicy, Err: fmt.Errorf("prompt blocked: %s", fb.BlockReason)}
	}
	if len(result.Candidates) == 0 {
		return "", &models.AIServiceError{Category: CategoryEmpty, Err: errors.New("no candidates")}
	}

	cand := result.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety || cand.FinishReason == genai.FinishReasonProhibitedContent {
		return "", &models.AIServiceError{Category: CategoryContentPolicy, Err: fmt.Errorf("finish reason %s", cand.FinishReason)}
	}
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", &models.AIServiceError{Category: CategoryEmpty, Err: errors.New("no content generated")}
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", &models.AIServiceError{Category: CategoryEmpty, Err: errors.New("empty text")}
	}

	return sb.String(), nil
}

func categorize(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTimeout
	}

	code, status := 0, ""
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code, status = apiErr.Code, apiErr.Status
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		code, status = apiErrPtr.Code, apiErrPtr.Status
	default:
		return CategoryUnavailable
	}

	switch {
	case code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED":
		return CategoryQuota
	case code >= 500:
		return CategoryUnavailable
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return CategoryUnavailable
	default:
		return CategoryRejected
	}
}
