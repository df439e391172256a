// Package alphavantage provides a client for the Alpha Vantage symbol search API
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stockpulse-api/internal/common"
	"stockpulse-api/internal/models"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co/query"
	DefaultTimeout = 10 * time.Second

	provider = "alphavantage"
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL overrides the query endpoint
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SymbolSearchResponse is the SYMBOL_SEARCH payload. Throttled calls answer
// 200 with only Note or Information set.
type SymbolSearchResponse struct {
	BestMatches []struct {
		Symbol     string `json:"1. symbol"`
		Name       string `json:"2. name"`
		Type       string `json:"3. type"`
		Region     string `json:"4. region"`
		MatchScore string `json:"9. matchScore"`
	} `json:"bestMatches"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// SymbolSearch returns the ranked matches for keywords, passed through as typed
func (c *Client) SymbolSearch(ctx context.Context, keywords string) ([]models.SearchCandidate, error) {
	params := url.Values{}
	params.Set("function", "SYMBOL_SEARCH")
	params.Set("keywords", keywords)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.Transient(provider, "search", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.Transient(provider, "search", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, models.Transient(provider, "search", resp.StatusCode, fmt.Errorf("alpha vantage returned status %d", resp.StatusCode))
	}

	var searchResp SymbolSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, models.Transient(provider, "search", resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	if searchResp.ErrorMessage != "" {
		return nil, models.Transient(provider, "search", resp.StatusCode, fmt.Errorf("%s", searchResp.ErrorMessage))
	}
	if len(searchResp.BestMatches) == 0 && (searchResp.Note != "" || searchResp.Information != "") {
		c.logger.Warn().
			Str("note", firstNonEmpty(searchResp.Note, searchResp.Information)).
			Msg("Alpha Vantage returned no matches with a notice")
	}

	candidates := make([]models.SearchCandidate, 0, len(searchResp.BestMatches))
	for _, m := range searchResp.BestMatches {
		if strings.TrimSpace(m.Symbol) == "" {
			continue
		}
		candidates = append(candidates, models.SearchCandidate{
			Symbol:    m.Symbol,
			Name:      m.Name,
			Exchange:  m.Region,
			QuoteType: m.Type,
		})
	}

	return candidates, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
