// Package stockpulse is a Go client for the StockPulse HTTP API
package stockpulse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stockpulse-api/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:5001"
	DefaultTimeout = 60 * time.Second
)

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("stockpulse: %d %s", e.StatusCode, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// Is lets callers match server answers against the model error kinds
func (e *APIError) Is(target error) bool {
	switch target {
	case models.ErrInvalidArgument:
		return e.StatusCode == http.StatusBadRequest
	case models.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote returns the merged quote for symbol
func (c *Client) Quote(ctx context.Context, symbol string) (*models.QuoteRecord, error) {
	var out models.QuoteRecord
	if err := c.getJSON(ctx, "/api/stock", url.Values{"symbol": {symbol}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Historical returns the chart payload for symbol over interval and range
func (c *Client) Historical(ctx context.Context, symbol, interval, rng string) (*models.HistoricalResponse, error) {
	var out models.HistoricalResponse
	if err := c.getJSON(ctx, "/api/stock/historical/"+url.PathEscape(symbol), seriesQuery(interval, rng), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChartPNG returns the rendered chart image
func (c *Client) ChartPNG(ctx context.Context, symbol, interval, rng string) ([]byte, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/stock/historical/"+url.PathEscape(symbol)+"/chart.png", seriesQuery(interval, rng), nil)
	return body, err
}

// ChartIntervals returns the fixed chart window menu
func (c *Client) ChartIntervals(ctx context.Context) ([]models.ChartInterval, error) {
	var out []models.ChartInterval
	if err := c.getJSON(ctx, "/api/chart-intervals", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TrendSummary returns the one-paragraph description of the current quote
func (c *Client) TrendSummary(ctx context.Context, symbol string) (*models.TrendSummaryResponse, error) {
	var out models.TrendSummaryResponse
	if err := c.getJSON(ctx, "/api/trend-summary", url.Values{"symbol": {symbol}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AskAI sends a question about a symbol to the AI endpoint
func (c *Client) AskAI(ctx context.Context, req models.AskAIRequest) (*models.AskAIResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodPost, "/api/ask-ai", nil, payload)
	if err != nil {
		return nil, err
	}
	var out models.AskAIResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode ask-ai response: %w", err)
	}
	return &out, nil
}

// Search returns symbol suggestions for query
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchCandidate, error) {
	var out models.SearchResponse
	if err := c.getJSON(ctx, "/api/symbol-search", url.Values{"query": {query}}, &out); err != nil {
		return nil, err
	}
	return out.BestMatches, nil
}

// Movers returns the top gainers or losers. count <= 0 uses the server default.
func (c *Client) Movers(ctx context.Context, kind models.MoverKind, count int) ([]models.Mover, error) {
	q := url.Values{}
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}
	var out []models.Mover
	if err := c.getJSON(ctx, "/api/market/"+url.PathEscape(string(kind)), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func seriesQuery(interval, rng string) url.Values {
	q := url.Values{}
	if interval != "" {
		q.Set("interval", interval)
	}
	if rng != "" {
		q.Set("range", rng)
	}
	return q
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	var er models.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		apiErr.Message = er.Error
		apiErr.Details = er.Details
		return apiErr
	}
	apiErr.Message = http.StatusText(status)
	return apiErr
}

// IsNotFound reports whether err is a 404 answer
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
