// Package yahoo provides a client for the Yahoo Finance web endpoints
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"stockpulse-api/internal/common"
	"stockpulse-api/internal/models"
)

const (
	DefaultQueryURL   = "https://query1.finance.yahoo.com"
	DefaultSessionURL = "https://fc.yahoo.com"
	DefaultMoversURL  = "https://in.finance.yahoo.com"
	DefaultTimeout    = 10 * time.Second

	provider  = "yahoo"
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

type Client struct {
	queryURL   string
	sessionURL string
	moversURL  string
	httpClient *http.Client
	logger     *common.Logger

	// crumb guards the quote and quoteSummary endpoints. It is tied to the
	// cookie in the jar, not to any symbol.
	mu    sync.Mutex
	crumb string
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithQueryURL overrides the JSON API host
func WithQueryURL(u string) ClientOption {
	return func(c *Client) {
		c.queryURL = strings.TrimRight(u, "/")
	}
}

// WithSessionURL overrides the host that hands out the session cookie
func WithSessionURL(u string) ClientOption {
	return func(c *Client) {
		c.sessionURL = strings.TrimRight(u, "/")
	}
}

// WithMoversURL overrides the site serving the gainers/losers pages
func WithMoversURL(u string) ClientOption {
	return func(c *Client) {
		c.moversURL = strings.TrimRight(u, "/")
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

func NewClient(opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	c := &Client{
		queryURL:   DefaultQueryURL,
		sessionURL: DefaultSessionURL,
		moversURL:  DefaultMoversURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// apiError is the error object Yahoo embeds in its JSON envelopes
type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *apiError) notFound() bool {
	return e != nil && strings.EqualFold(e.Code, "Not Found")
}

// get performs a GET and decodes the JSON body into out. Status codes are
// classified here so every endpoint reports the same error kinds.
func (c *Client) get(ctx context.Context, op, reqURL string, out any) error {
	body, status, err := c.fetch(ctx, reqURL)
	if err != nil {
		return models.Transient(provider, op, 0, err)
	}

	switch {
	case status == http.StatusNotFound:
		return models.NotFound(provider, op, fmt.Errorf("%s", snippet(body)))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		c.resetCrumb()
		return models.Transient(provider, op, status, errors.New("session rejected"))
	case status != http.StatusOK:
		return models.Transient(provider, op, status, fmt.Errorf("%s", snippet(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return models.Transient(provider, op, status, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/html")

	c.logger.Debug().Str("url", reqURL).Msg("Yahoo request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// sessionCrumb returns the crumb for the current cookie, fetching both on
// first use.
func (c *Client) sessionCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" {
		return c.crumb, nil
	}

	// The cookie page answers 404 but still sets the session cookie
	if _, _, err := c.fetch(ctx, c.sessionURL); err != nil {
		c.logger.Debug().Err(err).Msg("Yahoo session cookie request failed")
	}

	body, status, err := c.fetch(ctx, c.queryURL+"/v1/test/getcrumb")
	if err != nil {
		return "", models.Transient(provider, "crumb", 0, err)
	}
	crumb := strings.TrimSpace(string(body))
	if status != http.StatusOK || crumb == "" {
		return "", models.Transient(provider, "crumb", status, errors.New("no crumb issued"))
	}

	c.crumb = crumb
	c.logger.Debug().Msg("Yahoo session initialized")
	return crumb, nil
}

func (c *Client) resetCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
