// Package amadeus is a client for the Amadeus Self-Service travel APIs.
package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	TestBaseURL       = "https://test.api.amadeus.com"
	ProductionBaseURL = "https://api.amadeus.com"

	tokenPath = "/v1/security/oauth2/token"
)

// Config configures a Client
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	// Timeout bounds every API call, including a token refresh it triggers
	Timeout time.Duration
	// RateLimit is the sustained number of requests per second; <= 0 disables limiting
	RateLimit float64
	Burst     int
}

// Client calls the Amadeus APIs with an OAuth2 client-credentials token that
// is fetched on first use and refreshed when it expires.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	configured bool
}

// NewClient creates a Client
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = TestBaseURL
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// the token source uses this client for the token endpoint
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: creds.Client(tokenCtx),
		limiter:    rate.NewLimiter(limit, burst),
		timeout:    cfg.Timeout,
		configured: cfg.ClientID != "" && cfg.ClientSecret != "",
	}
}

// Configured reports whether API credentials were supplied
func (c *Client) Configured() bool {
	return c.configured
}

// Error is an error response returned by the API
type Error struct {
	StatusCode int
	Code       int
	Title      string
	Detail     string
}

func (e *Error) Error() string {
	msg := e.Title
	if e.Detail != "" {
		if msg != "" {
			msg += ": "
		}
		msg += e.Detail
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("amadeus error (%d): %s", e.StatusCode, msg)
}

type errorResponse struct {
	Errors []struct {
		Status int    `json:"status"`
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// dataResponse is the envelope of list endpoints
type dataResponse[T any] struct {
	Data []T `json:"data"`
}

// get performs a GET request and decodes the JSON body into out
func (c *Client) get(ctx context.Context, operation, path string, query url.Values, out interface{}) (err error) {
	if !c.configured {
		return fmt.Errorf("%s: amadeus credentials not configured", operation)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() { observeRequest(operation, start, err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limiter: %w", operation, err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: reading response: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: failed to parse response: %w", operation, err)
	}
	return nil
}

// IsTimeout reports whether err was caused by a call running out of time
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func parseError(status int, body []byte) error {
	apiErr := &Error{StatusCode: status}

	var payload errorResponse
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		first := payload.Errors[0]
		apiErr.Code = first.Code
		apiErr.Title = first.Title
		apiErr.Detail = first.Detail
	}
	return apiErr
}
