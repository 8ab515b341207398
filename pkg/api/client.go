package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultTimeout bounds each request when no HTTP client is supplied.
	DefaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// Config configures the REST client.
type Config struct {
	BaseURL     string
	Credentials CredentialProvider
	HTTPClient  *http.Client
	Timeout     time.Duration
	Logger      *zerolog.Logger
}

// Client talks to the billing platform admin API.
type Client struct {
	baseURL     string
	credentials CredentialProvider
	client      *http.Client
	logger      zerolog.Logger
}

// NewClient builds a client for the API rooted at cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("api: base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("api: invalid base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Client{
		baseURL:     base,
		credentials: cfg.Credentials,
		client:      httpClient,
		logger:      logger.With().Str("component", "api").Logger(),
	}, nil
}

// BaseURL returns the API origin.
func (c *Client) BaseURL() string { return c.baseURL }

// Get decodes the JSON body of GET path into target.
func (c *Client) Get(ctx context.Context, path string, query url.Values, target any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, target)
}

// Do issues a request and decodes a 2xx body into target. Non-2xx responses
// become *APIError; transport failures become *NetworkError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, payload any, target any) error {
	data, err := c.roundTrip(ctx, method, path, query, payload)
	if err != nil {
		return err
	}
	if target == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("api: encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.credentials != nil {
		token, err := c.credentials.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("api: resolve credentials: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("request failed")
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	event := c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(started)).
		Str("request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		event.Msg("remote error")
		return nil, &APIError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(raw),
			Body:    string(raw),
		}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: method, Path: path, Err: err}
	}
	event.Int("bytes", len(data)).Msg("request completed")
	return data, nil
}

// UnreadCount returns the unread notification count for the signed-in admin.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp struct {
		Count       *int `json:"count"`
		UnreadCount *int `json:"unread_count"`
	}
	if err := c.Get(ctx, "/notifications/unread-count/", nil, &resp); err != nil {
		return 0, err
	}
	switch {
	case resp.UnreadCount != nil:
		return *resp.UnreadCount, nil
	case resp.Count != nil:
		return *resp.Count, nil
	default:
		return 0, nil
	}
}
