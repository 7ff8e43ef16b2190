package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
)

// HeaderSource provides the auth headers for a query, normally the token manager.
type HeaderSource interface {
	AuthHeaders() map[string]string
}

// APIError is a non-2xx answer from the IGDB query endpoint.
type APIError struct {
	StatusCode int
	Body       string
	RequestID  string
}

func (e APIError) Error() string {
	return fmt.Sprintf("igdb error: status %d: '%s' (request: %s)", e.StatusCode, e.Body, e.RequestID)
}

// Client issues Apicalypse queries against the IGDB API.
// Responses are decoded as generic records because the returned fields are
// dictated entirely by the query body.
type Client struct {
	headers    HeaderSource
	httpClient *http.Client
}

type Record = map[string]any

func NewClient(headers HeaderSource) *Client {
	return &Client{
		headers:    headers,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// Query POSTs an Apicalypse body to an endpoint URL and decodes the JSON array answer.
func (c *Client) Query(ctx context.Context, endpointURL, body string) ([]Record, error) {
	requestID := xid.New().String()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating query request: %w", err)
	}
	for key, value := range c.headers.AuthHeaders() {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "text/plain")

	log.Debug().
		Str("request_id", requestID).
		Str("url", endpointURL).
		Msgf("query: %s", strings.TrimSpace(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode >= 400 {
		return nil, parseErrorResponse(resp, requestID)
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding query response: %w", err)
	}

	log.Debug().
		Str("request_id", requestID).
		Msgf("query returned %d record(s)", len(records))

	return records, nil
}

func parseErrorResponse(resp *http.Response, requestID string) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed with status %d and unreadable body: %w", resp.StatusCode, err)
	}
	return APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(truncateBody(string(body))),
		RequestID:  requestID,
	}
}

func truncateBody(s string) string {
	const maxLen = 512
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
