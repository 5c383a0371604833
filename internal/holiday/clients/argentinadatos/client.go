// Package argentinadatos fetches the yearly list of Argentine public holidays
// from the ArgentinaDatos API (GET <base>/<year>).
package argentinadatos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"feriadobot/internal/holiday/models"
	"feriadobot/internal/holiday/providers"
)

const (
	// DefaultBaseURL is the public holidays endpoint; the year is appended as a path segment.
	DefaultBaseURL = "https://api.argentinadatos.com/v1/feriados"

	providerID = "argentinadatos"

	maxBodyBytes = 1 << 20
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient fetches holidays over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient HTTPDoer
}

// HTTPClientOption configures the HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client HTTPDoer) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// NewHTTPClient creates a holiday client. An empty baseURL selects DefaultBaseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...HTTPClientOption) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the provider identifier used in errors and metrics.
func (c *HTTPClient) ID() string { return providerID }

// Fetch returns the holidays of the given year in the order the API sends them.
// Every failure is returned as a *providers.ProviderError.
func (c *HTTPClient) Fetch(ctx context.Context, year int) ([]models.Record, error) {
	url := fmt.Sprintf("%s/%d", c.baseURL, year)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorInternal, providerID, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, providers.TransportError(ctx, providerID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorInternal, providerID, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, providers.NewProviderError(
			providers.CategoryForStatus(resp.StatusCode),
			providerID,
			fmt.Sprintf("unexpected status code: %d", resp.StatusCode),
			nil,
		)
	}

	var records []models.Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, providers.NewProviderError(providers.ErrorContractMismatch, providerID, "failed to parse response", err)
	}
	return records, nil
}
