// Package twitter posts announcements through the X API v2 (POST /2/tweets)
// with OAuth 1.0a user-context signing.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"feriadobot/internal/holiday/providers"
	"feriadobot/internal/publisher"
)

const (
	// DefaultBaseURL is the X API host.
	DefaultBaseURL = "https://api.twitter.com"

	providerID = "twitter"

	maxBodyBytes = 64 << 10
)

// Credentials are the app consumer pair and the account access token pair.
type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client publishes posts.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL points the client at another host (tests, mocks).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the signing HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// New creates a client whose requests are signed with creds.
func New(creds Credentials, timeout time.Duration, opts ...Option) *Client {
	signed := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret).
		Client(oauth1.NoContext, oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret))
	signed.Timeout = timeout

	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: signed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type createRequest struct {
	Text string `json:"text"`
}

type createResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// problem is the error body the API returns for rejected requests.
type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Publish creates a post with text.
func (c *Client) Publish(ctx context.Context, text string) (publisher.Receipt, error) {
	payload, err := json.Marshal(createRequest{Text: text})
	if err != nil {
		return publisher.Receipt{}, providers.NewProviderError(providers.ErrorInternal, providerID, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return publisher.Receipt{}, providers.NewProviderError(providers.ErrorInternal, providerID, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return publisher.Receipt{}, providers.TransportError(ctx, providerID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return publisher.Receipt{}, providers.NewProviderError(providers.ErrorInternal, providerID, "failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return publisher.Receipt{}, providers.NewProviderError(
			providers.CategoryForStatus(resp.StatusCode),
			providerID,
			statusMessage(resp.StatusCode, body),
			nil,
		)
	}

	var created createResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return publisher.Receipt{}, providers.NewProviderError(providers.ErrorContractMismatch, providerID, "failed to parse response", err)
	}
	if created.Data.ID == "" {
		return publisher.Receipt{}, providers.NewProviderError(providers.ErrorContractMismatch, providerID, "response has no post id", nil)
	}
	return publisher.Receipt{ID: created.Data.ID, Channel: publisher.ChannelTwitter}, nil
}

func statusMessage(status int, body []byte) string {
	msg := fmt.Sprintf("unexpected status code: %d", status)
	var p problem
	if json.Unmarshal(body, &p) != nil {
		return msg
	}
	switch {
	case p.Detail != "":
		return msg + ": " + p.Detail
	case p.Title != "":
		return msg + ": " + p.Title
	}
	return msg
}
