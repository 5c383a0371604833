package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"feriadobot/internal/holiday/providers"
	"feriadobot/internal/publisher"
)

type ClientSuite struct {
	suite.Suite
	creds Credentials
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.creds = Credentials{
		ConsumerKey:       "consumer-key",
		ConsumerSecret:    "consumer-secret",
		AccessToken:       "access-token",
		AccessTokenSecret: "access-secret",
	}
}

func (s *ClientSuite) server(handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	s.T().Cleanup(srv.Close)
	return New(s.creds, 2*time.Second, WithBaseURL(srv.URL+"/"))
}

func (s *ClientSuite) TestPublish() {
	var (
		gotAuth string
		gotBody createRequest
	)
	client := s.server(func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		s.Equal("/2/tweets", r.URL.Path)
		s.Equal("application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		s.Require().NoError(json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1445880548472328192","text":"ok"}}`))
	})

	text := "📆 Próximo feriado: Navidad (25/12)\n\n⏳ Faltan 5 días, 0h 0min"
	receipt, err := client.Publish(context.Background(), text)
	s.Require().NoError(err)

	s.Equal(publisher.Receipt{ID: "1445880548472328192", Channel: publisher.ChannelTwitter}, receipt)
	s.Equal(text, gotBody.Text)
	s.True(strings.HasPrefix(gotAuth, "OAuth "), "request must be OAuth1 signed: %q", gotAuth)
	s.Contains(gotAuth, `oauth_consumer_key="consumer-key"`)
	s.Contains(gotAuth, `oauth_token="access-token"`)
	s.Contains(gotAuth, "oauth_signature=")
}

func (s *ClientSuite) TestPublishStatusMapping() {
	tests := []struct {
		name      string
		status    int
		body      string
		category  providers.ErrorCategory
		retryable bool
		message   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"title":"Unauthorized","detail":"Unauthorized","status":401}`, providers.ErrorAuthentication, false, "Unauthorized"},
		{"duplicate content", http.StatusForbidden, `{"title":"Forbidden","detail":"You are not allowed to create a Tweet with duplicate content.","status":403}`, providers.ErrorAuthentication, false, "duplicate content"},
		{"rate limited", http.StatusTooManyRequests, `{"title":"Too Many Requests","status":429}`, providers.ErrorRateLimited, true, "Too Many Requests"},
		{"server error", http.StatusServiceUnavailable, `upstream down`, providers.ErrorProviderOutage, true, "503"},
		{"bad request", http.StatusBadRequest, `{}`, providers.ErrorBadData, false, "400"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			client := s.server(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Publish(context.Background(), "hola")
			s.Require().Error(err)

			var pe *providers.ProviderError
			s.Require().ErrorAs(err, &pe)
			s.Equal(tt.category, pe.Category)
			s.Equal(tt.retryable, pe.Retryable)
			s.Equal(providerID, pe.ProviderID)
			s.Contains(pe.Error(), tt.message)
		})
	}
}

func (s *ClientSuite) TestPublishContractMismatch() {
	for name, body := range map[string]string{
		"not json":   `<html>`,
		"missing id": `{"data":{"text":"hola"}}`,
	} {
		s.Run(name, func() {
			client := s.server(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(body))
			})
			_, err := client.Publish(context.Background(), "hola")
			s.Equal(providers.ErrorContractMismatch, providers.GetCategory(err))
		})
	}
}

func (s *ClientSuite) TestPublishUnreachable() {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := New(s.creds, time.Second, WithBaseURL(srv.URL)).Publish(context.Background(), "hola")
	s.Equal(providers.ErrorProviderOutage, providers.GetCategory(err))
	s.True(providers.IsRetryable(err))
}

func (s *ClientSuite) TestPublishTimeout() {
	client := s.server(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Publish(ctx, "hola")
	s.Equal(providers.ErrorTimeout, providers.GetCategory(err))
}
