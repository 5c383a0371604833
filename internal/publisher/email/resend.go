// Package email sends announcements by e-mail through Resend.
package email

import (
	"context"
	"errors"
	"strings"

	"github.com/resend/resend-go/v2"

	"feriadobot/internal/holiday/providers"
	"feriadobot/internal/publisher"
)

const (
	providerID = "resend"

	// DefaultSubject is used when the sender is built without one.
	DefaultSubject = "Próximo feriado"
)

// emailService is the part of the Resend SDK the sender needs.
type emailService interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Sender publishes the announcement as a plain-text e-mail.
type Sender struct {
	emails  emailService
	from    string
	to      []string
	subject string
}

// Option configures the Sender.
type Option func(*Sender)

// WithSubject overrides DefaultSubject.
func WithSubject(subject string) Option {
	return func(s *Sender) {
		s.subject = subject
	}
}

func withService(svc emailService) Option {
	return func(s *Sender) {
		s.emails = svc
	}
}

// NewSender creates a sender for apiKey. to holds one or more recipients.
func NewSender(apiKey, from string, to []string, opts ...Option) *Sender {
	s := &Sender{
		emails:  resend.NewClient(apiKey).Emails,
		from:    from,
		to:      to,
		subject: DefaultSubject,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseRecipients splits a comma-separated address list, dropping blanks.
func ParseRecipients(list string) []string {
	var out []string
	for _, addr := range strings.Split(list, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// Publish sends text to the configured recipients.
func (s *Sender) Publish(ctx context.Context, text string) (publisher.Receipt, error) {
	if len(s.to) == 0 {
		return publisher.Receipt{}, providers.NewProviderError(providers.ErrorBadData, providerID, "no recipients configured", nil)
	}

	sent, err := s.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      s.to,
		Subject: s.subject,
		Text:    text,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return publisher.Receipt{}, providers.TransportError(ctx, providerID, err)
		}
		return publisher.Receipt{}, providers.NewProviderError(providers.ErrorProviderOutage, providerID, "resend send failed", err)
	}
	if sent == nil || sent.Id == "" {
		return publisher.Receipt{}, providers.NewProviderError(providers.ErrorContractMismatch, providerID, "response has no message id", nil)
	}
	return publisher.Receipt{ID: sent.Id, Channel: publisher.ChannelEmail}, nil
}
