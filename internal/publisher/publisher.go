// Package publisher holds the types shared by the announcement channels.
package publisher

import "context"

// Channel names, also used as the PUBLISHER config value.
const (
	ChannelTwitter = "twitter"
	ChannelEmail   = "email"
	ChannelStdout  = "stdout"
)

// Receipt identifies a published announcement.
type Receipt struct {
	ID      string
	Channel string
}

// Publisher hands an announcement to an external channel. A nil error means the
// channel accepted the text; failures are *providers.ProviderError.
type Publisher interface {
	Publish(ctx context.Context, text string) (Receipt, error)
}
