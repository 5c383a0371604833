// Package stdout prints announcements instead of publishing them.
package stdout

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"feriadobot/internal/holiday/providers"
	"feriadobot/internal/publisher"
)

const providerID = "stdout"

// Writer publishes to an io.Writer, one announcement per block.
type Writer struct {
	out io.Writer
}

// New returns a Writer over out; nil selects os.Stdout.
func New(out io.Writer) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{out: out}
}

// Publish writes text followed by a blank line.
func (w *Writer) Publish(ctx context.Context, text string) (publisher.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return publisher.Receipt{}, providers.TransportError(ctx, providerID, err)
	}
	if _, err := fmt.Fprintf(w.out, "%s\n\n", text); err != nil {
		return publisher.Receipt{}, providers.NewProviderError(providers.ErrorInternal, providerID, "failed to write announcement", err)
	}
	return publisher.Receipt{ID: uuid.NewString(), Channel: publisher.ChannelStdout}, nil
}
