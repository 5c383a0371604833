// Package announcer runs one announcement: load the year's holidays, pick the
// next one, render the countdown and hand the text to a publisher.
package announcer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"feriadobot/internal/holiday/domain/countdown"
	"feriadobot/internal/holiday/domain/upcoming"
	"feriadobot/internal/holiday/metrics"
	"feriadobot/internal/holiday/models"
	"feriadobot/internal/holiday/providers"
	"feriadobot/internal/holiday/tracer"
	"feriadobot/internal/publisher"
)

// Holidays returns a year's holiday list. It never fails; missing data is
// reported through the Lookup origin.
type Holidays interface {
	Get(ctx context.Context, year int) models.Lookup
}

// Publisher hands the announcement to an external channel.
type Publisher interface {
	Publish(ctx context.Context, text string) (publisher.Receipt, error)
}

// Outcome is the terminal state of a run.
type Outcome string

const (
	OutcomeNoData        Outcome = "no_data"
	OutcomeNoUpcoming    Outcome = "no_upcoming"
	OutcomePublished     Outcome = "published"
	OutcomePublishFailed Outcome = "publish_failed"
)

// NoDataMessage is printed when no holiday list could be obtained.
const NoDataMessage = "No se pudieron obtener los feriados."

// Report describes what a run did. Holiday, Countdown and Receipt are only set
// when the run got that far.
type Report struct {
	RunID     string
	Outcome   Outcome
	Origin    models.Origin
	Holiday   models.Record
	Countdown models.Countdown
	Message   string
	Receipt   publisher.Receipt
	Err       error
}

// Announcer wires the pipeline together.
type Announcer struct {
	holidays  Holidays
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    tracer.Tracer
}

// Option configures the Announcer.
type Option func(*Announcer)

// WithLogger sets the logger; each run derives a child logger carrying run_id.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Announcer) {
		a.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Announcer) {
		a.metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(a *Announcer) {
		a.tracer = t
	}
}

// New creates an announcer.
func New(holidays Holidays, pub Publisher, opts ...Option) (*Announcer, error) {
	if holidays == nil {
		return nil, errors.New("holidays repository is required")
	}
	if pub == nil {
		return nil, errors.New("publisher is required")
	}
	a := &Announcer{
		holidays:  holidays,
		publisher: pub,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:    tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Run performs one announcement for the instant now. The year and "today" are
// taken from now in its own location. Publishing is attempted at most once.
func (a *Announcer) Run(ctx context.Context, now time.Time) (report Report) {
	report.RunID = uuid.NewString()
	log := a.logger.With("run_id", report.RunID)

	ctx, span := a.tracer.Start(ctx, tracer.SpanAnnouncerRun, tracer.Int64(tracer.AttrYear, int64(now.Year())))
	defer func() {
		span.SetAttributes(tracer.String(tracer.AttrOutcome, string(report.Outcome)))
		span.End(report.Err)
		if a.metrics != nil {
			a.metrics.RecordRun(string(report.Outcome))
		}
	}()

	lookup := a.holidays.Get(ctx, now.Year())
	report.Origin = lookup.Origin
	if !lookup.Available() {
		log.WarnContext(ctx, "no holiday data available", "year", now.Year(), "origin", string(lookup.Origin))
		report.Outcome = OutcomeNoData
		report.Message = NoDataMessage
		return report
	}

	next, ok := upcoming.Select(lookup.Records, now)
	if !ok {
		log.InfoContext(ctx, "no upcoming holiday this year", "year", now.Year(), "count", len(lookup.Records))
		report.Outcome = OutcomeNoUpcoming
		report.Message = countdown.NoUpcoming
		return report
	}

	left := countdown.Remaining(next.Date, now)
	report.Holiday = next
	report.Countdown = left
	report.Message = countdown.Render(next, left)
	if a.metrics != nil {
		a.metrics.SetDaysUntilHoliday(left.Days)
	}
	log.InfoContext(ctx, "next holiday selected",
		"holiday", next.Name,
		"date", next.Date.String(),
		"days", left.Days,
		"hours", left.Hours,
		"minutes", left.Minutes,
		"origin", string(lookup.Origin),
	)

	receipt, err := a.publish(ctx, report.Message)
	if err != nil {
		log.ErrorContext(ctx, "failed to publish announcement",
			"category", string(providers.GetCategory(err)),
			"retryable", providers.IsRetryable(err),
			"error", err,
		)
		report.Outcome = OutcomePublishFailed
		report.Err = err
		return report
	}

	log.InfoContext(ctx, "announcement published", "channel", receipt.Channel, "id", receipt.ID)
	report.Outcome = OutcomePublished
	report.Receipt = receipt
	return report
}

func (a *Announcer) publish(ctx context.Context, text string) (publisher.Receipt, error) {
	ctx, span := a.tracer.Start(ctx, tracer.SpanPublisherPost)
	receipt, err := a.publisher.Publish(ctx, text)
	if err != nil {
		span.SetAttributes(tracer.String(tracer.AttrErrorCategory, string(providers.GetCategory(err))))
	} else {
		span.SetAttributes(tracer.String(tracer.AttrChannel, receipt.Channel))
	}
	span.End(err)
	return receipt, err
}
