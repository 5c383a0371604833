package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"feriadobot/internal/holiday/metrics"
	"feriadobot/internal/holiday/models"
	"feriadobot/internal/holiday/providers"
	"feriadobot/internal/holiday/tracer"
)

// Cache is the persisted holiday list. IsValid folds every failure into false.
type Cache interface {
	Backend() string
	IsValid(ctx context.Context, year int) bool
	Load(ctx context.Context) ([]models.Record, error)
	Save(ctx context.Context, records []models.Record) error
}

// Source fetches a full year of holidays from upstream.
type Source interface {
	ID() string
	Fetch(ctx context.Context, year int) ([]models.Record, error)
}

// Repository returns a year's holidays from the cache when it is valid for that
// year, and otherwise from the source, repopulating the cache.
type Repository struct {
	cache   Cache
	source  Source
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer
}

// Option configures the Repository.
type Option func(*Repository)

// WithLogger sets the logger for the repository.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Repository) {
		r.metrics = m
	}
}

// WithTracer sets the tracer; the default discards spans.
func WithTracer(t tracer.Tracer) Option {
	return func(r *Repository) {
		r.tracer = t
	}
}

// New creates a repository over cache and source.
func New(cache Cache, source Source, opts ...Option) *Repository {
	r := &Repository{
		cache:  cache,
		source: source,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the holidays for year. It never fails: when neither the cache nor
// the source can provide data the Lookup has OriginUnavailable.
//
// Side effects: at most one cache write, only after a successful non-empty fetch.
func (r *Repository) Get(ctx context.Context, year int) (lookup models.Lookup) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanHolidaysGet,
		tracer.Int64(tracer.AttrYear, int64(year)),
		tracer.String(tracer.AttrCacheBackend, r.cache.Backend()),
	)
	defer func() {
		span.SetAttributes(
			tracer.String(tracer.AttrOrigin, string(lookup.Origin)),
			tracer.Int64(tracer.AttrRecordCount, int64(len(lookup.Records))),
		)
		span.End(nil)
	}()

	if records, ok := r.fromCache(ctx, year); ok {
		span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, true))
		return models.Lookup{Year: year, Records: records, Origin: models.OriginCache}
	}
	span.SetAttributes(tracer.Bool(tracer.AttrCacheHit, false))

	records, err := r.fetch(ctx, year)
	if err != nil {
		r.logger.WarnContext(ctx, "holiday source unavailable",
			"year", year,
			"provider", r.source.ID(),
			"category", string(providers.GetCategory(err)),
			"retryable", providers.IsRetryable(err),
			"error", err,
		)
		return models.Lookup{Year: year, Origin: models.OriginUnavailable}
	}
	if len(records) == 0 {
		r.logger.WarnContext(ctx, "holiday source returned no records", "year", year, "provider", r.source.ID())
		return models.Lookup{Year: year, Origin: models.OriginUnavailable}
	}

	if r.save(ctx, records) {
		span.AddEvent(tracer.EventCacheSaved)
	}
	return models.Lookup{Year: year, Records: records, Origin: models.OriginRemote}
}

func (r *Repository) fromCache(ctx context.Context, year int) ([]models.Record, bool) {
	backend := r.cache.Backend()
	if !r.cache.IsValid(ctx, year) {
		r.recordCacheLookup(backend, metrics.CacheMiss)
		r.logger.InfoContext(ctx, "holiday cache miss", "year", year, "backend", backend)
		return nil, false
	}

	records, err := r.cache.Load(ctx)
	if err != nil {
		// The document changed or broke between the two reads.
		r.recordCacheLookup(backend, metrics.CacheInvalid)
		r.logger.WarnContext(ctx, "holiday cache unreadable after validation", "backend", backend, "error", err)
		return nil, false
	}

	r.recordCacheLookup(backend, metrics.CacheHit)
	r.logger.InfoContext(ctx, "using cached holidays", "year", year, "backend", backend, "count", len(records))
	return records, true
}

func (r *Repository) fetch(ctx context.Context, year int) ([]models.Record, error) {
	ctx, span := r.tracer.Start(ctx, tracer.SpanSourceFetch, tracer.Int64(tracer.AttrYear, int64(year)))
	start := time.Now()

	r.logger.InfoContext(ctx, "fetching holidays", "year", year, "provider", r.source.ID())
	records, err := r.source.Fetch(ctx, year)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = string(providers.GetCategory(err))
		span.SetAttributes(tracer.String(tracer.AttrErrorCategory, outcome))
	case len(records) == 0:
		outcome = "empty"
	}
	if r.metrics != nil {
		r.metrics.RecordFetch(outcome, time.Since(start).Seconds())
	}
	span.End(err)
	return records, err
}

func (r *Repository) save(ctx context.Context, records []models.Record) bool {
	backend := r.cache.Backend()
	err := r.cache.Save(ctx, records)
	if r.metrics != nil {
		r.metrics.RecordCacheWrite(backend, err)
	}
	if err != nil {
		r.logger.WarnContext(ctx, "failed to save holiday cache", "backend", backend, "error", err)
		return false
	}
	r.logger.InfoContext(ctx, "holiday cache saved", "backend", backend, "count", len(records))
	return true
}

func (r *Repository) recordCacheLookup(backend, result string) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordCacheLookup(backend, result)
}
