package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"feriadobot/internal/announcer"
	"feriadobot/internal/holiday/clients/argentinadatos"
	"feriadobot/internal/holiday/metrics"
	"feriadobot/internal/holiday/service"
	"feriadobot/internal/holiday/store"
	"feriadobot/internal/holiday/tracer"
	"feriadobot/internal/platform/config"
	platformredis "feriadobot/internal/platform/redis"
	"feriadobot/internal/publisher"
	"feriadobot/internal/publisher/email"
	"feriadobot/internal/publisher/stdout"
	"feriadobot/internal/publisher/twitter"
)

// deps are the process-level collaborators of a run.
type deps struct {
	logger   *slog.Logger
	registry prometheus.Registerer
	stdout   io.Writer
	now      time.Time
}

// run wires the pipeline from cfg and performs one announcement. Only wiring
// failures are returned; every pipeline outcome is in the report.
func run(ctx context.Context, cfg config.Config, d deps) (announcer.Report, error) {
	m := metrics.NewWithRegisterer(d.registry)
	tr := tracer.NewOTel(nil)

	cache, closeCache, err := openCache(ctx, cfg, d)
	if err != nil {
		return announcer.Report{}, err
	}
	defer func() {
		if err := closeCache(); err != nil {
			d.logger.WarnContext(ctx, "failed to close holiday cache", "error", err)
		}
	}()

	source := argentinadatos.NewHTTPClient(cfg.HolidaysAPIURL, cfg.HTTPTimeout)
	repo := service.New(cache, source,
		service.WithLogger(d.logger),
		service.WithMetrics(m),
		service.WithTracer(tr),
	)

	pub, err := newPublisher(cfg, d.stdout)
	if err != nil {
		return announcer.Report{}, err
	}

	a, err := announcer.New(repo, pub,
		announcer.WithLogger(d.logger),
		announcer.WithMetrics(m),
		announcer.WithTracer(tr),
	)
	if err != nil {
		return announcer.Report{}, err
	}

	report := a.Run(ctx, d.now)

	// The stdout publisher already printed the announcement.
	if report.Receipt.Channel != publisher.ChannelStdout {
		if report.Outcome == announcer.OutcomeNoData || report.Outcome == announcer.OutcomeNoUpcoming {
			fmt.Fprintln(d.stdout, report.Message)
		} else {
			fmt.Fprintf(d.stdout, "Mensaje a publicar:\n%s\n", report.Message)
		}
	}
	return report, nil
}

// openCache builds the configured backend. An unreachable Redis degrades to an
// in-memory cache so the run can still fetch from the source.
func openCache(ctx context.Context, cfg config.Config, d deps) (service.Cache, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Cache.Backend {
	case config.BackendMemory:
		return store.NewInMemoryCache(), noop, nil
	case config.BackendSQLite:
		c, err := store.OpenSQLiteCache(ctx, cfg.Cache.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil
	case config.BackendRedis:
		client, err := platformredis.New(ctx, cfg.Cache.Redis, platformredis.NewPoolMetrics(d.registry))
		if err != nil {
			d.logger.WarnContext(ctx, "redis cache unavailable, using memory", "error", err)
			return store.NewInMemoryCache(), noop, nil
		}
		closeFn := func() error {
			client.RecordPoolStats()
			return client.Close()
		}
		return store.NewRedisCache(client.Client, cfg.Cache.RedisKey), closeFn, nil
	case config.BackendFile, "":
		return store.NewFileCache(cfg.Cache.Path), noop, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

func newPublisher(cfg config.Config, out io.Writer) (publisher.Publisher, error) {
	switch cfg.Publisher {
	case config.PublisherStdout:
		return stdout.New(out), nil
	case config.PublisherTwitter:
		return twitter.New(twitter.Credentials{
			ConsumerKey:       cfg.Twitter.APIKey,
			ConsumerSecret:    cfg.Twitter.KeySecret,
			AccessToken:       cfg.Twitter.AccessToken,
			AccessTokenSecret: cfg.Twitter.AccessTokenSecret,
		}, cfg.HTTPTimeout), nil
	case config.PublisherEmail:
		var opts []email.Option
		if cfg.Email.Subject != "" {
			opts = append(opts, email.WithSubject(cfg.Email.Subject))
		}
		return email.NewSender(cfg.Email.APIKey, cfg.Email.From, email.ParseRecipients(cfg.Email.To), opts...), nil
	}
	return nil, errors.New("unknown publisher " + cfg.Publisher)
}
