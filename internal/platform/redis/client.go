package redis

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"feriadobot/internal/platform/config"
	dErrors "feriadobot/pkg/domain-errors"
)

// PoolMetrics mirrors go-redis pool statistics into Prometheus.
type PoolMetrics struct {
	Hits       prometheus.Counter
	Misses     prometheus.Counter
	Timeouts   prometheus.Counter
	TotalConns prometheus.Gauge
	IdleConns  prometheus.Gauge
}

// NewPoolMetrics registers the pool metrics on reg.
func NewPoolMetrics(reg prometheus.Registerer) *PoolMetrics {
	factory := promauto.With(reg)
	return &PoolMetrics{
		Hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "feriadobot_redis_pool_hits_total",
			Help: "Number of times a connection was found in the pool",
		}),
		Misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "feriadobot_redis_pool_misses_total",
			Help: "Number of times a connection was not found in the pool",
		}),
		Timeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "feriadobot_redis_pool_timeouts_total",
			Help: "Number of times a connection was not obtained due to timeout",
		}),
		TotalConns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "feriadobot_redis_pool_total_conns",
			Help: "Number of total connections in the pool",
		}),
		IdleConns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "feriadobot_redis_pool_idle_conns",
			Help: "Number of idle connections in the pool",
		}),
	}
}

// Client wraps the go-redis client used by the Redis cache backend.
type Client struct {
	*redis.Client
	metrics   *PoolMetrics
	lastStats *redis.PoolStats
}

// New connects to cfg.URL and pings it. m may be nil.
func New(ctx context.Context, cfg config.RedisConfig, m *PoolMetrics) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "parse redis URL")
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, dErrors.Wrap(fmt.Errorf("ping %s: %w", opts.Addr, err), dErrors.CodeUnavailable, "redis ping failed")
	}

	return &Client{Client: client, metrics: m}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.Client.Close()
}

// RecordPoolStats copies the current pool statistics into the metrics. Counters
// advance by the delta since the previous call.
func (c *Client) RecordPoolStats() {
	if c.metrics == nil {
		return
	}
	stats := c.PoolStats()

	c.metrics.TotalConns.Set(float64(stats.TotalConns))
	c.metrics.IdleConns.Set(float64(stats.IdleConns))

	var prev redis.PoolStats
	if c.lastStats != nil {
		prev = *c.lastStats
	}
	if stats.Hits > prev.Hits {
		c.metrics.Hits.Add(float64(stats.Hits - prev.Hits))
	}
	if stats.Misses > prev.Misses {
		c.metrics.Misses.Add(float64(stats.Misses - prev.Misses))
	}
	if stats.Timeouts > prev.Timeouts {
		c.metrics.Timeouts.Add(float64(stats.Timeouts - prev.Timeouts))
	}
	c.lastStats = stats
}
