// Command feriadobot announces the next Argentine public holiday. It is meant
// to be run once per schedule tick (cron, CI).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"feriadobot/internal/platform/config"
	"feriadobot/internal/platform/logger"
	platformmetrics "feriadobot/internal/platform/metrics"
)

var version = "dev"

func main() {
	os.Exit(realMain())
}

func realMain() int {
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		return 0
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "feriadobot:", err)
		return 2
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	reg := prometheus.NewRegistry()
	batch := platformmetrics.NewBatch(reg)
	batch.BuildInfo.WithLabelValues(version).Set(1)

	log.InfoContext(ctx, "starting feriadobot",
		"version", version,
		"cache_backend", cfg.Cache.Backend,
		"publisher", cfg.Publisher,
		"timezone", cfg.Timezone,
	)

	start := time.Now()
	report, err := run(ctx, cfg, deps{
		logger:   log,
		registry: reg,
		stdout:   os.Stdout,
		now:      time.Now().In(cfg.Location()),
	})
	if err != nil {
		log.ErrorContext(ctx, "run failed", "error", err)
		return 1
	}
	batch.Finish(start, time.Now(), report.Err == nil)

	if cfg.PushgatewayURL != "" {
		host, _ := os.Hostname()
		pushCtx, pushCancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
		defer pushCancel()
		if err := platformmetrics.Push(pushCtx, cfg.PushgatewayURL, platformmetrics.DefaultJob, host, reg); err != nil {
			log.WarnContext(ctx, "failed to push metrics", "error", err)
		}
	}

	log.InfoContext(ctx, "run finished",
		"run_id", report.RunID,
		"outcome", string(report.Outcome),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return 0
}
