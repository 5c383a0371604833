// Command mock-feriados serves a local stand-in for the ArgentinaDatos holidays
// API so the bot can run without network access.
package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"feriadobot/internal/platform/logger"
)

const (
	defaultPort      = "8082"
	defaultLatencyMs = "0"
)

func main() {
	port := getEnv("PORT", defaultPort)
	latency := time.Duration(getEnvInt("LATENCY_MS", defaultLatencyMs)) * time.Millisecond
	failYears := parseYears(os.Getenv("FAIL_YEARS"))

	lg := logger.New(slog.LevelInfo)
	router := newRouter(lg, latency, failYears)

	lg.Info("mock holiday API starting", "port", port, "latency_ms", latency.Milliseconds(), "fail_years", os.Getenv("FAIL_YEARS"))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key, fallback string) int {
	n, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		n, _ = strconv.Atoi(fallback)
	}
	return n
}

// parseYears reads a comma-separated list such as "2024,2025".
func parseYears(list string) map[int]bool {
	years := make(map[int]bool)
	for _, part := range strings.Split(list, ",") {
		if y, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			years[y] = true
		}
	}
	return years
}
