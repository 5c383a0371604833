package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	dErrors "feriadobot/pkg/domain-errors"
)

// Cache backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Publisher channels.
const (
	PublisherTwitter = "twitter"
	PublisherEmail   = "email"
	PublisherStdout  = "stdout"
)

// Defaults applied by FromEnv.
const (
	DefaultTimezone    = "America/Buenos_Aires"
	DefaultCachePath   = "feriados.json"
	DefaultSQLitePath  = "feriados.db"
	DefaultHTTPTimeout = 10 * time.Second
	DefaultRunTimeout  = 30 * time.Second
)

// Config is the full runtime configuration of one announcement run.
type Config struct {
	HolidaysAPIURL string
	Timezone       string
	HTTPTimeout    time.Duration
	RunTimeout     time.Duration
	LogLevel       slog.Level
	PushgatewayURL string

	Cache     CacheConfig
	Publisher string
	DryRun    bool
	Twitter   TwitterConfig
	Email     EmailConfig

	location *time.Location
}

// CacheConfig selects and locates the holiday cache.
type CacheConfig struct {
	Backend    string
	Path       string
	SQLitePath string
	RedisKey   string
	Redis      RedisConfig
}

// RedisConfig holds connection settings for the Redis cache backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// TwitterConfig holds the OAuth 1.0a user-context credentials.
type TwitterConfig struct {
	APIKey            string
	KeySecret         string
	AccessToken       string
	AccessTokenSecret string
}

// EmailConfig holds the Resend settings.
type EmailConfig struct {
	APIKey  string
	From    string
	To      string
	Subject string
}

// LoadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// FromEnv builds a Config from environment variables and validates it.
func FromEnv() (Config, error) {
	var errs []error

	cfg := Config{
		HolidaysAPIURL: os.Getenv("HOLIDAYS_API_URL"),
		Timezone:       envOr("TIMEZONE", DefaultTimezone),
		HTTPTimeout:    durationEnv("HTTP_TIMEOUT", DefaultHTTPTimeout, &errs),
		RunTimeout:     durationEnv("RUN_TIMEOUT", DefaultRunTimeout, &errs),
		PushgatewayURL: os.Getenv("PUSHGATEWAY_URL"),
		Cache: CacheConfig{
			Backend:    strings.ToLower(envOr("CACHE_BACKEND", BackendFile)),
			Path:       envOr("CACHE_PATH", DefaultCachePath),
			SQLitePath: envOr("SQLITE_PATH", DefaultSQLitePath),
			RedisKey:   os.Getenv("REDIS_KEY"),
			Redis: RedisConfig{
				URL:          os.Getenv("REDIS_URL"),
				PoolSize:     intEnv("REDIS_POOL_SIZE", 2, &errs),
				MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 0, &errs),
				DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 2*time.Second, &errs),
				ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", time.Second, &errs),
				WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", time.Second, &errs),
			},
		},
		Publisher: strings.ToLower(envOr("PUBLISHER", PublisherTwitter)),
		DryRun:    boolEnv("DRY_RUN", &errs),
		Twitter: TwitterConfig{
			APIKey:            os.Getenv("TWITTER_API_KEY"),
			KeySecret:         os.Getenv("TWITTER_KEY_SECRET"),
			AccessToken:       os.Getenv("TWITTER_ACCESS_TOKEN"),
			AccessTokenSecret: os.Getenv("TWITTER_ACCESS_TOKEN_SECRET"),
		},
		Email: EmailConfig{
			APIKey:  os.Getenv("RESEND_API_KEY"),
			From:    os.Getenv("EMAIL_FROM"),
			To:      os.Getenv("EMAIL_TO"),
			Subject: os.Getenv("EMAIL_SUBJECT"),
		},
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			errs = append(errs, dErrors.Wrap(err, dErrors.CodeInvalidInput, "LOG_LEVEL"))
		}
	}
	if cfg.DryRun {
		cfg.Publisher = PublisherStdout
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid configuration")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field rules and resolves the timezone.
func (c *Config) Validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "TIMEZONE")
	}
	c.location = loc

	if c.HTTPTimeout <= 0 || c.RunTimeout <= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "HTTP_TIMEOUT and RUN_TIMEOUT must be positive")
	}

	switch c.Cache.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.Cache.Redis.URL == "" {
			return dErrors.New(dErrors.CodeInvalidInput, "REDIS_URL is required for the redis cache backend")
		}
	default:
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("CACHE_BACKEND: unknown backend %q", c.Cache.Backend))
	}

	switch c.Publisher {
	case PublisherStdout:
	case PublisherTwitter:
		if err := requireSet(map[string]string{
			"TWITTER_API_KEY":             c.Twitter.APIKey,
			"TWITTER_KEY_SECRET":          c.Twitter.KeySecret,
			"TWITTER_ACCESS_TOKEN":        c.Twitter.AccessToken,
			"TWITTER_ACCESS_TOKEN_SECRET": c.Twitter.AccessTokenSecret,
		}); err != nil {
			return err
		}
	case PublisherEmail:
		if err := requireSet(map[string]string{
			"RESEND_API_KEY": c.Email.APIKey,
			"EMAIL_FROM":     c.Email.From,
			"EMAIL_TO":       c.Email.To,
		}); err != nil {
			return err
		}
	default:
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("PUBLISHER: unknown publisher %q", c.Publisher))
	}
	return nil
}

// Location returns the resolved timezone. Validate must have succeeded.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func requireSet(values map[string]string) error {
	var missing []string
	for name, v := range values {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return dErrors.New(dErrors.CodeMissingCredentials, "missing credentials: "+strings.Join(missing, ", "))
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func intEnv(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func boolEnv(key string, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return false
	}
	return b
}
