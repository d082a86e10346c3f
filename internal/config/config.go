package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string
	SecureCookies     bool

	DBDriver string
	DBDSN    string

	MongoURI    string
	MongoDBName string

	OpenAIKey     string
	OpenAIBaseURL string
	HeyGenKey     string
	HeyGenBaseURL string

	CookieMaxBytes        int
	CookieEvictValueBytes int
	CookieMaxWriteBytes   int

	ProxyRateLimit    float64
	ProxyRateBurst    int
	TrustProxyHeaders bool
	UpstreamTimeout   time.Duration
}

// Load reads the env file named by ENV_FILE (default .env) if present, then
// the process environment. Variables already set are not overridden.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8082"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		SupabaseURL:       os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:   os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),

		DBDriver: getEnv("DB_DRIVER", "pgx"),
		DBDSN:    os.Getenv("DB_DSN"),

		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDBName: getEnv("MONGO_DB_NAME", "speakup"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		HeyGenKey:     os.Getenv("HEYGEN_API_KEY"),
		HeyGenBaseURL: os.Getenv("HEYGEN_BASE_URL"),
	}

	var err error
	if cfg.SecureCookies, err = getBool("SECURE_COOKIES", false); err != nil {
		return nil, err
	}
	if cfg.TrustProxyHeaders, err = getBool("TRUST_PROXY_HEADERS", false); err != nil {
		return nil, err
	}
	if cfg.CookieMaxBytes, err = getInt("COOKIE_MAX_BYTES", 4000); err != nil {
		return nil, err
	}
	if cfg.CookieEvictValueBytes, err = getInt("COOKIE_EVICT_VALUE_BYTES", 1000); err != nil {
		return nil, err
	}
	if cfg.CookieMaxWriteBytes, err = getInt("COOKIE_MAX_WRITE_BYTES", 2000); err != nil {
		return nil, err
	}
	if cfg.ProxyRateBurst, err = getInt("PROXY_RATE_BURST", 5); err != nil {
		return nil, err
	}
	if raw := os.Getenv("PROXY_RATE_LIMIT"); raw != "" {
		if cfg.ProxyRateLimit, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("invalid PROXY_RATE_LIMIT %q: %w", raw, err)
		}
	} else {
		cfg.ProxyRateLimit = 2
	}
	if raw := os.Getenv("UPSTREAM_TIMEOUT"); raw != "" {
		if cfg.UpstreamTimeout, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT format: %w", err)
		}
	} else {
		cfg.UpstreamTimeout = 30 * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return errors.New("SUPABASE_URL is not set")
	}
	if c.SupabaseAnonKey == "" {
		return errors.New("SUPABASE_ANON_KEY is not set")
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is not set")
	}
	if c.DBDriver != "pgx" && c.DBDriver != "mysql" {
		return fmt.Errorf("DB_DRIVER must be pgx or mysql, got %q", c.DBDriver)
	}
	if c.CookieMaxBytes <= 0 || c.CookieEvictValueBytes <= 0 || c.CookieMaxWriteBytes <= 0 {
		return errors.New("cookie thresholds must be positive")
	}
	if c.ProxyRateLimit <= 0 || c.ProxyRateBurst <= 0 {
		return errors.New("PROXY_RATE_LIMIT and PROXY_RATE_BURST must be positive")
	}
	if c.UpstreamTimeout <= 0 {
		return errors.New("UPSTREAM_TIMEOUT must be positive")
	}
	return nil
}

// HistoryEnabled reports whether practice history has a database.
func (c *Config) HistoryEnabled() bool {
	return c.MongoURI != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return b, nil
}
