// Package config reads process configuration from the environment and optional .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr      string
	Env       string
	LogLevel  string
	APIPrefix string

	StoreDriver string
	DBDSN       string
	DBTimeout   time.Duration

	AuthMode            string
	DemoOwner           string
	JWTSecret           string
	JWTTTL              time.Duration
	ExternalJWTSecret   string
	ExternalJWTAudience string
	VerifyTokenTTL      time.Duration
	FrontendBaseURL     string

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	GoogleBooksAPIKey  string
	GoogleBooksBaseURL string
	SearchTimeout      time.Duration
	SearchRPS          int

	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
	MaxBodyBytes       int64
	EnableHSTS         bool

	KeepStatusOnResave bool
}

// Production reports whether error details must be hidden from clients.
func (c Config) Production() bool {
	return c.Env == "production"
}

// LoadEnvFiles loads .env and .env.local without overriding variables already set.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads the configuration and validates it.
func Load() (Config, error) {
	LoadEnvFiles()

	var errs []error
	cfg := Config{
		Addr:      getEnv("APP_ADDR", ":4000"),
		Env:       getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		APIPrefix: getEnv("API_PREFIX", "/api"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "sqlite")),
		DBDSN:       os.Getenv("DB_DSN"),
		DBTimeout:   getDuration("DB_TIMEOUT", 3*time.Second, &errs),

		AuthMode:            strings.ToLower(getEnv("AUTH_MODE", "demo")),
		DemoOwner:           getEnv("DEMO_OWNER", "demo-user"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTTTL:              getDuration("JWT_TTL", 7*24*time.Hour, &errs),
		ExternalJWTSecret:   os.Getenv("EXTERNAL_JWT_SECRET"),
		ExternalJWTAudience: os.Getenv("EXTERNAL_JWT_AUDIENCE"),
		VerifyTokenTTL:      getDuration("VERIFY_TOKEN_TTL", 24*time.Hour, &errs),
		FrontendBaseURL:     getEnv("FRONTEND_BASE_URL", "http://localhost:5173"),

		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPort:  getInt("SMTP_PORT", 587, &errs),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		EmailFrom: os.Getenv("EMAIL_FROM"),

		GoogleBooksAPIKey:  os.Getenv("GOOGLE_BOOKS_API_KEY"),
		GoogleBooksBaseURL: getEnv("GOOGLE_BOOKS_BASE_URL", "https://www.googleapis.com/books/v1"),
		SearchTimeout:      getDuration("SEARCH_TIMEOUT", 10*time.Second, &errs),
		SearchRPS:          getInt("SEARCH_RPS", 5, &errs),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		RateLimitRPS:       getFloat("RATE_LIMIT_RPS", 20, &errs),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 40, &errs),
		MaxBodyBytes:       int64(getInt("MAX_BODY_BYTES", 1<<20, &errs)),
		EnableHSTS:         getBool("ENABLE_HSTS", false, &errs),

		KeepStatusOnResave: getBool("KEEP_STATUS_ON_RESAVE", false, &errs),
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case "sqlite":
	case "postgres":
		if c.DBDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required for STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be sqlite or postgres, got %q", c.StoreDriver))
	}

	switch c.AuthMode {
	case "demo":
		if strings.TrimSpace(c.DemoOwner) == "" {
			errs = append(errs, errors.New("DEMO_OWNER must not be empty"))
		}
	case "local":
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required for AUTH_MODE=local"))
		}
	case "external":
		if c.ExternalJWTSecret == "" {
			errs = append(errs, errors.New("EXTERNAL_JWT_SECRET is required for AUTH_MODE=external"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_MODE must be demo, local or external, got %q", c.AuthMode))
	}

	if c.APIPrefix != "" && (!strings.HasPrefix(c.APIPrefix, "/") || strings.HasSuffix(c.APIPrefix, "/")) {
		errs = append(errs, fmt.Errorf("API_PREFIX must start and not end with '/', got %q", c.APIPrefix))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func getInt(key string, def int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func getFloat(key string, def float64, errs *[]error) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func getBool(key string, def bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
