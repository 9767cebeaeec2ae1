// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "3333".
	Port string

	// Environment is GO_ENV. "production" switches logs to JSON and skips .env loading.
	Environment string

	// StoreDriver selects the persistence backend: "postgres" (default) or "memory".
	StoreDriver string

	// DatabaseURL is the Postgres connection string. Required for the postgres driver.
	DatabaseURL string

	// MigrateOnStart applies the embedded goose migrations before serving.
	MigrateOnStart bool

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["*"]; the mobile client and the web confirm page both call the API.
	CORSOrigins []string

	// APIBaseURL is the public URL of this API, used in the owner's confirm link.
	APIBaseURL string

	// WebBaseURL is the public URL of the web app, target of redirects and
	// of the invitee confirm link.
	WebBaseURL string

	Mail MailConfig

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// RateLimitRPS and RateLimitBurst throttle the mail-sending routes per client IP.
	RateLimitRPS   float64
	RateLimitBurst int
}

// MailConfig selects the mail transport.
type MailConfig struct {
	Provider    string // log (default), smtp or ses
	FromAddress string
	FromName    string
	Concurrency int // maximum in-flight sends during trip confirmation

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
}

// Load reads configuration from environment variables and returns a Config.
// Outside production a .env file in the working directory is loaded first;
// variables already set in the environment win.
// Returns an error listing any required variables that are not set and any
// numeric variables that do not parse.
func Load() (Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	p := parser{}
	cfg := Config{
		Port:           getEnv("PORT", "3333"),
		Environment:    env,
		StoreDriver:    getEnv("STORE_DRIVER", StorePostgres),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrateOnStart: p.bool("MIGRATE_ON_START", false),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "*")),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3333"), "/"),
		WebBaseURL:     strings.TrimRight(getEnv("WEB_BASE_URL", "http://localhost:3000"), "/"),
		Mail: MailConfig{
			Provider:           getEnv("MAIL_PROVIDER", "log"),
			FromAddress:        getEnv("MAIL_FROM_ADDRESS", "debs@planner.com"),
			FromName:           getEnv("MAIL_FROM_NAME", "Equipe plann.er"),
			Concurrency:        p.int("MAIL_CONCURRENCY", 8),
			SMTPHost:           os.Getenv("SMTP_HOST"),
			SMTPPort:           p.int("SMTP_PORT", 587),
			SMTPUser:           os.Getenv("SMTP_USER"),
			SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
			SESRegion:          os.Getenv("SES_REGION"),
			SESAccessKeyID:     os.Getenv("SES_ACCESS_KEY_ID"),
			SESSecretAccessKey: os.Getenv("SES_SECRET_ACCESS_KEY"),
		},
		MaxBodyBytes:   int64(p.int("MAX_BODY_BYTES", 1<<20)),
		RateLimitRPS:   p.positiveFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: p.positiveInt("RATE_LIMIT_BURST", 10),
	}

	var missing []string
	switch cfg.StoreDriver {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case StoreMemory:
	default:
		p.invalid = append(p.invalid, "STORE_DRIVER")
	}
	switch cfg.Mail.Provider {
	case "smtp":
		if cfg.Mail.SMTPHost == "" {
			missing = append(missing, "SMTP_HOST")
		}
	case "ses":
		if cfg.Mail.SESRegion == "" {
			missing = append(missing, "SES_REGION")
		}
		if cfg.Mail.SESAccessKeyID == "" {
			missing = append(missing, "SES_ACCESS_KEY_ID")
		}
		if cfg.Mail.SESSecretAccessKey == "" {
			missing = append(missing, "SES_SECRET_ACCESS_KEY")
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if len(p.invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(p.invalid, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parser reads typed variables and remembers the names that failed to parse.
type parser struct {
	invalid []string
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return n
}

func (p *parser) float(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return f
}

// positiveInt is int that also rejects zero.
func (p *parser) positiveInt(key string, fallback int) int {
	n := p.int(key, fallback)
	if n == 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return n
}

// positiveFloat is float that also rejects zero.
func (p *parser) positiveFloat(key string, fallback float64) float64 {
	f := p.float(key, fallback)
	if f == 0 {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return f
}

func (p *parser) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.invalid = append(p.invalid, key)
		return fallback
	}
	return b
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
