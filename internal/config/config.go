package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	defaultJWTSecret     = "change-me-secret"
	defaultCompletionURL = "https://openrouter.ai/api/v1"
	defaultModel         = "z-ai/glm-4.5-air:free"
)

type Config struct {
	Env       string
	AppPort   string
	APIPrefix string
	LogLevel  string

	DatabaseURL     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	ShutdownTimeout time.Duration

	CompletionAPIKey    string
	CompletionModel     string
	CompletionBaseURL   string
	CompletionMaxTokens int
	CompletionTimeout   time.Duration
	CompletionReferer   string
	CompletionTitle     string

	JWTSecret    string
	SessionTTL   time.Duration
	AuthRequired bool

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using process environment")
	}

	return &Config{
		Env:       getEnv("APP_ENV", "dev"),
		AppPort:   getEnv("APP_PORT", "4000"),
		APIPrefix: strings.TrimRight(getEnv("API_PREFIX", "/api"), "/"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		DatabaseURL:     databaseURL(),
		DBMaxOpenConns:  getEnvInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns:  getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		CompletionAPIKey:    getEnv("OPENROUTER_KEY", ""),
		CompletionModel:     getEnv("OPENROUTER_MODEL", defaultModel),
		CompletionBaseURL:   strings.TrimRight(getEnv("COMPLETION_BASE_URL", defaultCompletionURL), "/"),
		CompletionMaxTokens: getEnvInt("COMPLETION_MAX_TOKENS", 200),
		CompletionTimeout:   getEnvDuration("COMPLETION_TIMEOUT", 30*time.Second),
		CompletionReferer:   getEnv("COMPLETION_REFERER", "http://localhost:3000"),
		CompletionTitle:     getEnv("COMPLETION_TITLE", "AI WhatsApp Clone"),

		JWTSecret:    getEnv("JWT_SECRET", defaultJWTSecret),
		SessionTTL:   getEnvDuration("SESSION_TTL", 24*time.Hour),
		AuthRequired: getEnvBool("AUTH_REQUIRED", false),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
	}
}

// Validate rejects settings that only make sense on a developer machine.
func Validate(cfg *Config) error {
	if cfg.AppPort == "" {
		return errors.New("APP_PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("database connection settings are missing")
	}
	if cfg.CompletionMaxTokens <= 0 {
		return errors.New("COMPLETION_MAX_TOKENS must be positive")
	}
	if cfg.Env != "dev" {
		if cfg.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be set outside dev")
		}
		if cfg.CompletionAPIKey == "" {
			return errors.New("OPENROUTER_KEY must be set outside dev")
		}
	}
	return nil
}

// databaseURL prefers DATABASE_URL and otherwise assembles one from the DB_* keys.
func databaseURL() string {
	if dsn := getEnv("DATABASE_URL", ""); dsn != "" {
		return dsn
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("DB_USER", "postgres"), getEnv("DB_PASSWORD", "postgres")),
		Host:   fmt.Sprintf("%s:%s", getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432")),
		Path:   "/" + getEnv("DB_NAME", "ai-chat"),
	}
	q := u.Query()
	q.Set("sslmode", getEnv("DB_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
