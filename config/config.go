package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBUrl       string
	FrontendURL string
	// Extra origins allowed by CORS, comma separated
	AllowedOrigins []string
	// Where the form is sent after a successful signup
	SuccessRedirectURL string
	// Signup endpoint used by the CLI
	SignupEndpoint string
	// SMTP Configuration
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SMTPFromEmail  string
	SignupNotifyTo string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Duplicate submissions with the same email inside this window are acknowledged but not reprocessed.
	// Zero or less turns deduplication off.
	SignupDedupeWindow time.Duration
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitSignupThreshold int
	RateLimitGlobalThreshold int
	// Operator endpoints
	AdminJWTSecret string
	AdminJWKSURL   string
	// Top-up calculator
	TopUpBonusPercentage int64
	// Security Configuration
	SecurityLogToDB bool
}

func LoadConfig() (*Config, error) {
	// .env is only present locally
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DBUrl:              getEnv("DATABASE_URL", ""),
		FrontendURL:        strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AllowedOrigins:     getEnvList("CORS_ALLOWED_ORIGINS"),
		SuccessRedirectURL: getEnv("SUCCESS_REDIRECT_URL", "https://winmore.uk/prizes"),
		SignupEndpoint:     getEnv("SIGNUP_ENDPOINT", "http://localhost:8080/v1/signup"),
		// SMTP Configuration
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:  getEnv("SMTP_FROM_EMAIL", ""),
		SignupNotifyTo: getEnv("SIGNUP_NOTIFY_TO", ""),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Dedupe and rate limiting
		SignupDedupeWindow:       time.Duration(getEnvInt("SIGNUP_DEDUPE_WINDOW_SECONDS", 600)) * time.Second,
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitSignupThreshold: getEnvInt("RATE_LIMIT_SIGNUP_THRESHOLD", 5),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		// Operator endpoints
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		AdminJWKSURL:   getEnv("ADMIN_JWKS_URL", ""),
		// Top-up calculator
		TopUpBonusPercentage: int64(getEnvInt("TOPUP_BONUS_PERCENTAGE", 59)),
		// Security Configuration
		SecurityLogToDB: getEnvBool("SECURITY_LOG_TO_DB", true),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Signups will only be logged and kept in memory.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting is in-memory and duplicate submissions are not detected.")
	}
	if cfg.AdminJWTSecret == "" && cfg.AdminJWKSURL == "" {
		log.Println("WARNING: ADMIN_JWT_SECRET and ADMIN_JWKS_URL not configured. Operator endpoints will reject every request.")
	}

	return cfg, nil
}

// RateLimitWindow returns the rate limit window as a duration
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimRight(strings.TrimSpace(item), "/"); item != "" {
			out = append(out, item)
		}
	}
	return out
}
