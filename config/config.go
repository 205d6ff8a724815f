package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is loaded once in main and injected into every constructor that
// needs it; nothing reads the environment after startup.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTIssuer        string

	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	RegistrationTokenTTL time.Duration
	VerificationTokenTTL time.Duration
	ResetTokenTTL        time.Duration

	ResendAPIKey string
	MailFrom     string
	BaseURL      string

	CookieDomain string

	AgentAPIKey  string
	AgentBaseURL string
	AgentModel   string
}

func Load() (*Config, error) {
	// Missing .env is fine in production; variables come from the process
	// environment there.
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		JWTIssuer:        getEnv("JWT_ISSUER", "boilerplate"),

		AccessTokenTTL:       getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:      getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		RegistrationTokenTTL: getDuration("REGISTRATION_TOKEN_TTL", 30*time.Minute),
		VerificationTokenTTL: getDuration("VERIFICATION_TOKEN_TTL", 10*time.Minute),
		ResetTokenTTL:        getDuration("RESET_TOKEN_TTL", 10*time.Minute),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		MailFrom:     getEnv("MAIL_FROM", "No Reply <noreply@localhost>"),
		BaseURL:      getEnv("BASE_URL", "http://localhost:5173"),

		CookieDomain: os.Getenv("COOKIE_DOMAIN"),

		AgentAPIKey:  os.Getenv("AGENT_API_KEY"),
		AgentBaseURL: getEnv("AGENT_BASE_URL", "https://api.anthropic.com"),
		AgentModel:   getEnv("AGENT_MODEL", "claude-3-5-sonnet-latest"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config error - missing env.DATABASE_URL")
	}
	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, fmt.Errorf("config error - JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return nil, fmt.Errorf("config error - access and refresh secrets must differ")
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key string, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
