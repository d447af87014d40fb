package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds everything read from the environment at boot.
type Config struct {
	Env      string
	Port     string
	DBURL    string
	LogLevel string

	JWTSecret string

	AsaasAPIURL       string
	AsaasAPIKey       string
	AsaasWebhookToken string

	InterAPIURL       string
	InterClientID     string
	InterClientSecret string
	InterCertFile     string
	InterKeyFile      string
	InterWebhookToken string

	GatewayTimeout time.Duration
	ValueTolerance decimal.Decimal
	SweepInterval  time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

// Load reads an optional .env file then the process environment.
// The returned bool is false when no .env file could be loaded.
func Load() (*Config, bool) {
	loaded := godotenv.Load() == nil

	return &Config{
		Env:      getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		DBURL:    os.Getenv("DB_URL"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		AsaasAPIURL:       getEnv("ASAAS_API_URL", "https://api.asaas.com"),
		AsaasAPIKey:       os.Getenv("ASAAS_API_KEY"),
		AsaasWebhookToken: os.Getenv("ASAAS_WEBHOOK_TOKEN"),

		InterAPIURL:       getEnv("INTER_API_URL", "https://cdpj.partners.bancointer.com.br"),
		InterClientID:     os.Getenv("INTER_CLIENT_ID"),
		InterClientSecret: os.Getenv("INTER_CLIENT_SECRET"),
		InterCertFile:     os.Getenv("INTER_CERT_FILE"),
		InterKeyFile:      os.Getenv("INTER_KEY_FILE"),
		InterWebhookToken: os.Getenv("INTER_WEBHOOK_TOKEN"),

		GatewayTimeout: getDuration("GATEWAY_TIMEOUT", 10*time.Second),
		ValueTolerance: getDecimal("VALUE_TOLERANCE", decimal.NewFromFloat(0.01)),
		SweepInterval:  getDuration("SWEEP_INTERVAL", time.Hour),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),
	}, loaded
}

// IsProduction reports whether production-only safeguards apply.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "production" || env == "prod"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	// plain integers are seconds
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

func getDecimal(key string, defaultVal decimal.Decimal) decimal.Decimal {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := decimal.NewFromString(val)
	if err != nil || d.IsNegative() {
		return defaultVal
	}
	return d
}
