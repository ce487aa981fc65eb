package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Everything is read
// once at process start; there is no hot reload.
type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	Email    EmailConfig
	WhatsApp WhatsAppConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// EmailConfig holds the transactional email transport configuration.
// User and Password are the channel's two secrets; they are deliberately
// NOT validated at startup — a missing secret becomes a "not configured"
// send outcome, not a boot failure.
type EmailConfig struct {
	SMTPHost string
	SMTPPort int
	User     string
	Password string

	// Recipient is the operator inbox, defaulting to User.
	// FallbackRecipient replaces the hard-coded fallback address the old
	// site shipped with; leave it empty to disable the fallback.
	Recipient         string
	FallbackRecipient string
}

// WhatsAppConfig holds the operator alert channel configuration. An empty
// Number disables the channel entirely.
type WhatsAppConfig struct {
	Number      string
	CountryCode string

	// StoreDriver selects where the authenticated session lives:
	// "sqlite3" (local file, the default) or "postgres".
	StoreDriver string
	StoreDSN    string

	ReadyTimeout time.Duration
	Prewarm      bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type"}),
		},
		Email: EmailConfig{
			SMTPHost:          getEnv("EMAIL_SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:          getEnvAsInt("EMAIL_SMTP_PORT", 587),
			User:              getEnv("EMAIL_USER", ""),
			Password:          getEnv("EMAIL_PASS", ""),
			Recipient:         getEnv("EMAIL_RECIPIENT", ""),
			FallbackRecipient: getEnv("EMAIL_FALLBACK_RECIPIENT", ""),
		},
		WhatsApp: WhatsAppConfig{
			Number:       getEnv("WHATSAPP_NUMBER", ""),
			CountryCode:  getEnv("WHATSAPP_COUNTRY_CODE", "212"),
			StoreDriver:  getEnv("WHATSAPP_STORE_DRIVER", "sqlite3"),
			StoreDSN:     getEnv("WHATSAPP_STORE_DSN", "file:wa-session.db?_foreign_keys=on"),
			ReadyTimeout: time.Duration(getEnvAsInt("WHATSAPP_READY_TIMEOUT_SECONDS", 30)) * time.Second,
			Prewarm:      getEnvAsBool("WHATSAPP_PREWARM", false),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.WhatsApp.StoreDriver != "sqlite3" && c.WhatsApp.StoreDriver != "postgres" {
		return fmt.Errorf("invalid WHATSAPP_STORE_DRIVER: %s (must be 'sqlite3' or 'postgres')", c.WhatsApp.StoreDriver)
	}

	if c.WhatsApp.ReadyTimeout <= 0 {
		return fmt.Errorf("WHATSAPP_READY_TIMEOUT_SECONDS must be positive")
	}

	if c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535 {
		return fmt.Errorf("invalid EMAIL_SMTP_PORT: %d", c.Email.SMTPPort)
	}

	return nil
}

// IsDevelopment reports whether the server runs in development mode.
// Internal error detail is only exposed to API callers in development.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
