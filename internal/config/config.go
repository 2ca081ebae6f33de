package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is constructed once at process
// start and passed explicitly into the components that need it; nothing in
// the request path reads the environment directly.
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Tokens
	JWTSecret     string
	SessionTTL    time.Duration // short-lived session tokens
	EmailTokenTTL time.Duration // email verification / password reset tokens

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFromName string

	// FrontendURL is the base URL used for links in outbound emails.
	FrontendURL string

	// MailQueueSize bounds the outbound email queue.
	MailQueueSize int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "mintleaf"),
		DBPassword: getEnv("DB_PASSWORD", "mintleaf"),
		DBName:     getEnv("DB_NAME", "mintleaf"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Tokens
		JWTSecret:     getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		SessionTTL:    getEnvDuration("SESSION_TOKEN_TTL", 15*time.Minute),
		EmailTokenTTL: getEnvDuration("EMAIL_TOKEN_TTL", 24*time.Hour),

		// SMTP
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Mintleaf"),

		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:3000"),
		MailQueueSize: getEnvInt("MAIL_QUEUE_SIZE", 64),
	}

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value %q, falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s value %q, falling back to %s\n", key, value, defaultValue)
		return defaultValue
	}
	return d
}
