package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBName    string
	JWTKey    string
	SaltRound int

	EmailSender    string
	SendgridApiKey string

	ProcessorApiURL string // payment processor REST base URL
	CrmApiURL       string // CRM REST base URL
	TriggerApiURL   string // domain-event trigger webhook URL

	// Payment reconciliation poll loop (see services/enrollment)
	ReconcileAttempts   int
	ReconcileIntervalMs int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		DBName:    getEnv("DB_NAME", "lms"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		EmailSender:    getEnv("EMAIL_SENDER", "noreply@example.com"),
		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),

		ProcessorApiURL: getEnv("PROCESSOR_API_URL", "https://api.stripe.com/v1"),
		CrmApiURL:       getEnv("CRM_API_URL", ""),
		TriggerApiURL:   getEnv("TRIGGER_API_URL", ""),

		ReconcileAttempts:   getEnvInt("RECONCILE_ATTEMPTS", 10),
		ReconcileIntervalMs: getEnvInt("RECONCILE_INTERVAL_MS", 2000),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
