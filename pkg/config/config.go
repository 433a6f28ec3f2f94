package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Intake policies. Exactly one is active per deployment.
const (
	PolicyRecord = "record"
	PolicyDial   = "dial"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Twilio   TwilioConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Intake   IntakeConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	MaxConns    int
	MinConns    int
	AutoMigrate bool
}

// TwilioConfig holds telephony provider credentials and call policy knobs
type TwilioConfig struct {
	AccountSID    string
	AuthToken     string
	ForwardNumber string
}

// GeminiConfig holds the extraction model configuration
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// StorageConfig holds the optional recording archive configuration.
// Archiving is disabled when Endpoint is empty.
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// IntakeConfig holds call-intake behavior configuration
type IntakeConfig struct {
	Policy         string // "record" or "dial"
	Greeting       string
	Language       string
	MaxRecordSecs  int
	CompletionPath string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			Name:        getEnv("DB_NAME", "callnote"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Twilio: TwilioConfig{
			AccountSID:    getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:     getEnv("TWILIO_AUTH_TOKEN", ""),
			ForwardNumber: getEnv("TWILIO_FORWARD_NUMBER", ""),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			BaseURL: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com"),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("STORAGE_ENDPOINT", ""),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "callnote-recordings"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		Intake: IntakeConfig{
			Policy:         getEnv("INTAKE_POLICY", PolicyRecord),
			Greeting:       getEnv("INTAKE_GREETING", "お電話ありがとうございます。発信音の後にご用件をお話しください。"),
			Language:       getEnv("INTAKE_LANGUAGE", "ja-JP"),
			MaxRecordSecs:  getEnvAsInt("INTAKE_MAX_RECORD_SECS", 120),
			CompletionPath: getEnv("INTAKE_COMPLETION_PATH", "/twilio/complete"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	switch c.Intake.Policy {
	case PolicyRecord:
		// provider records the call itself, no forwarding leg
	case PolicyDial:
		if c.Twilio.ForwardNumber == "" {
			return fmt.Errorf("TWILIO_FORWARD_NUMBER is required when INTAKE_POLICY=dial")
		}
	default:
		return fmt.Errorf("INTAKE_POLICY must be %q or %q, got %q", PolicyRecord, PolicyDial, c.Intake.Policy)
	}
	if c.Intake.MaxRecordSecs <= 0 {
		return fmt.Errorf("INTAKE_MAX_RECORD_SECS must be positive")
	}
	return nil
}

// ArchiveEnabled reports whether the recording archive is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.Storage.Endpoint != ""
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
