package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	TransportPolling = "polling"
	TransportWebhook = "webhook"

	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendSheets   = "sheets"
	BackendFirebase = "firebase"
)

var (
	validTransports = []string{TransportPolling, TransportWebhook}
	validBackends   = []string{BackendMemory, BackendPostgres, BackendSQLite, BackendSheets, BackendFirebase}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
)

type Config struct {
	// Telegram
	TelegramToken string
	Transport     string
	WebhookURL    string
	WebhookPath   string

	// HTTP server
	Port string

	// Storage
	DataBackend  string
	DatabaseURI  string
	SQLiteDBPath string

	GoogleSpreadsheetID      string
	GoogleExpensesSheet      string
	GoogleLimitsSheet        string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	FirebaseDBURL            string
	FirebaseCredentialsJSON  string

	// Events
	AMQPURL      string
	AMQPExchange string

	// AI
	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	// Conversation
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	AmountDecimalComma   bool

	LogLevel string
	DevMode  bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		Transport:     strings.ToLower(getEnvOrDefault("TRANSPORT", TransportPolling)),
		WebhookURL:    os.Getenv("WEBHOOK_URL"),
		WebhookPath:   getEnvOrDefault("WEBHOOK_PATH", "/webhook"),

		Port: getEnvOrDefault("PORT", "8000"),

		DataBackend:  strings.ToLower(getEnvOrDefault("DATA_BACKEND", BackendMemory)),
		DatabaseURI:  os.Getenv("DATABASE_URI"),
		SQLiteDBPath: getEnvOrDefault("SQLITE_DB_PATH", "./data/julius.db"),

		GoogleSpreadsheetID:      os.Getenv("GOOGLE_SPREADSHEET_ID"),
		GoogleExpensesSheet:      getEnvOrDefault("GOOGLE_EXPENSES_SHEET", "Gastos"),
		GoogleLimitsSheet:        getEnvOrDefault("GOOGLE_LIMITS_SHEET", "Limites"),
		GoogleServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		GoogleServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		FirebaseDBURL:            os.Getenv("FIREBASE_DB_URL"),
		FirebaseCredentialsJSON:  os.Getenv("FIREBASE_CREDS_JSON"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnvOrDefault("AMQP_EXCHANGE", "julius"),

		AIAPIKey:  os.Getenv("AI_API_KEY"),
		AIBaseURL: getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:   getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),

		SessionTTL:           getEnvDuration("SESSION_TTL", 10*time.Minute),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		AmountDecimalComma:   getEnvBool("AMOUNT_DECIMAL_COMMA", true),

		LogLevel: strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		DevMode:  getEnvBool("DEV_MODE", false),
	}, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.TelegramToken == "" {
		errs = append(errs, "TELEGRAM_TOKEN is required")
	}

	if !oneOf(c.Transport, validTransports) {
		errs = append(errs, fmt.Sprintf("invalid transport '%s': must be one of %v", c.Transport, validTransports))
	}
	if c.Transport == TransportWebhook {
		if c.WebhookURL == "" {
			errs = append(errs, "WEBHOOK_URL is required when using webhook transport")
		} else if u, err := url.Parse(c.WebhookURL); err != nil || u.Scheme != "https" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid webhook URL '%s': must be an absolute https URL", c.WebhookURL))
		}
		if !strings.HasPrefix(c.WebhookPath, "/") {
			errs = append(errs, fmt.Sprintf("invalid webhook path '%s': must start with '/'", c.WebhookPath))
		}
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !oneOf(c.DataBackend, validBackends) {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case BackendPostgres:
		if c.DatabaseURI == "" {
			errs = append(errs, "DATABASE_URI is required when using postgres backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	case BackendSheets:
		if c.GoogleSpreadsheetID == "" {
			errs = append(errs, "GOOGLE_SPREADSHEET_ID is required when using sheets backend")
		}
		if c.GoogleExpensesSheet == "" || c.GoogleLimitsSheet == "" {
			errs = append(errs, "sheet names cannot be empty when using sheets backend")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			errs = append(errs, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for sheets backend")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	case BackendFirebase:
		if c.FirebaseDBURL == "" {
			errs = append(errs, "FIREBASE_DB_URL is required when using firebase backend")
		}
		if c.FirebaseCredentialsJSON == "" {
			errs = append(errs, "FIREBASE_CREDS_JSON is required when using firebase backend")
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SessionTTL < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid session ttl %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.SessionSweepInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid session sweep interval %v: must be at least 1 second", c.SessionSweepInterval))
	}

	if !oneOf(c.LogLevel, validLogLevels) {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// GoogleCredentials returns the service account key, reading the file when
// only a path was configured.
func (c *Config) GoogleCredentials() ([]byte, error) {
	if c.GoogleServiceAccountJSON != "" {
		return []byte(c.GoogleServiceAccountJSON), nil
	}
	b, err := os.ReadFile(c.GoogleServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account file: %w", err)
	}
	return b, nil
}

func (c *Config) AIEnabled() bool {
	return c.AIAPIKey != ""
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
