package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		TelegramToken:        "123:abc",
		Transport:            TransportPolling,
		WebhookPath:          "/webhook",
		Port:                 "8000",
		DataBackend:          BackendMemory,
		AMQPExchange:         "julius",
		SessionTTL:           10 * time.Minute,
		SessionSweepInterval: time.Minute,
		LogLevel:             "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		errorString string
	}{
		{
			name:   "valid memory config",
			mutate: func(c *Config) {},
		},
		{
			name:        "missing token",
			mutate:      func(c *Config) { c.TelegramToken = "" },
			errorString: "TELEGRAM_TOKEN is required",
		},
		{
			name:        "invalid port",
			mutate:      func(c *Config) { c.Port = "abc" },
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid backend",
			mutate:      func(c *Config) { c.DataBackend = "mongo" },
			errorString: "invalid data backend 'mongo'",
		},
		{
			name:        "webhook without url",
			mutate:      func(c *Config) { c.Transport = TransportWebhook },
			errorString: "WEBHOOK_URL is required when using webhook transport",
		},
		{
			name: "webhook with plain http",
			mutate: func(c *Config) {
				c.Transport = TransportWebhook
				c.WebhookURL = "http://bot.example.com"
			},
			errorString: "must be an absolute https URL",
		},
		{
			name: "valid webhook",
			mutate: func(c *Config) {
				c.Transport = TransportWebhook
				c.WebhookURL = "https://bot.example.com"
			},
		},
		{
			name:        "postgres without uri",
			mutate:      func(c *Config) { c.DataBackend = BackendPostgres },
			errorString: "DATABASE_URI is required when using postgres backend",
		},
		{
			name: "sheets without credentials",
			mutate: func(c *Config) {
				c.DataBackend = BackendSheets
				c.GoogleSpreadsheetID = "sheet"
				c.GoogleExpensesSheet = "Gastos"
				c.GoogleLimitsSheet = "Limites"
			},
			errorString: "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided",
		},
		{
			name:        "firebase without url",
			mutate:      func(c *Config) { c.DataBackend = BackendFirebase; c.FirebaseCredentialsJSON = "{}" },
			errorString: "FIREBASE_DB_URL is required when using firebase backend",
		},
		{
			name:        "bad amqp scheme",
			mutate:      func(c *Config) { c.AMQPURL = "http://localhost" },
			errorString: "invalid AMQP URL scheme 'http'",
		},
		{
			name:        "short session ttl",
			mutate:      func(c *Config) { c.SessionTTL = time.Second },
			errorString: "invalid session ttl 1s",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "loud" },
			errorString: "invalid log level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errorString == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateAggregates(t *testing.T) {
	cfg := validConfig()
	cfg.TelegramToken = ""
	cfg.Port = "0"
	cfg.DataBackend = BackendPostgres

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN is required")
	assert.Contains(t, err.Error(), "invalid port 0")
	assert.Contains(t, err.Error(), "DATABASE_URI is required")
}

func TestConfig_ValidateCreatesSQLiteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	cfg := validConfig()
	cfg.DataBackend = BackendSQLite
	cfg.SQLiteDBPath = filepath.Join(dir, "julius.db")

	require.NoError(t, cfg.Validate())
	_, err := os.Stat(dir)
	assert.NoError(t, err)
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"TRANSPORT", "PORT", "DATA_BACKEND", "SESSION_TTL", "AMOUNT_DECIMAL_COMMA", "AMQP_EXCHANGE", "WEBHOOK_PATH"} {
		t.Setenv(k, "")
	}
	t.Setenv("TELEGRAM_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.TelegramToken)
	assert.Equal(t, TransportPolling, cfg.Transport)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.DataBackend)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.AmountDecimalComma)
	assert.Equal(t, "julius", cfg.AMQPExchange)
	assert.Equal(t, "/webhook", cfg.WebhookPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TRANSPORT", "WEBHOOK")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("AMOUNT_DECIMAL_COMMA", "false")
	t.Setenv("DEV_MODE", "1")
	t.Setenv("SESSION_SWEEP_INTERVAL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, TransportWebhook, cfg.Transport)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.AmountDecimalComma)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)
}

func TestGoogleCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.GoogleServiceAccountJSON = `{"type":"service_account"}`
	b, err := cfg.GoogleCredentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(b))

	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))
	cfg.GoogleServiceAccountJSON = ""
	cfg.GoogleServiceAccountFile = path
	b, err = cfg.GoogleCredentials()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(b))
}
