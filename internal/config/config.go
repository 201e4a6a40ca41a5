package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port               string
	RateLimitPerMinute int

	// Backend selection
	DataBackend  string
	SQLiteDBPath string
	DataDir      string // memory backend seed directory

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Presentation
	Locale   string
	Timezone string

	// Analytics
	MetricsWindowMonths int
	ForecastMonths      int
	TopCategories       int

	// Reminder worker
	ReminderCheckInterval time.Duration
	ReminderDueDays       int
	ReminderDueKm         int

	// Insights cache
	CacheTTL  time.Duration
	CacheSize int

	// Google Sheets report export (optional)
	ReportSpreadsheetID      string
	ReportSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Logging
	LogLevel  string
	LogFormat string
}

var (
	validBackends   = []string{"memory", "sqlite"}
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"text", "json"}
)

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8081"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/moneypilot.db"),
		DataDir:      getEnv("DATA_DIR", "data"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "moneypilot"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "reminders_due"),

		Locale:   getEnv("LOCALE", "ru-RU"),
		Timezone: getEnv("TIMEZONE", ""),

		MetricsWindowMonths: getEnvInt("METRICS_WINDOW_MONTHS", 12),
		ForecastMonths:      getEnvInt("FORECAST_MONTHS", 3),
		TopCategories:       getEnvInt("TOP_CATEGORIES", 5),

		ReminderCheckInterval: getEnvDuration("REMINDER_CHECK_INTERVAL", time.Hour),
		ReminderDueDays:       getEnvInt("REMINDER_DUE_DAYS", 7),
		ReminderDueKm:         getEnvInt("REMINDER_DUE_KM", 500),

		CacheTTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheSize: getEnvInt("CACHE_SIZE", 100),

		ReportSpreadsheetID:      getEnv("REPORT_SPREADSHEET_ID", ""),
		ReportSheetName:          getEnv("REPORT_SHEET_NAME", "Report"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Location resolves Timezone; empty means the process local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// ReportExportEnabled reports whether a target spreadsheet is configured.
func (c *Config) ReportExportEnabled() bool {
	return c.ReportSpreadsheetID != ""
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}
	if c.RateLimitPerMinute < 1 {
		errs = append(errs, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}
	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
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
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if strings.TrimSpace(c.Locale) == "" {
		errs = append(errs, "locale cannot be empty")
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.MetricsWindowMonths < 1 {
		errs = append(errs, fmt.Sprintf("invalid metrics window %d: must be at least 1 month", c.MetricsWindowMonths))
	}
	if c.ForecastMonths < 1 {
		errs = append(errs, fmt.Sprintf("invalid forecast horizon %d: must be at least 1 month", c.ForecastMonths))
	}
	if c.TopCategories < 1 {
		errs = append(errs, fmt.Sprintf("invalid top categories %d: must be at least 1", c.TopCategories))
	}

	if c.ReminderCheckInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid reminder check interval %v: must be at least 1 second", c.ReminderCheckInterval))
	} else if c.ReminderCheckInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid reminder check interval %v: must be at most 24 hours", c.ReminderCheckInterval))
	}
	if c.ReminderDueDays < 0 || c.ReminderDueKm < 0 {
		errs = append(errs, "reminder due thresholds cannot be negative")
	}

	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Sprintf("invalid cache TTL %v: must be positive", c.CacheTTL))
	}
	if c.CacheSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}

	if c.ReportExportEnabled() {
		if c.ReportSheetName == "" {
			errs = append(errs, "report sheet name is required when REPORT_SPREADSHEET_ID is set")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errs = append(errs, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}
	if !slices.Contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validLogFormats))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
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
