package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Remote services
	CategoryAPI    string
	BudgetAPI      string
	TransactionAPI string
	SavingsAPI     string
	ReportAPI      string
	UserAPI        string

	// HTTP client
	HTTPTimeout      time.Duration
	RetryMaxElapsed  time.Duration
	CategoryCacheTTL time.Duration

	// Backend selection
	RemoteBackend string

	// Sync journal
	JournalDSN string

	// AMQP (optional)
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	// Google Sheets export (optional)
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string

	LogLevel    string
	FakeAPIPort string

	// FakeAPIRateLimit is requests per minute per client; 0 is unlimited.
	FakeAPIRateLimit int
}

func Load() *Config {
	cfg := &Config{
		CategoryAPI:    getEnv("CATEGORY_API", "http://localhost:8081/api/categories"),
		BudgetAPI:      getEnv("BUDGET_API", "http://localhost:8082/api/budgets"),
		TransactionAPI: getEnv("TRANSACTION_API", "http://localhost:8083/api/transactions"),
		SavingsAPI:     getEnv("SAVINGS_API", "http://localhost:8084/api/savings"),
		ReportAPI:      getEnv("REPORT_API", "http://localhost:8095/api/reports"),
		UserAPI:        getEnv("USER_API", "http://localhost:8080/api/users"),

		HTTPTimeout:      getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		RetryMaxElapsed:  getEnvDuration("RETRY_MAX_ELAPSED", 10*time.Second),
		CategoryCacheTTL: getEnvDuration("CATEGORY_CACHE_TTL", 30*time.Second),

		RemoteBackend: getEnv("REMOTE_BACKEND", "rest"),

		JournalDSN: getEnv("JOURNAL_DSN", ":memory:"),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "finboard"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "entity.changed"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Reports"),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FakeAPIPort: getEnv("FAKEAPI_PORT", "8090"),

		FakeAPIRateLimit: getEnvInt("FAKEAPI_RATE_LIMIT", 0),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate service base URLs
	if c.RemoteBackend == "rest" {
		errors = append(errors, c.validateServiceURLs()...)
	}

	// Validate remote backend
	validBackends := []string{"rest", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.RemoteBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid remote backend '%s': must be one of %v", c.RemoteBackend, validBackends))
	}

	// Validate HTTP client timings
	if c.HTTPTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at least 100ms", c.HTTPTimeout))
	} else if c.HTTPTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at most 5 minutes", c.HTTPTimeout))
	}
	if c.RetryMaxElapsed < 0 {
		errors = append(errors, fmt.Sprintf("invalid retry max elapsed %v: must not be negative", c.RetryMaxElapsed))
	}
	if c.CategoryCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid category cache TTL %v: must not be negative", c.CategoryCacheTTL))
	}

	if strings.TrimSpace(c.JournalDSN) == "" {
		errors = append(errors, "journal DSN cannot be empty")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPRoutingKey == "" {
			errors = append(errors, "AMQP routing key cannot be empty when AMQP URL is provided")
		}
	}

	// Validate Google Sheets export if a spreadsheet is configured
	if c.GoogleSpreadsheetID != "" {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when a spreadsheet is configured")
		}
		hasFile := c.GoogleServiceAccountFile != ""
		hasJSON := c.GoogleServiceAccountJSON != ""
		if !hasFile && !hasJSON {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for report export")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if port, err := strconv.Atoi(c.FakeAPIPort); err != nil {
		errors = append(errors, fmt.Sprintf("invalid fake API port '%s': must be a number", c.FakeAPIPort))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid fake API port %d: must be between 1 and 65535", port))
	}

	if c.FakeAPIRateLimit < 0 {
		errors = append(errors, fmt.Sprintf("invalid fake API rate limit %d: must not be negative", c.FakeAPIRateLimit))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func (c *Config) validateServiceURLs() []string {
	var errors []string
	for _, svc := range []struct{ name, value string }{
		{"CATEGORY_API", c.CategoryAPI},
		{"BUDGET_API", c.BudgetAPI},
		{"TRANSACTION_API", c.TransactionAPI},
		{"SAVINGS_API", c.SavingsAPI},
		{"REPORT_API", c.ReportAPI},
		{"USER_API", c.UserAPI},
	} {
		parsed, err := url.Parse(svc.value)
		switch {
		case svc.value == "":
			errors = append(errors, fmt.Sprintf("%s cannot be empty when using rest backend", svc.name))
		case err != nil:
			errors = append(errors, fmt.Sprintf("invalid %s '%s': %v", svc.name, svc.value, err))
		case parsed.Scheme != "http" && parsed.Scheme != "https":
			errors = append(errors, fmt.Sprintf("invalid %s scheme '%s': must be 'http' or 'https'", svc.name, parsed.Scheme))
		case parsed.Host == "":
			errors = append(errors, fmt.Sprintf("invalid %s '%s': missing host", svc.name, svc.value))
		}
	}
	return errors
}

// ExportEnabled reports whether a report export target is configured.
func (c *Config) ExportEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// EventsEnabled reports whether change events should be published.
func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}

func getEnv(key, defaultValue string) string {
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

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
