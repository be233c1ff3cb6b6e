package backend

import (
	"fmt"
	"net/url"
	"time"

	"finboard/internal/config"
	"finboard/internal/remote/rest"
)

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// REST specific
	Endpoints        rest.Endpoints
	HTTPTimeout      time.Duration
	RetryMaxElapsed  time.Duration
	CategoryCacheTTL time.Duration

	// Memory specific
	Seed bool
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.RemoteBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.RemoteBackend)
	}

	return Config{
		Type: backendType,
		Endpoints: rest.Endpoints{
			Category:    appConfig.CategoryAPI,
			Budget:      appConfig.BudgetAPI,
			Transaction: appConfig.TransactionAPI,
			Savings:     appConfig.SavingsAPI,
			Report:      appConfig.ReportAPI,
			User:        appConfig.UserAPI,
		},
		HTTPTimeout:      appConfig.HTTPTimeout,
		RetryMaxElapsed:  appConfig.RetryMaxElapsed,
		CategoryCacheTTL: appConfig.CategoryCacheTTL,
		Seed:             true,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type != RestBackend {
		return nil
	}

	for name, raw := range map[string]string{
		"category":    c.Endpoints.Category,
		"budget":      c.Endpoints.Budget,
		"transaction": c.Endpoints.Transaction,
		"savings":     c.Endpoints.Savings,
		"report":      c.Endpoints.Report,
		"user":        c.Endpoints.User,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s endpoint is not an absolute URL: %q", name, raw)
		}
	}
	return nil
}
