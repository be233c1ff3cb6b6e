package backend

import (
	"context"
	"fmt"
	"time"

	"finboard/internal/cache"
	"finboard/internal/log"
	"finboard/internal/remote/memory"
	"finboard/internal/remote/rest"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	return &DefaultFactory{logger: log.OrNop(logger).WithComponent(log.ComponentBackend)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case RestBackend:
		return f.createRestBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createRestBackend(config Config) (*Result, error) {
	client := rest.New(rest.Options{
		Endpoints:        config.Endpoints,
		Timeout:          config.HTTPTimeout,
		RetryMaxElapsed:  config.RetryMaxElapsed,
		CategoryCacheTTL: config.CategoryCacheTTL,
		Logger:           f.logger,
	})

	result := &Result{Backend: client}
	if cleaner := client.Cleaner(); cleaner != nil {
		manager := cache.NewManager(f.logger)
		manager.Register(cleaner)
		manager.StartCleanup(cleanupInterval(config.CategoryCacheTTL))
		result.Cleanup = func() error {
			manager.Stop()
			return nil
		}
	}

	f.logger.Info("Initialized REST backend",
		"category_api", config.Endpoints.Category,
		"timeout", config.HTTPTimeout,
		"category_cache_ttl", config.CategoryCacheTTL)

	return result, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*Result, error) {
	store := memory.New()
	if config.Seed {
		store = memory.NewSeeded()
	}

	f.logger.Info("Initialized memory backend", "seeded", config.Seed)

	return &Result{Backend: store}, nil
}

// cleanupInterval sweeps a few times per TTL, never more often than once a second.
func cleanupInterval(ttl time.Duration) time.Duration {
	if interval := ttl / 2; interval > time.Second {
		return interval
	}
	return time.Second
}
