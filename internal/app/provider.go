package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"pkcegen/internal/cfg"
	"pkcegen/pkg/cache"
	"pkcegen/pkg/logger"
	"pkcegen/pkg/oauth2"
	"pkcegen/pkg/pkce"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Infrastructure holds stateful resources that need shutdown
type Infrastructure struct {
	Cache          cache.Cache
	Logger         logger.Logger
	MetricsHandler http.Handler
}

// Provider is the composition root that wires the application together
type Provider struct {
	Infra         *Infrastructure
	Generator     oauth2.CodeGenerator
	OAuth2Manager *oauth2.Manager
	Config        *cfg.Config
}

// NewProvider creates and initializes all application dependencies
func NewProvider(ctx context.Context, config *cfg.Config, log logger.Logger) (*Provider, error) {
	log.Info(ctx, "Initializing application provider...")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	infra := &Infrastructure{
		Logger:         log,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	var storage oauth2.StateStorage
	if config.Redis != nil {
		infra.Cache = cache.NewRedisCache(cache.RedisOptions{
			Addr:     config.Redis.Addr(),
			Password: config.Redis.Password,
		})
		if err := infra.Cache.Ping(ctx); err != nil {
			_ = infra.Cache.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		storage = oauth2.NewRedisStateStorage(infra.Cache)
		log.Info(ctx, "Using Redis state storage", logger.Field{Key: "addr", Value: config.Redis.Addr()})
	} else {
		storage = oauth2.NewInMemoryStorage()
		log.Warn(ctx, "REDIS_HOST not set, using in-memory state storage")
	}

	generator, err := NewInstrumentedGenerator(pkce.New(), registry)
	if err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("metrics registration: %w", err)
	}

	provider, err := newOAuth2Provider(ctx, &config.OAuth2)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	manager := oauth2.NewManager(&oauth2.ManagerConfig{
		StateTimeout: config.OAuth2.StateTimeout,
		Storage:      storage,
		Generator:    generator,
		Logger:       log,
	})
	manager.RegisterProvider(provider)

	log.Info(ctx, "Application provider initialized",
		logger.Field{Key: "oauth2_provider", Value: provider.Name()})

	return &Provider{
		Infra:         infra,
		Generator:     generator,
		OAuth2Manager: manager,
		Config:        config,
	}, nil
}

func newOAuth2Provider(ctx context.Context, c *cfg.Oauth2Config) (*oauth2.OAuth2Provider, error) {
	providerCfg := oauth2.ProviderConfig{
		Name:         c.Provider,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		AuthURL:      c.AuthURL,
		TokenURL:     c.TokenURL,
		Scopes:       c.Scopes,
	}

	if c.UseDiscovery() {
		p, err := oauth2.NewOIDCProvider(ctx, c.Issuer, providerCfg)
		if err != nil {
			return nil, fmt.Errorf("oauth2 provider: %w", err)
		}
		return p, nil
	}

	p, err := oauth2.NewOAuth2Provider(providerCfg)
	if err != nil {
		return nil, fmt.Errorf("oauth2 provider: %w", err)
	}
	return p, nil
}

// Close releases resources in reverse order of initialization.
// The manager owns the state storage, which owns the Redis client when
// one is configured.
func (p *Provider) Close(ctx context.Context) error {
	var errs []error

	if p.OAuth2Manager != nil {
		p.Infra.Logger.Info(ctx, "Closing state storage")
		if err := p.OAuth2Manager.Close(); err != nil {
			errs = append(errs, fmt.Errorf("state storage shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}
