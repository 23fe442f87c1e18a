package oauth2

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pkcegen/pkg/logger"
	"pkcegen/pkg/pkce"
)

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrInvalidState     = errors.New("invalid oauth2 state")
	ErrOAuth2Callback   = errors.New("oauth2 callback error")
)

// CodeGenerator produces one PKCE pair per authorization attempt
type CodeGenerator interface {
	GenerateCodes(ctx context.Context) (pkce.Codes, error)
}

var _ CodeGenerator = (*pkce.Generator)(nil)

// ManagerConfig contains configuration for the OAuth2 manager
type ManagerConfig struct {
	// StateTimeout bounds how long a verifier is kept waiting for the callback
	StateTimeout time.Duration
	Storage      StateStorage
	Generator    CodeGenerator
	Logger       logger.Logger
}

// DefaultManagerConfig returns a secure default configuration
func DefaultManagerConfig() *ManagerConfig {
	return &ManagerConfig{
		StateTimeout: 10 * time.Minute,
	}
}

// Manager drives the authorization-code flow with PKCE for registered providers
type Manager struct {
	mu           sync.RWMutex
	providers    map[string]Provider
	stateStorage StateStorage
	generator    CodeGenerator
	stateTimeout time.Duration
	logger       logger.Logger
}

func NewManager(cfg *ManagerConfig) *Manager {
	defaultCfg := DefaultManagerConfig()
	if cfg == nil {
		cfg = defaultCfg
	}

	mgr := &Manager{
		providers:    make(map[string]Provider),
		stateStorage: cfg.Storage,
		generator:    cfg.Generator,
		stateTimeout: cfg.StateTimeout,
		logger:       cfg.Logger,
	}

	if mgr.stateTimeout <= 0 {
		mgr.stateTimeout = defaultCfg.StateTimeout
	}
	if mgr.stateStorage == nil {
		mgr.stateStorage = NewInMemoryStorage()
	}
	if mgr.generator == nil {
		mgr.generator = pkce.New()
	}
	if mgr.logger == nil {
		mgr.logger = logger.Nop()
	}

	return mgr
}

// RegisterProvider registers a new authorization server
// This method is safe for concurrent use
func (m *Manager) RegisterProvider(provider Provider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[provider.Name()] = provider
}

// GetProvider returns a provider by name
func (m *Manager) GetProvider(providerName string) (Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	provider, exists := m.providers[providerName]
	if !exists {
		return nil, ErrProviderNotFound
	}
	return provider, nil
}

// GetAuthURL starts an authorization attempt: it generates state and a
// fresh PKCE pair, keeps the verifier and returns the provider URL
// carrying the challenge. A PKCE failure aborts the attempt.
func (m *Manager) GetAuthURL(ctx context.Context, providerName string) (string, error) {
	provider, err := m.GetProvider(providerName)
	if err != nil {
		return "", err
	}

	state, err := GenerateRandomString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}

	codes, err := m.generator.GenerateCodes(ctx)
	if err != nil {
		m.logger.Error(ctx, "pkce generation failed",
			logger.Field{Key: "provider", Value: providerName},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return "", fmt.Errorf("failed to generate pkce codes: %w", err)
	}

	if err := m.stateStorage.SaveState(ctx, state, codes.Verifier(), m.stateTimeout); err != nil {
		return "", fmt.Errorf("failed to save state: %w", err)
	}

	m.logger.Debug(ctx, "authorization attempt started",
		logger.Field{Key: "provider", Value: providerName},
		logger.Field{Key: "code_challenge_method", Value: codes.Method()},
	)

	return provider.AuthCodeURL(state, codes), nil
}

// HandleCallback redeems the state issued by GetAuthURL and exchanges
// code together with the retained verifier. The state is consumed even
// when the exchange fails to prevent replay.
func (m *Manager) HandleCallback(ctx context.Context, providerName, code, state string) (*TokenSet, error) {
	provider, err := m.GetProvider(providerName)
	if err != nil {
		return nil, err
	}

	codeVerifier, err := m.stateStorage.ConsumeState(ctx, state)
	if err != nil {
		m.logger.Warn(ctx, "state rejected",
			logger.Field{Key: "provider", Value: providerName},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	tokenSet, err := provider.Exchange(ctx, code, codeVerifier)
	if err != nil {
		m.logger.Error(ctx, "code exchange failed",
			logger.Field{Key: "provider", Value: providerName},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return nil, fmt.Errorf("%w: %w", ErrOAuth2Callback, err)
	}

	m.logger.Info(ctx, "authorization completed", logger.Field{Key: "provider", Value: providerName})

	return tokenSet, nil
}

// Close releases the state storage
func (m *Manager) Close() error {
	return m.stateStorage.Close()
}
