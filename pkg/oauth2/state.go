package oauth2

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pkcegen/pkg/cache"
)

var (
	ErrStateNotFound = errors.New("state not found")
	ErrStateExpired  = errors.New("state expired")
	ErrStateExists   = errors.New("duplicate state")
)

const stateKeyPrefix = "oauth2:state:"

// StateStorage retains the PKCE verifier between the authorization
// redirect and the callback, keyed by the state parameter
type StateStorage interface {
	SaveState(ctx context.Context, state, codeVerifier string, ttl time.Duration) error
	// ConsumeState returns the verifier for state and removes it, so a
	// state can be redeemed at most once
	ConsumeState(ctx context.Context, state string) (string, error)
	Close() error
}

type stateData struct {
	codeVerifier string
	expiresAt    time.Time
}

// InMemoryStorage implements StateStorage for single-instance deployments
type InMemoryStorage struct {
	mu   sync.Mutex
	data map[string]*stateData
	done chan struct{}
	once sync.Once
}

func NewInMemoryStorage() *InMemoryStorage {
	s := &InMemoryStorage{
		data: make(map[string]*stateData),
		done: make(chan struct{}),
	}
	go s.cleanupRoutine(5 * time.Minute)
	return s
}

func (s *InMemoryStorage) SaveState(ctx context.Context, state, codeVerifier string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.data[state]; ok && time.Now().Before(existing.expiresAt) {
		return fmt.Errorf("failed to save state: %w", ErrStateExists)
	}
	s.data[state] = &stateData{
		codeVerifier: codeVerifier,
		expiresAt:    time.Now().Add(ttl),
	}
	return nil
}

func (s *InMemoryStorage) ConsumeState(ctx context.Context, state string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, exists := s.data[state]
	if !exists {
		return "", ErrStateNotFound
	}
	delete(s.data, state)

	if time.Now().After(data.expiresAt) {
		return "", ErrStateExpired
	}

	return data.codeVerifier, nil
}

func (s *InMemoryStorage) Close() error {
	s.once.Do(func() {
		close(s.done)
	})
	return nil
}

func (s *InMemoryStorage) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.done:
			return
		}
	}
}

func (s *InMemoryStorage) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for state, data := range s.data {
		if now.After(data.expiresAt) {
			delete(s.data, state)
		}
	}
}

// RedisStateStorage keeps verifiers in Redis so any instance can serve
// the callback. Expiry is delegated to the key TTL.
type RedisStateStorage struct {
	cache cache.Cache
}

func NewRedisStateStorage(c cache.Cache) *RedisStateStorage {
	return &RedisStateStorage{cache: c}
}

func (s *RedisStateStorage) SaveState(ctx context.Context, state, codeVerifier string, ttl time.Duration) error {
	ok, err := s.cache.SetNX(ctx, stateKeyPrefix+state, codeVerifier, ttl)
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to save state: %w", ErrStateExists)
	}
	return nil
}

func (s *RedisStateStorage) ConsumeState(ctx context.Context, state string) (string, error) {
	verifier, err := s.cache.GetDel(ctx, stateKeyPrefix+state)
	if errors.Is(err, cache.ErrMiss) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load state: %w", err)
	}
	return verifier, nil
}

func (s *RedisStateStorage) Close() error {
	return s.cache.Close()
}
