// Package redis provides a Redis-backed credential store, for deployments
// where workers share API secrets instead of each holding them in process
// memory.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/daisyflow/daisy/pkg/domain"
)

// CredentialStore implements ports.CredentialStore using Redis.
type CredentialStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*CredentialStore)

// WithTTL sets an expiration on stored secrets.
func WithTTL(ttl time.Duration) Option {
	return func(s *CredentialStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for secrets.
func WithPrefix(prefix string) Option {
	return func(s *CredentialStore) {
		s.prefix = prefix
	}
}

// New creates a Redis credential store with options.
func New(address, password string, db int, opts ...Option) *CredentialStore {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis credential store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *CredentialStore {
	store := &CredentialStore{
		client: client,
		prefix: "daisy:credential:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *CredentialStore) key(provider string) string {
	return s.prefix + provider
}

// Credential retrieves the provider's secret.
func (s *CredentialStore) Credential(ctx context.Context, provider string) (string, error) {
	secret, err := s.client.Get(ctx, s.key(provider)).Result()
	if errors.Is(err, backend.Nil) {
		return "", fmt.Errorf("%w: %s", domain.ErrCredentialNotFound, provider)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get credential: %w", err)
	}
	return secret, nil
}

// SetCredential stores or replaces the provider's secret.
func (s *CredentialStore) SetCredential(ctx context.Context, provider, secret string) error {
	if err := s.client.Set(ctx, s.key(provider), secret, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set credential: %w", err)
	}
	return nil
}

// DeleteCredential removes the provider's secret.
func (s *CredentialStore) DeleteCredential(ctx context.Context, provider string) error {
	if err := s.client.Del(ctx, s.key(provider)).Err(); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

// Ping verifies connectivity, used at startup to fail fast on a bad address.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
