// Package memory provides in-memory adapters, the default when no external
// store is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/daisyflow/daisy/pkg/domain"
)

// CredentialStore implements ports.CredentialStore in memory.
// Safe for concurrent use. Secrets live for the process lifetime only.
type CredentialStore struct {
	secrets map[string]string
	mu      sync.RWMutex
}

// NewCredentialStore creates an empty in-memory credential store. Initial
// secrets (e.g. from environment variables) can be seeded with Seed.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{secrets: make(map[string]string)}
}

// Seed stores every non-empty secret in the map and returns the store,
// allowing construction in one expression.
func (s *CredentialStore) Seed(secrets map[string]string) *CredentialStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	for provider, secret := range secrets {
		if secret != "" {
			s.secrets[provider] = secret
		}
	}
	return s
}

// Credential returns the secret stored for the provider.
func (s *CredentialStore) Credential(ctx context.Context, provider string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	secret, ok := s.secrets[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrCredentialNotFound, provider)
	}
	return secret, nil
}

// SetCredential stores or replaces the provider's secret.
func (s *CredentialStore) SetCredential(ctx context.Context, provider, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[provider] = secret
	return nil
}

// DeleteCredential removes the provider's secret.
func (s *CredentialStore) DeleteCredential(ctx context.Context, provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, provider)
	return nil
}
