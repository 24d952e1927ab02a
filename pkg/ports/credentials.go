package ports

import "context"

// Provider names credentials are stored under.
const (
	ProviderOpenAI = "openai"
	ProviderRunway = "runway"
)

// CredentialProvider is the side-channel the embedding application supplies
// API secrets through. The engine treats a missing credential as an
// immediate configuration failure and never attempts the network call.
//
// Implementations must return domain.ErrCredentialNotFound (possibly
// wrapped) when no secret is stored for the provider.
type CredentialProvider interface {
	Credential(ctx context.Context, provider string) (string, error)
}

// CredentialStore is a writable CredentialProvider. The settings surface
// (CLI, HTTP) manages secrets through it.
type CredentialStore interface {
	CredentialProvider
	SetCredential(ctx context.Context, provider, secret string) error
	DeleteCredential(ctx context.Context, provider string) error
}
