package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daisyflow/daisy/pkg/domain"
)

// RunCredentialStoreContract verifies that a CredentialStore implementation
// adheres to the interface contract. Adapters call it from their own tests.
func RunCredentialStoreContract(t *testing.T, store CredentialStore) {
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, store.SetCredential(ctx, ProviderOpenAI, "sk-contract"))

		secret, err := store.Credential(ctx, ProviderOpenAI)
		require.NoError(t, err)
		assert.Equal(t, "sk-contract", secret)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.SetCredential(ctx, ProviderRunway, "rw-old"))
		require.NoError(t, store.SetCredential(ctx, ProviderRunway, "rw-new"))

		secret, err := store.Credential(ctx, ProviderRunway)
		require.NoError(t, err)
		assert.Equal(t, "rw-new", secret)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := store.Credential(ctx, "no-such-provider")
		assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.SetCredential(ctx, ProviderOpenAI, "sk-gone"))
		require.NoError(t, store.DeleteCredential(ctx, ProviderOpenAI))

		_, err := store.Credential(ctx, ProviderOpenAI)
		assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
	})

	t.Run("DeleteMissingIsNoop", func(t *testing.T) {
		assert.NoError(t, store.DeleteCredential(ctx, "never-stored"))
	})
}
