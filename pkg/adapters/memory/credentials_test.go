package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daisyflow/daisy/pkg/adapters/memory"
	"github.com/daisyflow/daisy/pkg/ports"
)

func TestMemoryCredentialStore_Contract(t *testing.T) {
	store := memory.NewCredentialStore()
	ports.RunCredentialStoreContract(t, store)
}

func TestMemoryCredentialStore_Seed(t *testing.T) {
	store := memory.NewCredentialStore().Seed(map[string]string{
		ports.ProviderOpenAI: "sk-seeded",
		ports.ProviderRunway: "",
	})

	secret, err := store.Credential(context.Background(), ports.ProviderOpenAI)
	require.NoError(t, err)
	assert.Equal(t, "sk-seeded", secret)

	// Empty seeds are skipped, not stored as empty secrets.
	_, err = store.Credential(context.Background(), ports.ProviderRunway)
	assert.Error(t, err)
}
