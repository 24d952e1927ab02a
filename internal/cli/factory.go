// Package cli holds the shared wiring behind the daisy commands.
package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	"github.com/daisyflow/daisy"
	"github.com/daisyflow/daisy/pkg/adapters/memory"
	"github.com/daisyflow/daisy/pkg/adapters/redis"
	"github.com/daisyflow/daisy/pkg/observability"
	"github.com/daisyflow/daisy/pkg/persistence/middleware"
	"github.com/daisyflow/daisy/pkg/ports"
)

// Options carries the flag values shared by the daisy commands.
type Options struct {
	WorkflowPath string
	RedisAddr    string
	LogLevel     string
}

// Credentials builds the credential store for the session: Redis when an
// address is configured, else in-memory seeded from the environment. When
// DAISY_CREDENTIAL_KEY is set (base64, 32 bytes) secrets are encrypted at
// rest.
func Credentials(opts Options) (ports.CredentialStore, error) {
	var store ports.CredentialStore
	if opts.RedisAddr != "" {
		store = redis.New(opts.RedisAddr, os.Getenv("DAISY_REDIS_PASSWORD"), 0)
	} else {
		store = memory.NewCredentialStore()
	}

	if raw := os.Getenv("DAISY_CREDENTIAL_KEY"); raw != "" {
		key, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("DAISY_CREDENTIAL_KEY is not valid base64: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("DAISY_CREDENTIAL_KEY must decode to 32 bytes, got %d", len(key))
		}
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(store)
	}

	ctx := context.Background()
	for provider, env := range map[string]string{
		ports.ProviderOpenAI: "OPENAI_API_KEY",
		ports.ProviderRunway: "RUNWAY_API_KEY",
	} {
		if secret := os.Getenv(env); secret != "" {
			if err := store.SetCredential(ctx, provider, secret); err != nil {
				return nil, fmt.Errorf("seeding %s credential: %w", provider, err)
			}
		}
	}
	return store, nil
}

// CreateEngine loads the workflow file and assembles an engine with standard
// CLI conventions: env-backed credentials and a structured-log event sink.
func CreateEngine(opts Options, logger *slog.Logger, extraSinks ...ports.EventSink) (*daisy.Engine, ports.CredentialStore, error) {
	creds, err := Credentials(opts)
	if err != nil {
		return nil, nil, err
	}

	sinks := append([]ports.EventSink{observability.NewLogSink(logger)}, extraSinks...)

	engine, err := daisy.Load(opts.WorkflowPath,
		daisy.WithLogger(logger),
		daisy.WithCredentials(creds),
		daisy.WithEventSink(observability.Fanout(sinks...)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading workflow: %w", err)
	}
	return engine, creds, nil
}
