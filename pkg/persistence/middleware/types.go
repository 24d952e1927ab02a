// Package middleware wraps credential stores with cross-cutting behavior
// such as encryption at rest.
package middleware

import "github.com/daisyflow/daisy/pkg/ports"

// Middleware allows wrapping a CredentialStore to add behavior.
type Middleware func(ports.CredentialStore) ports.CredentialStore
