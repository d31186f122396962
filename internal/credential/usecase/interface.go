// Package usecase defines the interfaces and implementations for the encrypted credential store.
package usecase

import (
	"context"

	credentialDomain "github.com/allisson/gw2proxy/internal/credential/domain"
)

// CredentialRepository defines the interface for Credential persistence operations.
type CredentialRepository interface {
	Upsert(ctx context.Context, credential *credentialDomain.Credential) error
	Get(ctx context.Context, name string) (*credentialDomain.Credential, error)
	Delete(ctx context.Context, name string) error
}

// CredentialUseCase is the AEAD credential store for the single upstream API key.
type CredentialUseCase interface {
	// Save seals plaintext under a fresh nonce and replaces any stored record.
	Save(ctx context.Context, plaintext string) error
	// Get returns the decrypted credential. ok is false when no record exists or the
	// record fails authentication; err is reserved for storage failures.
	Get(ctx context.Context) (plaintext string, ok bool, err error)
	// Delete removes the record. Deleting a missing record is a no-op.
	Delete(ctx context.Context) error
	// Exists reports whether Get would return a value.
	Exists(ctx context.Context) (bool, error)
}
