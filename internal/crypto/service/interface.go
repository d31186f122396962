// Package service provides the cryptographic services behind the credential store:
// AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), KMS access and master key loading.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/gw2proxy/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
//
// The authentication tag is returned separately from the ciphertext so callers can
// persist nonce, ciphertext and tag as independent columns.
type AEAD interface {
	// Encrypt seals plaintext with optional AAD under a fresh random nonce.
	// The ciphertext has the same length as the plaintext.
	Encrypt(plaintext, aad []byte) (ciphertext, tag, nonce []byte, err error)

	// Decrypt authenticates and opens ciphertext. Any mismatch of key, nonce,
	// tag, ciphertext or AAD yields cryptoDomain.ErrDecryptionFailed.
	Decrypt(ciphertext, tag, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KMSService opens KMS keepers used to wrap and unwrap the master key.
type KMSService interface {
	// OpenKeeper opens a keeper for the KMS key identified by keyURI.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
