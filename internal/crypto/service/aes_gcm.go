package service

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	cryptoDomain "github.com/allisson/gw2proxy/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// Security properties:
//   - 256-bit key size
//   - 12-byte nonce, randomly generated per encryption
//   - 16-byte authentication tag, returned separately from the ciphertext
//
// The cipher instance is stateless and safe for concurrent use.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
// The key must be exactly 32 bytes.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt seals plaintext using AES-256-GCM with optional additional authenticated data.
//
// A unique nonce is generated for every call. With GCM it is critical that a
// nonce is never reused with the same key, so callers must never persist a nonce
// across encryptions.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, tag, nonce []byte, err error) {
	return seal(a.aead, plaintext, aad)
}

// Decrypt verifies the tag and returns the plaintext.
// The same AAD used during encryption must be provided.
func (a *AESGCMCipher) Decrypt(ciphertext, tag, nonce, aad []byte) ([]byte, error) {
	return open(a.aead, ciphertext, tag, nonce, aad)
}
