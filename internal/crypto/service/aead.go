package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/gw2proxy/internal/crypto/domain"
)

// seal encrypts plaintext under a fresh nonce and splits the sealed output into
// ciphertext and tag.
func seal(aead cipher.AEAD, plaintext, aad []byte) (ciphertext, tag, nonce []byte, err error) {
	nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, aad)
	split := len(sealed) - aead.Overhead()

	ciphertext = append([]byte{}, sealed[:split]...)
	tag = append([]byte{}, sealed[split:]...)
	return ciphertext, tag, nonce, nil
}

// open joins ciphertext and tag and authenticates them. Malformed input is
// reported as a decryption failure rather than a panic.
func open(aead cipher.AEAD, ciphertext, tag, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != aead.NonceSize() || len(tag) != aead.Overhead() {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
