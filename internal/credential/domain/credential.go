// Package domain defines the encrypted credential record.
//
// Exactly one credential exists per installation: the upstream API key. It is
// sealed with an AEAD under the master key and stored as independent nonce,
// ciphertext and tag columns.
package domain

import (
	"time"

	cryptoDomain "github.com/allisson/gw2proxy/internal/crypto/domain"
)

// CredentialName is the fixed identifier of the single stored credential.
const CredentialName = "GW2_API_KEY"

// Credential is the persisted, encrypted form of the upstream API key.
type Credential struct {
	// Name is always CredentialName.
	Name string
	// Algorithm is the AEAD used to seal the value.
	Algorithm cryptoDomain.Algorithm
	// Nonce is 12 random bytes, regenerated on every save.
	Nonce []byte
	// Ciphertext has the same length as the plaintext credential.
	Ciphertext []byte
	// Tag is the 16-byte authentication tag over nonce and ciphertext.
	Tag []byte
	// CreatedAt is the UTC timestamp of the last save.
	CreatedAt time.Time
}
