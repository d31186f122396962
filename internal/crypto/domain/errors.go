package domain

import (
	"github.com/allisson/gw2proxy/internal/errors"
)

// Cryptographic operation error definitions.
//
// Master key errors wrap ErrConfiguration: they are fatal at startup and must
// keep the process from serving requests.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates authentication of a sealed value failed.
	// The specific cause (wrong key, tampered ciphertext or tag, bad nonce) is
	// deliberately not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrMasterKeyFileNotFound indicates none of the candidate master key files exist.
	ErrMasterKeyFileNotFound = errors.Wrap(errors.ErrConfiguration, "master key file not found")

	// ErrInvalidMasterKeyFile indicates the master key file is not valid JSON or lacks key_base64.
	ErrInvalidMasterKeyFile = errors.Wrap(errors.ErrConfiguration, "invalid master key file")

	// ErrInvalidMasterKeyBase64 indicates key_base64 is not valid standard base64.
	ErrInvalidMasterKeyBase64 = errors.Wrap(errors.ErrConfiguration, "invalid master key base64")

	// ErrInvalidMasterKeySize indicates the decoded master key is not exactly 32 bytes.
	ErrInvalidMasterKeySize = errors.Wrap(errors.ErrConfiguration, "master key must be 32 bytes")
)
