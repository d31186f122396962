package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MasterKeyDirName is the directory holding the master key file.
	MasterKeyDirName = "_secrets"
	// MasterKeyFileName is the file name of the master key file.
	MasterKeyFileName = "app_key.json"
)

// MasterKey is the 32-byte symmetric key that seals the stored credential.
//
// It is loaded once at startup, never persisted next to the credential and
// treated as read-only for the lifetime of the process.
type MasterKey struct {
	// Path is the file the key was loaded from.
	Path string
	// Key is the raw key material.
	Key []byte
}

// Close zeroes the key material.
func (m *MasterKey) Close() {
	if m == nil {
		return
	}
	Zero(m.Key)
	m.Key = nil
}

// MasterKeyFile is the on-disk JSON document holding the master key.
type MasterKeyFile struct {
	KeyBase64 string `json:"key_base64"`
}

// MasterKeyCandidates returns the ordered list of files searched for the master key.
//
// An explicit file short-circuits the search. Otherwise the key is looked up
// under baseDir first and then one directory up.
func MasterKeyCandidates(explicitFile, baseDir string) []string {
	if explicitFile != "" {
		return []string{explicitFile}
	}
	return []string{
		filepath.Join(baseDir, MasterKeyDirName, MasterKeyFileName),
		filepath.Join(baseDir, "..", MasterKeyDirName, MasterKeyFileName),
	}
}

// ResolveMasterKeyFile returns the first candidate that exists as a regular file.
func ResolveMasterKeyFile(candidates []string) (string, error) {
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return filepath.Clean(candidate), nil
		}
	}
	return "", fmt.Errorf(
		"%w: looked in %s; create it with {\"key_base64\":\"<base64 32 bytes>\"}",
		ErrMasterKeyFileNotFound,
		strings.Join(candidates, ", "),
	)
}

// ReadMasterKeyFile reads the file at path and returns the base64-decoded key_base64 value.
//
// The returned bytes are not length checked: when a KMS wraps the master key they
// are a ciphertext that still has to be unwrapped.
func ReadMasterKeyFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyFile, err)
	}

	var file MasterKeyFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyFile, err)
	}

	if strings.TrimSpace(file.KeyBase64) == "" {
		return nil, fmt.Errorf("%w: key_base64 missing in %s", ErrInvalidMasterKeyFile, path)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(file.KeyBase64))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyBase64, err)
	}

	return decoded, nil
}

// NewMasterKey validates key material and wraps it in a MasterKey.
// The caller's slice is copied and then zeroed.
func NewMasterKey(path string, key []byte) (*MasterKey, error) {
	defer Zero(key)

	if len(key) != KeySize {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidMasterKeySize, len(key))
	}

	material := make([]byte, KeySize)
	copy(material, key)

	return &MasterKey{Path: path, Key: material}, nil
}

// WriteMasterKeyFile writes key as a master key file at path with owner-only permissions.
// Returns an error if the file exists and overwrite is false.
func WriteMasterKeyFile(path string, key []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("master key file %s already exists", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create master key directory: %w", err)
	}

	content, err := json.MarshalIndent(MasterKeyFile{
		KeyBase64: base64.StdEncoding.EncodeToString(key),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode master key file: %w", err)
	}

	if err := os.WriteFile(path, append(content, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write master key file: %w", err)
	}

	return nil
}
