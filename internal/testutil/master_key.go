package testutil

import (
	"crypto/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/gw2proxy/internal/crypto/domain"
)

// NewMasterKey returns a random in-memory master key.
func NewMasterKey(t *testing.T) *cryptoDomain.MasterKey {
	t.Helper()

	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	masterKey, err := cryptoDomain.NewMasterKey("memory", key)
	require.NoError(t, err)
	return masterKey
}

// WriteMasterKey writes a random master key file under baseDir/_secrets and returns
// the raw key.
func WriteMasterKey(t *testing.T, baseDir string) []byte {
	t.Helper()

	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	path := filepath.Join(baseDir, cryptoDomain.MasterKeyDirName, cryptoDomain.MasterKeyFileName)
	require.NoError(t, cryptoDomain.WriteMasterKeyFile(path, key, false))
	return key
}
