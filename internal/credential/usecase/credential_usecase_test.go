package usecase

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/allisson/gw2proxy/internal/credential/domain"
	credentialRepository "github.com/allisson/gw2proxy/internal/credential/repository"
	cryptoDomain "github.com/allisson/gw2proxy/internal/crypto/domain"
	cryptoService "github.com/allisson/gw2proxy/internal/crypto/service"
	"github.com/allisson/gw2proxy/internal/database"
	apperrors "github.com/allisson/gw2proxy/internal/errors"
	"github.com/allisson/gw2proxy/internal/testutil"
)

type storeFixture struct {
	db    *sql.DB
	store CredentialUseCase
}

func newStoreFixture(t *testing.T, alg cryptoDomain.Algorithm) *storeFixture {
	t.Helper()

	db := testutil.SetupSQLiteDB(t)
	t.Cleanup(func() {
		testutil.TeardownDB(t, db)
	})

	store, err := NewCredentialUseCase(
		database.NewTxManager(db),
		credentialRepository.NewSQLiteCredentialRepository(db),
		cryptoService.NewAEADManager(),
		testutil.NewMasterKey(t),
		alg,
		nil,
	)
	require.NoError(t, err)

	return &storeFixture{db: db, store: store}
}

func (f *storeFixture) readRow(t *testing.T) (nonce, ciphertext, tag []byte) {
	t.Helper()
	err := f.db.QueryRow(
		"SELECT nonce, ciphertext, tag FROM credentials WHERE name = ?",
		credentialDomain.CredentialName,
	).Scan(&nonce, &ciphertext, &tag)
	require.NoError(t, err)
	return nonce, ciphertext, tag
}

func TestCredentialUseCase_RoundTrip(t *testing.T) {
	values := []string{
		"ABCDEF12-3456-7890-ABCD-EF1234567890ABCDEF12-3456-7890-ABCD-EF1234567890",
		"short",
		"",
		"  padded  ",
		"ünïcødé 🔑",
	}

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		f := newStoreFixture(t, alg)
		ctx := context.Background()

		for _, value := range values {
			t.Run(string(alg)+"/"+value, func(t *testing.T) {
				require.NoError(t, f.store.Save(ctx, value))

				got, ok, err := f.store.Get(ctx)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, value, got)

				nonce, ciphertext, tag := f.readRow(t)
				assert.Len(t, nonce, cryptoDomain.NonceSize)
				assert.Len(t, tag, cryptoDomain.TagSize)
				assert.Len(t, ciphertext, len(value))
			})
		}
	}
}

func TestCredentialUseCase_GetWhenAbsent(t *testing.T) {
	f := newStoreFixture(t, cryptoDomain.AESGCM)

	got, ok, err := f.store.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)

	exists, err := f.store.Exists(context.Background())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCredentialUseCase_TamperSensitivity(t *testing.T) {
	columns := []string{"ciphertext", "tag", "nonce"}

	for _, column := range columns {
		t.Run(column, func(t *testing.T) {
			f := newStoreFixture(t, cryptoDomain.AESGCM)
			ctx := context.Background()
			require.NoError(t, f.store.Save(ctx, "my-secret-api-key"))

			nonce, ciphertext, tag := f.readRow(t)
			original := map[string][]byte{"ciphertext": ciphertext, "tag": tag, "nonce": nonce}[column]

			// Flip every bit position of the first and last byte in turn.
			for _, idx := range []int{0, len(original) - 1} {
				for bit := 0; bit < 8; bit++ {
					tampered := append([]byte{}, original...)
					tampered[idx] ^= 1 << bit

					_, err := f.db.Exec("UPDATE credentials SET "+column+" = ? WHERE name = ?",
						tampered, credentialDomain.CredentialName)
					require.NoError(t, err)

					got, ok, err := f.store.Get(ctx)
					require.NoError(t, err)
					assert.False(t, ok)
					assert.Empty(t, got)

					exists, err := f.store.Exists(ctx)
					require.NoError(t, err)
					assert.False(t, exists)
				}
			}

			// Restoring the original bytes makes the credential readable again.
			_, err := f.db.Exec("UPDATE credentials SET "+column+" = ? WHERE name = ?",
				original, credentialDomain.CredentialName)
			require.NoError(t, err)

			got, ok, err := f.store.Get(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "my-secret-api-key", got)
		})
	}
}

func TestCredentialUseCase_TruncatedTag(t *testing.T) {
	f := newStoreFixture(t, cryptoDomain.AESGCM)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "secret"))

	_, err := f.db.Exec("UPDATE credentials SET tag = ? WHERE name = ?", []byte{1, 2, 3}, credentialDomain.CredentialName)
	require.NoError(t, err)

	_, ok, err := f.store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialUseCase_UnknownStoredAlgorithm(t *testing.T) {
	f := newStoreFixture(t, cryptoDomain.AESGCM)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "secret"))

	_, err := f.db.Exec("UPDATE credentials SET algorithm = 'rot13' WHERE name = ?", credentialDomain.CredentialName)
	require.NoError(t, err)

	_, ok, err := f.store.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialUseCase_WrongMasterKey(t *testing.T) {
	f := newStoreFixture(t, cryptoDomain.AESGCM)
	ctx := context.Background()
	require.NoError(t, f.store.Save(ctx, "secret"))

	other, err := NewCredentialUseCase(
		database.NewTxManager(f.db),
		credentialRepository.NewSQLiteCredentialRepository(f.db),
		cryptoService.NewAEADManager(),
		testutil.NewMasterKey(t),
		cryptoDomain.AESGCM,
		nil,
	)
	require.NoError(t, err)

	_, ok, err := other.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialUseCase_NonceUniqueness(t *testing.T) {
	f := newStoreFixture(t, cryptoDomain.AESGCM)
	ctx := context.Background()

	require.NoError(t, f.store.Save(ctx, "same-value"))
	nonce1, ciphertext1, _ := f.readRow(t)

	require.NoError(t, f.store.Save(ctx, "same-value"))
	nonce2, ciphertext2, _ := f.readRow(t)

	assert.NotEqual(t, nonce1, nonce2)
	assert.NotEqual(t, ciphertext1, ciphertext2)

	var count int
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM credentials").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestCredentialUseCase_SaveOverwrites(t *testing.T) {
	f := newStoreFixture(t, cryptoDomain.AESGCM)
	ctx := context.Background()

	require.NoError(t, f.store.Save(ctx, "first"))
	require.NoError(t, f.store.Save(ctx, "second"))

	got, ok, err := f.store.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", got)
}

func TestCredentialUseCase_IdempotentDelete(t *testing.T) {
	t.Run("Absent", func(t *testing.T) {
		f := newStoreFixture(t, cryptoDomain.AESGCM)
		ctx := context.Background()

		require.NoError(t, f.store.Delete(ctx))

		exists, err := f.store.Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Present", func(t *testing.T) {
		f := newStoreFixture(t, cryptoDomain.AESGCM)
		ctx := context.Background()

		require.NoError(t, f.store.Save(ctx, "secret"))
		require.NoError(t, f.store.Delete(ctx))
		require.NoError(t, f.store.Delete(ctx))

		exists, err := f.store.Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestNewCredentialUseCase_Validation(t *testing.T) {
	t.Run("NilMasterKey", func(t *testing.T) {
		_, err := NewCredentialUseCase(nil, nil, cryptoService.NewAEADManager(), nil, cryptoDomain.AESGCM, nil)
		assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	})

	t.Run("ClosedMasterKey", func(t *testing.T) {
		masterKey := testutil.NewMasterKey(t)
		masterKey.Close()
		_, err := NewCredentialUseCase(nil, nil, cryptoService.NewAEADManager(), masterKey, cryptoDomain.AESGCM, nil)
		assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	})

	t.Run("UnknownAlgorithm", func(t *testing.T) {
		_, err := NewCredentialUseCase(nil, nil, cryptoService.NewAEADManager(), testutil.NewMasterKey(t), "des", nil)
		assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	})
}

// mockCredentialRepository is a mock implementation of CredentialRepository.
type mockCredentialRepository struct {
	mock.Mock
}

func (m *mockCredentialRepository) Upsert(ctx context.Context, credential *credentialDomain.Credential) error {
	return m.Called(ctx, credential).Error(0)
}

func (m *mockCredentialRepository) Get(ctx context.Context, name string) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

func (m *mockCredentialRepository) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

// passthroughTxManager runs fn without a transaction.
type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func TestCredentialUseCase_StorageErrors(t *testing.T) {
	ctx := context.Background()
	storageErr := apperrors.Wrap(apperrors.ErrStorage, "disk I/O error")

	repo := &mockCredentialRepository{}
	store, err := NewCredentialUseCase(
		passthroughTxManager{},
		repo,
		cryptoService.NewAEADManager(),
		testutil.NewMasterKey(t),
		cryptoDomain.AESGCM,
		nil,
	)
	require.NoError(t, err)

	repo.On("Upsert", ctx, mock.AnythingOfType("*domain.Credential")).Return(storageErr).Once()
	repo.On("Get", ctx, credentialDomain.CredentialName).Return(nil, storageErr).Twice()
	repo.On("Delete", ctx, credentialDomain.CredentialName).Return(storageErr).Once()

	assert.ErrorIs(t, store.Save(ctx, "secret"), apperrors.ErrStorage)

	_, ok, err := store.Get(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	exists, err := store.Exists(ctx)
	assert.False(t, exists)
	assert.ErrorIs(t, err, apperrors.ErrStorage)

	assert.ErrorIs(t, store.Delete(ctx), apperrors.ErrStorage)
	repo.AssertExpectations(t)
}

func TestCredentialUseCase_SaveStoresRecordShape(t *testing.T) {
	ctx := context.Background()
	repo := &mockCredentialRepository{}
	store, err := NewCredentialUseCase(
		passthroughTxManager{},
		repo,
		cryptoService.NewAEADManager(),
		testutil.NewMasterKey(t),
		cryptoDomain.ChaCha20,
		nil,
	)
	require.NoError(t, err)

	repo.On("Upsert", ctx, mock.MatchedBy(func(c *credentialDomain.Credential) bool {
		return c.Name == credentialDomain.CredentialName &&
			c.Algorithm == cryptoDomain.ChaCha20 &&
			len(c.Nonce) == cryptoDomain.NonceSize &&
			len(c.Tag) == cryptoDomain.TagSize &&
			len(c.Ciphertext) == len("api-key") &&
			!c.CreatedAt.IsZero()
	})).Return(nil).Once()

	require.NoError(t, store.Save(ctx, "api-key"))
	repo.AssertExpectations(t)
}
