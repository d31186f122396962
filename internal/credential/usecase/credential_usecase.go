package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	credentialDomain "github.com/allisson/gw2proxy/internal/credential/domain"
	cryptoDomain "github.com/allisson/gw2proxy/internal/crypto/domain"
	cryptoService "github.com/allisson/gw2proxy/internal/crypto/service"
	"github.com/allisson/gw2proxy/internal/database"
	apperrors "github.com/allisson/gw2proxy/internal/errors"
)

// credentialAAD binds the sealed value to the record name.
var credentialAAD = []byte(credentialDomain.CredentialName)

// credentialUseCase implements CredentialUseCase.
type credentialUseCase struct {
	txManager   database.TxManager
	repo        CredentialRepository
	aeadManager cryptoService.AEADManager
	masterKey   *cryptoDomain.MasterKey
	algorithm   cryptoDomain.Algorithm
	logger      *slog.Logger
	now         func() time.Time
}

// Save encrypts plaintext and atomically replaces the stored record.
// Any string is accepted; rejecting blank keys is left to the front ends.
func (c *credentialUseCase) Save(ctx context.Context, plaintext string) error {
	cipher, err := c.aeadManager.CreateCipher(c.masterKey.Key, c.algorithm)
	if err != nil {
		return err
	}

	value := []byte(plaintext)
	defer cryptoDomain.Zero(value)

	ciphertext, tag, nonce, err := cipher.Encrypt(value, credentialAAD)
	if err != nil {
		return err
	}

	credential := &credentialDomain.Credential{
		Name:       credentialDomain.CredentialName,
		Algorithm:  c.algorithm,
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Tag:        tag,
		CreatedAt:  c.now().UTC(),
	}

	err = c.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return c.repo.Upsert(txCtx, credential)
	})
	if err != nil {
		c.logger.Error("failed to save credential", slog.Any("error", err))
		return err
	}

	return nil
}

// Get loads and decrypts the stored credential.
func (c *credentialUseCase) Get(ctx context.Context) (string, bool, error) {
	credential, err := c.repo.Get(ctx, credentialDomain.CredentialName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", false, nil
		}
		c.logger.Error("failed to load credential", slog.Any("error", err))
		return "", false, err
	}

	plaintext, err := c.open(credential)
	if err != nil {
		c.logger.Warn("stored credential failed authentication, treating as absent",
			slog.String("name", credential.Name),
			slog.String("algorithm", string(credential.Algorithm)),
			slog.Any("error", err),
		)
		return "", false, nil
	}
	defer cryptoDomain.Zero(plaintext)

	return string(plaintext), true, nil
}

// open decrypts a record with the algorithm it was sealed with.
func (c *credentialUseCase) open(credential *credentialDomain.Credential) ([]byte, error) {
	cipher, err := c.aeadManager.CreateCipher(c.masterKey.Key, credential.Algorithm)
	if err != nil {
		return nil, err
	}
	return cipher.Decrypt(credential.Ciphertext, credential.Tag, credential.Nonce, credentialAAD)
}

// Delete removes the stored credential.
func (c *credentialUseCase) Delete(ctx context.Context) error {
	if err := c.repo.Delete(ctx, credentialDomain.CredentialName); err != nil {
		c.logger.Error("failed to delete credential", slog.Any("error", err))
		return err
	}
	return nil
}

// Exists reports whether a credential is stored and decrypts successfully.
func (c *credentialUseCase) Exists(ctx context.Context) (bool, error) {
	_, ok, err := c.Get(ctx)
	return ok, err
}

// NewCredentialUseCase creates a new CredentialUseCase.
// masterKey must be loaded; a nil key is a configuration error.
func NewCredentialUseCase(
	txManager database.TxManager,
	repo CredentialRepository,
	aeadManager cryptoService.AEADManager,
	masterKey *cryptoDomain.MasterKey,
	algorithm cryptoDomain.Algorithm,
	logger *slog.Logger,
) (CredentialUseCase, error) {
	if masterKey == nil || len(masterKey.Key) != cryptoDomain.KeySize {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "credential store requires a 32-byte master key")
	}
	if _, err := cryptoDomain.ParseAlgorithm(string(algorithm)); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrConfiguration, "invalid credential algorithm %q", algorithm)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &credentialUseCase{
		txManager:   txManager,
		repo:        repo,
		aeadManager: aeadManager,
		masterKey:   masterKey,
		algorithm:   algorithm,
		logger:      logger,
		now:         time.Now,
	}, nil
}
