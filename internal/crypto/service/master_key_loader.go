package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	cryptoDomain "github.com/allisson/gw2proxy/internal/crypto/domain"
	apperrors "github.com/allisson/gw2proxy/internal/errors"
)

// MasterKeyConfig describes where the master key lives and how it is wrapped.
type MasterKeyConfig struct {
	// File is an explicit master key file; when set no search is performed.
	File string
	// BaseDir is where the search starts. Empty means the working directory.
	BaseDir string
	// KMSKeyURI, when set, means key_base64 holds a KMS ciphertext.
	KMSKeyURI string
}

// MasterKeyLoader resolves, reads and validates the master key at startup.
type MasterKeyLoader struct {
	kmsService KMSService
	logger     *slog.Logger
}

// NewMasterKeyLoader creates a loader. kmsService may be nil when no KMS is configured.
func NewMasterKeyLoader(kmsService KMSService, logger *slog.Logger) *MasterKeyLoader {
	return &MasterKeyLoader{kmsService: kmsService, logger: logger}
}

// Load returns the master key or an error wrapping ErrConfiguration.
//
// Every failure here is fatal: a process without a valid 32-byte master key must
// not start serving.
func (l *MasterKeyLoader) Load(ctx context.Context, cfg MasterKeyConfig) (*cryptoDomain.MasterKey, error) {
	baseDir := cfg.BaseDir
	if baseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrConfiguration, "failed to resolve working directory")
		}
		baseDir = cwd
	}

	path, err := cryptoDomain.ResolveMasterKeyFile(cryptoDomain.MasterKeyCandidates(cfg.File, baseDir))
	if err != nil {
		return nil, err
	}

	material, err := cryptoDomain.ReadMasterKeyFile(path)
	if err != nil {
		return nil, err
	}

	if cfg.KMSKeyURI != "" {
		material, err = l.unwrap(ctx, cfg.KMSKeyURI, material)
		if err != nil {
			return nil, err
		}
	}

	masterKey, err := cryptoDomain.NewMasterKey(path, material)
	if err != nil {
		return nil, err
	}

	if l.logger != nil {
		l.logger.Info("master key loaded",
			slog.String("path", path),
			slog.Bool("kms_wrapped", cfg.KMSKeyURI != ""),
		)
	}

	return masterKey, nil
}

// unwrap decrypts a KMS-wrapped master key.
func (l *MasterKeyLoader) unwrap(ctx context.Context, keyURI string, ciphertext []byte) ([]byte, error) {
	if l.kmsService == nil {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "KMS key URI configured without a KMS service")
	}

	keeper, err := l.kmsService.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConfiguration, err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil && l.logger != nil {
			l.logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unwrap master key with KMS: %v", apperrors.ErrConfiguration, err)
	}
	return plaintext, nil
}
