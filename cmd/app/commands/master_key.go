package commands

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	cryptoDomain "github.com/allisson/gw2proxy/internal/crypto/domain"
	cryptoService "github.com/allisson/gw2proxy/internal/crypto/service"
)

// ResolveMasterKeyPath picks the destination of a new master key file: the flag,
// then MASTER_KEY_FILE, then ./_secrets/app_key.json under the working directory.
func ResolveMasterKeyPath(flagPath, configuredPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if configuredPath != "" {
		return configuredPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return filepath.Join(cwd, cryptoDomain.MasterKeyDirName, cryptoDomain.MasterKeyFileName), nil
}

// RunCreateMasterKey generates a 32-byte master key and writes it to path with
// owner-only permissions. An existing file is only replaced when force is set.
//
// When kmsKeyURI is set the key is wrapped by the KMS before it touches disk, and
// the process must then run with the same KMS_KEY_URI to unwrap it. Key material
// is zeroed once written.
func RunCreateMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	out io.Writer,
	path string,
	force bool,
	kmsKeyURI string,
) error {
	if path == "" {
		return fmt.Errorf("master key path is required")
	}

	masterKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	material := masterKey
	if kmsKeyURI != "" {
		if kmsService == nil {
			return fmt.Errorf("KMS service is required when a KMS key URI is set")
		}

		keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
			}
		}()

		ciphertext, err := keeper.Encrypt(ctx, masterKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
		}
		material = ciphertext
	}

	if err := cryptoDomain.WriteMasterKeyFile(path, material, force); err != nil {
		return err
	}

	logger.Info("master key created",
		slog.String("path", path),
		slog.Bool("kms", kmsKeyURI != ""),
	)

	_, _ = fmt.Fprintf(out, "# Master key written to %s\n", path)
	_, _ = fmt.Fprintln(out, "# Keep this file out of version control and back it up securely.")
	if kmsKeyURI != "" {
		_, _ = fmt.Fprintln(out, "# The key is wrapped by KMS; start the application with:")
		_, _ = fmt.Fprintf(out, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	}
	_, _ = fmt.Fprintf(out, "MASTER_KEY_FILE=\"%s\"\n", path)

	return nil
}
