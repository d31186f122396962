package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/gw2proxy/internal/crypto/domain"
	cryptoService "github.com/allisson/gw2proxy/internal/crypto/service"
)

// MasterKey returns the master key that seals the stored credential.
// A missing or malformed key file is a fatal configuration error.
func (c *Container) MasterKey() (*cryptoDomain.MasterKey, error) {
	var err error
	c.masterKeyInit.Do(func() {
		c.masterKey, err = c.initMasterKey()
		if err != nil {
			c.initErrors["masterKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKey"]; exists {
		return nil, storedErr
	}
	return c.masterKey, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = c.initAEADManager()
	})
	return c.aeadManager
}

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = c.initKMSService()
	})
	return c.kmsService
}

// initMasterKey loads the master key from disk, unwrapping it through the KMS when configured.
func (c *Container) initMasterKey() (*cryptoDomain.MasterKey, error) {
	logger := c.Logger()

	var kmsService cryptoService.KMSService
	if c.config.KMSKeyURI != "" {
		kmsService = c.KMSService()
		logger.Info("master key is KMS wrapped", slog.String("kms_provider", c.config.KMSProvider))
	}

	loader := cryptoService.NewMasterKeyLoader(kmsService, logger)
	masterKey, err := loader.Load(context.Background(), cryptoService.MasterKeyConfig{
		File:      c.config.MasterKeyFile,
		BaseDir:   c.config.MasterKeyBaseDir,
		KMSKeyURI: c.config.KMSKeyURI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load master key: %w", err)
	}
	return masterKey, nil
}

// initAEADManager creates the AEAD manager service.
func (c *Container) initAEADManager() cryptoService.AEADManager {
	return cryptoService.NewAEADManager()
}

// initKMSService creates the KMS service for unwrapping the master key.
func (c *Container) initKMSService() cryptoService.KMSService {
	return cryptoService.NewKMSService()
}
