package usecase

import (
	"context"
	"time"

	"github.com/allisson/gw2proxy/internal/metrics"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *credentialUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "credential", operation, status)
	c.metrics.RecordDuration(ctx, "credential", operation, time.Since(start), status)
}

// Save records metrics for credential save operations.
func (c *credentialUseCaseWithMetrics) Save(ctx context.Context, plaintext string) error {
	start := time.Now()
	err := c.next.Save(ctx, plaintext)
	c.record(ctx, "credential_save", start, err)
	return err
}

// Get records metrics for credential retrieval operations.
// An absent or tampered credential is still a successful lookup.
func (c *credentialUseCaseWithMetrics) Get(ctx context.Context) (string, bool, error) {
	start := time.Now()
	plaintext, ok, err := c.next.Get(ctx)
	c.record(ctx, "credential_get", start, err)
	return plaintext, ok, err
}

// Delete records metrics for credential delete operations.
func (c *credentialUseCaseWithMetrics) Delete(ctx context.Context) error {
	start := time.Now()
	err := c.next.Delete(ctx)
	c.record(ctx, "credential_delete", start, err)
	return err
}

// Exists records metrics for credential existence checks.
func (c *credentialUseCaseWithMetrics) Exists(ctx context.Context) (bool, error) {
	start := time.Now()
	ok, err := c.next.Exists(ctx)
	c.record(ctx, "credential_exists", start, err)
	return ok, err
}
