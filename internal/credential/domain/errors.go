package domain

import (
	"github.com/allisson/gw2proxy/internal/errors"
)

// Credential-specific error definitions.
var (
	// ErrCredentialNotFound indicates no credential record is stored.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrCredentialMissing indicates no usable credential is available: either none is
	// stored or the stored record failed authentication.
	ErrCredentialMissing = errors.Wrap(errors.ErrMissingCredential, "Guild Wars 2 API key not configured")
)
