package domain

import (
	"github.com/allisson/gw2proxy/internal/errors"
)

// Gateway-specific error definitions.
var (
	// ErrInvalidPath indicates the forwarding path contains a parent directory reference.
	ErrInvalidPath = errors.Wrap(errors.ErrInvalidInput, "invalid path")

	// ErrUpstreamUnavailable indicates the upstream API could not be reached after all retries.
	ErrUpstreamUnavailable = errors.Wrap(errors.ErrUpstreamTransport, "upstream API unavailable")
)
