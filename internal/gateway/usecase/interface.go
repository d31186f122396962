// Package usecase implements the upstream gateway: it turns the stored credential into
// authorized, retried calls to the upstream API.
package usecase

import (
	"context"

	gatewayDomain "github.com/allisson/gw2proxy/internal/gateway/domain"
)

// UpstreamClient performs authorized GET requests against the upstream API.
type UpstreamClient interface {
	Get(ctx context.Context, path, rawQuery, bearer string) (*gatewayDomain.Response, error)
}

// GatewayUseCase forwards a relative resource path to the upstream API.
type GatewayUseCase interface {
	// Fetch normalizes path, attaches the stored credential and returns the upstream
	// response unmodified. Returns an error wrapping ErrMissingCredential when no
	// usable credential is stored; no request is sent in that case.
	Fetch(ctx context.Context, path, query string) (*gatewayDomain.Response, error)
}
