package usecase

import (
	"context"
	"time"

	credentialDomain "github.com/allisson/gw2proxy/internal/credential/domain"
	credentialUsecase "github.com/allisson/gw2proxy/internal/credential/usecase"
	gatewayDomain "github.com/allisson/gw2proxy/internal/gateway/domain"
)

// gatewayUseCase implements GatewayUseCase.
type gatewayUseCase struct {
	store          credentialUsecase.CredentialUseCase
	client         UpstreamClient
	apiVersion     string
	requestTimeout time.Duration
}

// Fetch implements GatewayUseCase.
func (g *gatewayUseCase) Fetch(ctx context.Context, path, query string) (*gatewayDomain.Response, error) {
	normalized, err := gatewayDomain.NormalizePath(path, g.apiVersion)
	if err != nil {
		return nil, err
	}

	exists, err := g.store.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, credentialDomain.ErrCredentialMissing
	}

	key, ok, err := g.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, credentialDomain.ErrCredentialMissing
	}

	if g.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.requestTimeout)
		defer cancel()
	}

	return g.client.Get(ctx, normalized, gatewayDomain.NormalizeQuery(query), key)
}

// NewGatewayUseCase creates a new GatewayUseCase.
//
// requestTimeout bounds a whole Fetch including retries and must exceed the worst
// case backoff window; zero disables it.
func NewGatewayUseCase(
	store credentialUsecase.CredentialUseCase,
	client UpstreamClient,
	apiVersion string,
	requestTimeout time.Duration,
) GatewayUseCase {
	return &gatewayUseCase{
		store:          store,
		client:         client,
		apiVersion:     apiVersion,
		requestTimeout: requestTimeout,
	}
}
