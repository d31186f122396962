package usecase

import (
	"context"
	"time"

	gatewayDomain "github.com/allisson/gw2proxy/internal/gateway/domain"
	"github.com/allisson/gw2proxy/internal/metrics"
)

// gatewayUseCaseWithMetrics decorates GatewayUseCase with metrics instrumentation.
type gatewayUseCaseWithMetrics struct {
	next    GatewayUseCase
	metrics metrics.BusinessMetrics
}

// NewGatewayUseCaseWithMetrics wraps a GatewayUseCase with metrics recording.
func NewGatewayUseCaseWithMetrics(useCase GatewayUseCase, m metrics.BusinessMetrics) GatewayUseCase {
	return &gatewayUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Fetch records metrics for gateway fetch operations. A non-2xx upstream status is
// reported as "upstream_error".
func (g *gatewayUseCaseWithMetrics) Fetch(
	ctx context.Context,
	path, query string,
) (*gatewayDomain.Response, error) {
	start := time.Now()
	resp, err := g.next.Fetch(ctx, path, query)

	status := "success"
	switch {
	case err != nil:
		status = "error"
	case !resp.IsSuccess():
		status = "upstream_error"
	}

	g.metrics.RecordOperation(ctx, "gateway", "gateway_fetch", status)
	g.metrics.RecordDuration(ctx, "gateway", "gateway_fetch", time.Since(start), status)

	return resp, err
}
