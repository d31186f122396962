package app

import (
	"fmt"

	gatewayHTTP "github.com/allisson/gw2proxy/internal/gateway/http"
	gatewayService "github.com/allisson/gw2proxy/internal/gateway/service"
	gatewayUseCase "github.com/allisson/gw2proxy/internal/gateway/usecase"
)

// UpstreamClient returns the retrying, rate-limited upstream HTTP client.
func (c *Container) UpstreamClient() (*gatewayService.UpstreamClient, error) {
	var err error
	c.upstreamClientInit.Do(func() {
		c.upstreamClient, err = c.initUpstreamClient()
		if err != nil {
			c.initErrors["upstreamClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["upstreamClient"]; exists {
		return nil, storedErr
	}
	return c.upstreamClient, nil
}

// GatewayUseCase returns the gateway shared by the HTTP and RPC front ends.
func (c *Container) GatewayUseCase() (gatewayUseCase.GatewayUseCase, error) {
	var err error
	c.gatewayUseCaseInit.Do(func() {
		c.gatewayUseCase, err = c.initGatewayUseCase()
		if err != nil {
			c.initErrors["gatewayUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gatewayUseCase"]; exists {
		return nil, storedErr
	}
	return c.gatewayUseCase, nil
}

// GatewayHandler returns the HTTP forwarding handler.
func (c *Container) GatewayHandler() (*gatewayHTTP.GatewayHandler, error) {
	var err error
	c.gatewayHandlerInit.Do(func() {
		c.gatewayHandler, err = c.initGatewayHandler()
		if err != nil {
			c.initErrors["gatewayHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gatewayHandler"]; exists {
		return nil, storedErr
	}
	return c.gatewayHandler, nil
}

// initUpstreamClient creates the upstream client from configuration.
func (c *Container) initUpstreamClient() (*gatewayService.UpstreamClient, error) {
	upstreamMetrics, err := c.UpstreamMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get upstream metrics for upstream client: %w", err)
	}

	client := gatewayService.NewUpstreamClient(gatewayService.ClientConfig{
		BaseURL:         c.config.UpstreamBaseURL,
		Timeout:         c.config.UpstreamTimeout,
		MaxRetries:      c.config.UpstreamMaxRetries,
		RetryDelay:      c.config.UpstreamRetryDelay,
		RateLimitPerSec: c.config.UpstreamRateLimitPerSec,
		RateLimitBurst:  c.config.UpstreamRateLimitBurst,
	}, nil, c.Logger())

	return client.WithMetrics(upstreamMetrics), nil
}

// initGatewayUseCase creates the gateway with all its dependencies.
func (c *Container) initGatewayUseCase() (gatewayUseCase.GatewayUseCase, error) {
	store, err := c.CredentialUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential use case for gateway use case: %w", err)
	}

	client, err := c.UpstreamClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get upstream client for gateway use case: %w", err)
	}

	baseUseCase := gatewayUseCase.NewGatewayUseCase(
		store,
		client,
		c.config.UpstreamAPIVersion,
		c.config.UpstreamRequestTimeout,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for gateway use case: %w", err)
		}
		return gatewayUseCase.NewGatewayUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initGatewayHandler creates the forwarding handler with all its dependencies.
func (c *Container) initGatewayHandler() (*gatewayHTTP.GatewayHandler, error) {
	useCase, err := c.GatewayUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway use case for gateway handler: %w", err)
	}

	return gatewayHTTP.NewGatewayHandler(useCase, c.Logger()), nil
}
