package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	gatewayUseCase "github.com/allisson/gw2proxy/internal/gateway/usecase"
	"github.com/allisson/gw2proxy/internal/httputil"
)

// GatewayHandler forwards requests to the upstream API.
type GatewayHandler struct {
	gatewayUseCase gatewayUseCase.GatewayUseCase
	logger         *slog.Logger
}

// NewGatewayHandler creates a new gateway handler.
func NewGatewayHandler(gatewayUseCase gatewayUseCase.GatewayUseCase, logger *slog.Logger) *GatewayHandler {
	return &GatewayHandler{
		gatewayUseCase: gatewayUseCase,
		logger:         logger,
	}
}

// ForwardHandler maps the remainder of the URL path and the raw query onto the
// upstream API and writes its body, content type and status verbatim.
// GET /gw2/*path
func (h *GatewayHandler) ForwardHandler(c *gin.Context) {
	resp, err := h.gatewayUseCase.Fetch(c.Request.Context(), c.Param("path"), c.Request.URL.RawQuery)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(resp.StatusCode, resp.ContentType, []byte(resp.Body))
}
