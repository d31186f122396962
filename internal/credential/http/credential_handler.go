// Package http provides HTTP handlers for the stored upstream API key.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/gw2proxy/internal/credential/http/dto"
	credentialUseCase "github.com/allisson/gw2proxy/internal/credential/usecase"
	"github.com/allisson/gw2proxy/internal/httputil"
	customValidation "github.com/allisson/gw2proxy/internal/validation"
)

// CredentialHandler handles HTTP requests for the stored API key.
// The key itself is never returned by any endpoint.
type CredentialHandler struct {
	credentialUseCase credentialUseCase.CredentialUseCase
	serverName        string
	port              int
	logger            *slog.Logger
}

// NewCredentialHandler creates a new credential handler. serverName and port are
// reported by the status endpoint.
func NewCredentialHandler(
	credentialUseCase credentialUseCase.CredentialUseCase,
	serverName string,
	port int,
	logger *slog.Logger,
) *CredentialHandler {
	return &CredentialHandler{
		credentialUseCase: credentialUseCase,
		serverName:        serverName,
		port:              port,
		logger:            logger,
	}
}

// StatusHandler reports server identity and whether a key is configured.
// GET /status
func (h *CredentialHandler) StatusHandler(c *gin.Context) {
	exists, err := h.credentialUseCase.Exists(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ServerStatusResponse{
		Server:    h.serverName,
		Port:      h.port,
		HasAPIKey: exists,
	})
}

// GetHandler reports whether a key is configured.
// GET /apikey
func (h *CredentialHandler) GetHandler(c *gin.Context) {
	exists, err := h.credentialUseCase.Exists(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.CredentialStatusResponse{HasAPIKey: exists})
}

// SaveHandler encrypts and stores the API key, replacing any previous one.
// POST /apikey {"key": "..."}
func (h *CredentialHandler) SaveHandler(c *gin.Context) {
	var req dto.SaveCredentialRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.credentialUseCase.Save(c.Request.Context(), req.Key); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("api key saved")
	c.JSON(http.StatusOK, dto.CredentialStatusResponse{HasAPIKey: true})
}

// DeleteHandler removes the stored API key. Deleting a missing key succeeds.
// DELETE /apikey
func (h *CredentialHandler) DeleteHandler(c *gin.Context) {
	if err := h.credentialUseCase.Delete(c.Request.Context()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("api key deleted")
	c.JSON(http.StatusOK, dto.CredentialStatusResponse{HasAPIKey: false})
}
