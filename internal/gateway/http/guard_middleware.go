// Package http provides the HTTP forwarding surface of the gateway.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	credentialUseCase "github.com/allisson/gw2proxy/internal/credential/usecase"
	"github.com/allisson/gw2proxy/internal/httputil"
)

// RequireCredential rejects requests with the MissingApiKey response when no usable
// API key is stored, before any forwarding handler runs.
func RequireCredential(store credentialUseCase.CredentialUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		exists, err := store.Exists(c.Request.Context())
		if err != nil {
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		if !exists {
			httputil.HandleMissingCredentialGin(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
