package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/allisson/gw2proxy/internal/credential/domain"
	apperrors "github.com/allisson/gw2proxy/internal/errors"
	gatewayDomain "github.com/allisson/gw2proxy/internal/gateway/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{name: "not found", err: apperrors.ErrNotFound, expectedStatus: http.StatusNotFound, expectedError: "not_found"},
		{name: "conflict", err: apperrors.ErrConflict, expectedStatus: http.StatusConflict, expectedError: "conflict"},
		{name: "invalid path", err: gatewayDomain.ErrInvalidPath, expectedStatus: http.StatusUnprocessableEntity, expectedError: "invalid_input"},
		{name: "upstream transport", err: gatewayDomain.ErrUpstreamUnavailable, expectedStatus: http.StatusBadGateway, expectedError: "upstream_unavailable"},
		{name: "storage", err: apperrors.ErrStorage, expectedStatus: http.StatusInternalServerError, expectedError: "internal_error"},
		{name: "unknown", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError, expectedError: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedError, response.Error)
		})
	}
}

func TestHandleErrorGin_InternalDetailsHidden(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleErrorGin(c, apperrors.Wrap(apperrors.ErrStorage, "disk /var/lib/app.db is full"), nil)

	assert.NotContains(t, w.Body.String(), "/var/lib/app.db")
}

func TestHandleErrorGin_MissingCredential(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleErrorGin(c, credentialDomain.ErrCredentialMissing, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body credentialDomain.MissingCredentialDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "MissingApiKey", body.Error)
	assert.Equal(t, "Guild Wars 2 API key not configured", body.Message)
	assert.NotEmpty(t, body.HowTo)
}

func TestHandleErrorGin_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleErrorGin(c, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleBadRequestGin(c, errors.New("invalid character"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"bad_request","message":"invalid character"}`, w.Body.String())
}

func TestHandleValidationErrorGin(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleValidationErrorGin(c, errors.New("key: cannot be blank."), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"validation_error","message":"key: cannot be blank."}`, w.Body.String())
}
