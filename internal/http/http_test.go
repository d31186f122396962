package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/gw2proxy/internal/config"
	credentialHTTP "github.com/allisson/gw2proxy/internal/credential/http"
	credentialMocks "github.com/allisson/gw2proxy/internal/credential/usecase/mocks"
	gatewayDomain "github.com/allisson/gw2proxy/internal/gateway/domain"
	gatewayHTTP "github.com/allisson/gw2proxy/internal/gateway/http"
	gatewayMocks "github.com/allisson/gw2proxy/internal/gateway/usecase/mocks"
	"github.com/allisson/gw2proxy/internal/metrics"
	"github.com/allisson/gw2proxy/internal/testutil"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// createTestServer creates a test server with a discarding logger.
func createTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(nil, "localhost", 0, logger)
}

// createFullServer wires the complete router over mocked use cases.
func createFullServer(
	t *testing.T,
	metricsProvider *metrics.Provider,
) (*Server, *credentialMocks.MockCredentialUseCase, *gatewayMocks.MockGatewayUseCase) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := &credentialMocks.MockCredentialUseCase{}
	gateway := &gatewayMocks.MockGatewayUseCase{}

	server := NewServer(nil, "localhost", 5123, logger)
	server.SetupRouter(
		&config.Config{},
		credentialHTTP.NewCredentialHandler(store, "test-host", 5123, logger),
		gatewayHTTP.NewGatewayHandler(gateway, logger),
		store,
		metricsProvider,
		"test_app",
	)

	return server, store, gateway
}

func serve(server *Server, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	server.GetHandler().ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
}

func TestReadinessHandler(t *testing.T) {
	t.Run("NotReady_NilDB", func(t *testing.T) {
		server := createTestServer()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not_ready", response["status"])

		components, ok := response["components"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "error", components["database"])
	})

	t.Run("Ready", func(t *testing.T) {
		db := testutil.SetupSQLiteDB(t)
		defer testutil.TeardownDB(t, db)

		server := NewServer(db, "localhost", 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready","components":{"database":"ok"}}`, w.Body.String())
	})

	t.Run("NotReady_ClosedDB", func(t *testing.T) {
		db := testutil.SetupSQLiteDB(t)
		require.NoError(t, db.Close())

		server := NewServer(db, "localhost", 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})
	router.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "MissingApiKey"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/test", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Equal(t, w.Header().Get("X-Request-Id"), entry["request_id"])

	buf.Reset()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_HealthAndRequestID(t *testing.T) {
	server, _, _ := createFullServer(t, nil)

	w := serve(server, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)

	parsed, err := uuid.Parse(w.Header().Get("X-Request-Id"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestRouter_Status(t *testing.T) {
	server, store, _ := createFullServer(t, nil)
	store.On("Exists", mock.Anything).Return(false, nil).Once()

	w := serve(server, http.MethodGet, "/status", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"server":"test-host","port":5123,"hasApiKey":false}`, w.Body.String())
}

func TestRouter_APIKeyLifecycle(t *testing.T) {
	server, store, _ := createFullServer(t, nil)
	store.On("Save", mock.Anything, "ABCD-1234").Return(nil).Once()
	store.On("Exists", mock.Anything).Return(true, nil).Once()
	store.On("Delete", mock.Anything).Return(nil).Once()

	w := serve(server, http.MethodPost, "/apikey", `{"key":"ABCD-1234"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hasApiKey":true}`, w.Body.String())

	w = serve(server, http.MethodGet, "/apikey", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hasApiKey":true}`, w.Body.String())

	w = serve(server, http.MethodDelete, "/apikey", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hasApiKey":false}`, w.Body.String())

	store.AssertExpectations(t)
}

func TestRouter_SaveBlankKeyRejected(t *testing.T) {
	server, store, _ := createFullServer(t, nil)

	w := serve(server, http.MethodPost, "/apikey", `{"key":"  "}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRouter_ForwardMissingCredential(t *testing.T) {
	server, store, gateway := createFullServer(t, nil)
	store.On("Exists", mock.Anything).Return(false, nil).Once()

	w := serve(server, http.MethodGet, "/gw2/account/wallet", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "MissingApiKey", body["error"])
	assert.NotEmpty(t, body["howTo"])
	gateway.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_Forward(t *testing.T) {
	server, store, gateway := createFullServer(t, nil)
	store.On("Exists", mock.Anything).Return(true, nil).Once()
	gateway.On("Fetch", mock.Anything, "/commerce/prices", "ids=19684").
		Return(&gatewayDomain.Response{
			Body:        `[{"id":19684}]`,
			ContentType: "application/json",
			StatusCode:  http.StatusOK,
		}, nil).
		Once()

	w := serve(server, http.MethodGet, "/gw2/commerce/prices?ids=19684", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `[{"id":19684}]`, w.Body.String())
}

func TestRouter_NotFoundEndpoint(t *testing.T) {
	server, _, _ := createFullServer(t, nil)

	w := serve(server, http.MethodGet, "/nonexistent", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_HTTPMetricsRecorded(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	server, _, _ := createFullServer(t, provider)
	serve(server, http.MethodGet, "/health", "")

	// The main router never exposes /metrics.
	w := serve(server, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "test_app_http_requests_total")
	assert.Contains(t, w.Body.String(), `path="/health"`)
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server := createTestServer()
	server.router = gin.New()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMetricsServer_Endpoints(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 0, logger, provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
