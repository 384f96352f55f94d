package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/shiftlog/pkg/config"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

func testConfig() *config.Config {
	return &config.Config{
		Version:  "test-version",
		Env:      "test",
		Facility: config.FacilityConfig{Name: "Refinery 2", Timezone: "UTC"},
		Storage:  config.StorageConfig{Backend: config.StorageMemory},
	}
}

func TestHealthHandler_Health_MemoryBackend(t *testing.T) {
	handler := NewHealthHandler(testConfig(), nil, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var response HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "memory", response.Storage)
}

func TestHealthHandler_Health_DatabaseDown(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Backend = config.StoragePostgres
	handler := NewHealthHandler(cfg, &fakePinger{err: errors.New("dial tcp: connection refused")}, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var response HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "unavailable", response.Status)
	assert.Equal(t, "database unreachable", response.Error)
}

func TestHealthHandler_Health_DatabaseUp(t *testing.T) {
	handler := NewHealthHandler(testConfig(), &fakePinger{}, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthHandler_Ping(t *testing.T) {
	handler := NewHealthHandler(testConfig(), nil, zap.NewNop())

	rec := httptest.NewRecorder()
	handler.Ping(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var response PingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "shiftlog", response.Service)
	assert.Equal(t, "test-version", response.Version)
	assert.Equal(t, "Refinery 2", response.Facility)
	assert.Equal(t, "test", response.Environment)
}

func TestHealthHandler_RegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthHandler(testConfig(), nil, zap.NewNop()).RegisterRoutes(mux)

	for _, path := range []string{"/health", "/ping"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
