package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/art2002-alugu/infimobile-form/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Database.DSN = "file:" + filepath.Join(tmpDir, "test.db") + "?cache=shared&mode=rwc"
	cfg.Draft.Path = filepath.Join(tmpDir, "draft.json")
	cfg.Logging.Path = filepath.Join(tmpDir, "server.log")
	// Point the sinks at nothing routable; sheet failures are non-fatal
	cfg.Sheet.IntakeURL = "http://127.0.0.1:0/intake"
	cfg.Sheet.ContactURL = "http://127.0.0.1:0/contact"
	return cfg
}

func TestSetupServer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testConfig(t)
	srv, cleanup, err := SetupServer(cfg)
	require.NoError(t, err)
	require.NotNil(t, srv)
	defer cleanup()

	assert.Equal(t, ":8080", srv.Addr)
}

func TestSetupServerInvalidConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv, cleanup, err := SetupServer(nil)
	assert.Error(t, err)
	assert.Nil(t, srv)
	assert.Nil(t, cleanup)

	cfg := testConfig(t)
	cfg.Server.Port = 0
	srv, cleanup, err = SetupServer(cfg)
	assert.Error(t, err)
	assert.Nil(t, srv)
	assert.Nil(t, cleanup)
}

func TestSetupServerForceHTTPS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testConfig(t)
	cfg.Server.ForceHTTPS = true
	srv, cleanup, err := SetupServer(cfg)
	require.NoError(t, err)
	defer cleanup()

	// Plain HTTP requests get redirected before reaching any handler
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://example.com/health", nil)
	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "https://example.com/health", w.Header().Get("Location"))

	// Requests already terminated as HTTPS upstream pass through
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "http://example.com/health", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testConfig(t)
	srv, cleanup, err := SetupServer(cfg)
	require.NoError(t, err)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "infimobile-form-server", body["service"])
}

func TestIntakeFlowEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := testConfig(t)
	srv, cleanup, err := SetupServer(cfg)
	require.NoError(t, err)
	defer cleanup()

	putDraft := func(mdn, tsUpdate string) {
		payload, _ := json.Marshal(map[string]interface{}{"mdn": mdn, "tsUpdate": tsUpdate})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/intake/draft", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		srv.Handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// First submit creates a document (sheet sink failure is tolerated)
	putDraft("5551234567", "first contact")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/intake/submit", nil)
	srv.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"created"`)
	assert.Contains(t, w.Body.String(), "mdn_5551234567")

	// Second submit with the same key reconciles as a duplicate
	putDraft("5551234567", "second contact")
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/intake/submit", nil)
	srv.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"duplicate"`)

	// Confirming appends instead of creating a second record
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/intake/submit/confirm", nil)
	srv.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"appended"`)

	// Export carries both locally tracked submissions
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/intake/export.csv", nil)
	srv.Handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"5551234567"`)
}
