package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	h := NewHealthHandler()

	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{
			name:           "GET returns 200",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "POST returns 405",
			method:         http.MethodPost,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestHealthHandler_ResponseFormat(t *testing.T) {
	h := NewHealthHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "ok", resp["status"])
	assert.Contains(t, resp, "timestamp")
	assert.Contains(t, resp, "uptime")
}

// mockChecker implements ReadinessChecker for testing
type mockChecker struct {
	err error
}

func (m *mockChecker) Ping(ctx context.Context) error {
	return m.err
}

func serveReady(t *testing.T, h *ReadyHandler) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestReadyHandler_ServeHTTP_AllReady(t *testing.T) {
	h := NewReadyHandler()
	h.AddChecker("discord", &mockChecker{err: nil})
	h.AddChecker("slack", &mockChecker{err: nil})

	code, resp := serveReady(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["ready"])

	checks := resp["checks"].(map[string]any)
	require.Len(t, checks, 2)
	for name, check := range checks {
		assert.Equal(t, true, check.(map[string]any)["ready"], name)
	}
}

func TestReadyHandler_ServeHTTP_SomeNotReady(t *testing.T) {
	h := NewReadyHandler()
	h.AddChecker("slack", &mockChecker{err: nil})
	h.AddChecker("discord", &mockChecker{err: errors.New("gateway session not ready")})

	code, resp := serveReady(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, false, resp["ready"])

	checks := resp["checks"].(map[string]any)

	slackCheck := checks["slack"].(map[string]any)
	assert.Equal(t, true, slackCheck["ready"])

	discordCheck := checks["discord"].(map[string]any)
	assert.Equal(t, false, discordCheck["ready"])
	assert.Equal(t, "gateway session not ready", discordCheck["error"])
}

func TestReadyHandler_ServeHTTP_NoCheckers(t *testing.T) {
	code, resp := serveReady(t, NewReadyHandler())

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["ready"])
}

func TestReadyHandler_MethodNotAllowed(t *testing.T) {
	h := NewReadyHandler()

	req := httptest.NewRequest(http.MethodPost, "/ready", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
