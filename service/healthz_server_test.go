package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthzHandle(t *testing.T) {
	running := false
	h := NewHealthzServer("v1.2.3", func() bool { return running })

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp healthzResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "v1.2.3", resp.Version)
	assert.False(t, resp.Running)

	running = true
	rec = httptest.NewRecorder()
	h.handle(rec, req)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Running)
}

func TestHealthzNilStatusFunc(t *testing.T) {
	h := NewHealthzServer("dev", nil)

	rec := httptest.NewRecorder()
	h.handle(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var resp healthzResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Running)
}

func TestShutdownBeforeStart(t *testing.T) {
	assert.NoError(t, NewHealthzServer("dev", nil).Shutdown())
	assert.NoError(t, (&MetricsServer{}).Shutdown())
}
