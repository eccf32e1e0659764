package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRegistry(t *testing.T) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "genbridge_test_total", Help: "test"})
	c.Add(3)
	reg.MustRegister(c)
	return reg
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig(":9091")
	assert.Equal(t, ":9091", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.ReadHeaderTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestHandler_Routes(t *testing.T) {
	h := Handler(testRegistry(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "genbridge_test_total 3")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestManager_StartAndShutdown(t *testing.T) {
	m := NewManager(testRegistry(t), DefaultConfig("127.0.0.1:0"), zap.NewNop())
	require.NoError(t, m.Start())
	assert.NotEqual(t, "127.0.0.1:0", m.Addr())

	resp, err := http.Get("http://" + m.Addr() + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "genbridge_test_total")

	assert.EqualError(t, m.Start(), "server already started")
	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))
	assert.EqualError(t, m.Start(), "server is closed")
}

func TestManager_ListenFailure(t *testing.T) {
	first := NewManager(testRegistry(t), DefaultConfig("127.0.0.1:0"), nil)
	require.NoError(t, first.Start())
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	second := NewManager(testRegistry(t), DefaultConfig(first.Addr()), nil)
	err := second.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestManager_ShutdownWithoutStart(t *testing.T) {
	m := NewManager(testRegistry(t), DefaultConfig(":0"), nil)
	assert.NoError(t, m.Shutdown(context.Background()))
}
