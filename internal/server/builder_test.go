package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"gweb2api-go/internal/config"
	"gweb2api-go/internal/credential"
	"gweb2api-go/internal/stats"
)

type noopSession struct{}

func (noopSession) Generate(context.Context, string, string) (string, error) {
	return "pong", nil
}

func newTestEngine(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	creds := []*credential.Credential{
		credential.New("psid", "", "only", credential.DefaultMaxErrors),
	}
	pool, err := credential.NewPool(creds, func(context.Context, *credential.Credential) (credential.Session, error) {
		return noopSession{}, nil
	}, cfg.InitTimeout())
	require.NoError(t, err)
	return BuildEngine(cfg, Dependencies{Pool: pool, Usage: stats.NewRecorder()})
}

func TestEngineMountsAllRoutes(t *testing.T) {
	engine := newTestEngine(t, config.Defaults())

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/health"},
		{http.MethodGet, "/cookies/status"},
		{http.MethodGet, "/usage"},
		{http.MethodGet, "/v1/models"},
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(route.method, route.path, nil))
		require.Equal(t, http.StatusOK, w.Code, "%s %s", route.method, route.path)
	}
}

func TestEngineSetsRequestIDAndCORS(t *testing.T) {
	engine := newTestEngine(t, config.Defaults())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestEngineRateLimitWiring(t *testing.T) {
	cfg := config.Defaults()
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RPS = 1
	cfg.RateLimit.Burst = 1
	engine := newTestEngine(t, cfg)

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
}
