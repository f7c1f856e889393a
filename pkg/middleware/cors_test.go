package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func corsRequest(t *testing.T, cfg CORSConfig, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/api/v1/storefront", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	}
	rr := httptest.NewRecorder()
	CORS(cfg)(okHandler()).ServeHTTP(rr, req)
	return rr
}

func TestCORS_DevMode_AllowsWildcard(t *testing.T) {
	rr := corsRequest(t, CORSConfig{Environment: "development"}, http.MethodGet, "https://shop.example")

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORS_ProdMode_AllowedOrigin(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"https://shop.example", "https://admin.example"}, Environment: "production"}

	for _, origin := range cfg.AllowedOrigins {
		rr := corsRequest(t, cfg, http.MethodGet, origin)
		assert.Equal(t, origin, rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rr.Header().Values("Vary"), "Origin")
	}
}

func TestCORS_ProdMode_RejectedOrigin(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"https://shop.example"}, Environment: "production"}
	rr := corsRequest(t, cfg, http.MethodGet, "https://evil.example")

	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORS_WildcardWithCredentialsEchoesOrigin(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true, Environment: "production"}
	rr := corsRequest(t, cfg, http.MethodGet, "https://shop.example")

	assert.Equal(t, "https://shop.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_Preflight_Returns204(t *testing.T) {
	rr := corsRequest(t, DefaultCORSConfig(), http.MethodOptions, "https://shop.example")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_PlainOptionsPassesThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rr := httptest.NewRecorder()
	CORS(DefaultCORSConfig())(okHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORS_DefaultHeaders(t *testing.T) {
	rr := corsRequest(t, CORSConfig{Environment: "development"}, http.MethodGet, "")

	assert.Equal(t, "Accept, Content-Type, X-Correlation-ID, X-Session-ID", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Empty(t, rr.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORS_DefaultConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{CorrelationHeader}, cfg.ExposedHeaders)
	assert.False(t, cfg.AllowCredentials)
}
