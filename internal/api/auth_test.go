package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"shareit/internal/config"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serve(h http.Handler, method, path string, headers map[string]string) int {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestHTTPAuth(t *testing.T) {
	cfg := config.APIConfig{
		Auth: config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "X-API-Key",
			APIKeys: []config.APIClientKey{
				{Key: "reader", Permissions: []string{"read"}},
				{Key: "admin"},
			},
		},
	}
	h := NewHTTPAuth(cfg).Wrap(okHandler())

	t.Run("Success", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/users", map[string]string{"x-api-key": "reader"}))
	})

	t.Run("MissingKey", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodGet, "/users", nil))
	})

	t.Run("InvalidKey", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(h, http.MethodGet, "/users", map[string]string{"x-api-key": "nope"}))
	})

	t.Run("PermissionDenied", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, serve(h, http.MethodPost, "/users", map[string]string{"x-api-key": "reader"}))
	})

	t.Run("EmptyPermissionsAllowAll", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(h, http.MethodDelete, "/users/1", map[string]string{"x-api-key": "admin"}))
	})

	t.Run("ProbesSkipAuth", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/readyz", nil))
	})
}

func TestHTTPAuth_RateLimit(t *testing.T) {
	cfg := config.APIConfig{
		RateLimit: config.APIRateLimitConfig{RPS: 1, Burst: 1},
	}
	h := NewHTTPAuth(cfg).Wrap(okHandler())
	key1 := map[string]string{"x-api-key": "key1"}

	// First request - ok
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/users", key1))
	// Second request - blocked
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodGet, "/users", key1))
	// Other clients have their own bucket
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/users", map[string]string{"x-api-key": "key2"}))
}

func TestRequiredPermission(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{http.MethodGet, permRead},
		{http.MethodHead, permRead},
		{http.MethodPost, permWrite},
		{http.MethodPatch, permWrite},
		{http.MethodDelete, permWrite},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/items", nil)
		assert.Equal(t, tt.want, requiredPermission(req))
	}
}

func TestClientKey(t *testing.T) {
	a := NewHTTPAuth(config.APIConfig{})

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", a.clientKey(req))

	req.Header.Set("x-api-key", "k")
	assert.Equal(t, "k", a.clientKey(req))

	req = httptest.NewRequest(http.MethodGet, "/items", nil)
	req.RemoteAddr = "garbage"
	assert.Equal(t, clientKeyUnknown, a.clientKey(req))
}
