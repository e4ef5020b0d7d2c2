package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservite/hotel-booking/internal/config"
)

func TestCacheEntryRoundTrip(t *testing.T) {
	status, body, ok := decodeEntry(encodeEntry(http.StatusOK, []byte(`{"id":1}`)))
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `{"id":1}`, string(body))

	_, _, ok = decodeEntry([]byte{0, 0})
	assert.False(t, ok, "a truncated entry must not be served")
}

func TestCacheKeySeparatesRoutes(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "resv"}
	key := func(method, path, query string) string {
		e := echo.New()
		req := httptest.NewRequest(method, path+"?"+query, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath(path)
		return cacheKey(cfg, c)
	}

	base := key(http.MethodGet, "/api/reservations/:id", "")
	assert.Equal(t, base, key(http.MethodGet, "/api/reservations/:id", ""), "deterministic")
	assert.NotEqual(t, base, key(http.MethodGet, "/api/reservations", ""))
	assert.NotEqual(t, base, key(http.MethodGet, "/api/reservations/:id", "full=1"))
	assert.Contains(t, base, "resv:")
}

func TestResponseCacheDisabledIsPassThrough(t *testing.T) {
	mw := NewResponseCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Cache"), "pass-through adds no cache headers")
}
