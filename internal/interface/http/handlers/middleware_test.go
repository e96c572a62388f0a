package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func adminHash(t *testing.T, key string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminKeyAuth_ValidKey(t *testing.T) {
	auth := NewAdminKeyAuth("X-Admin-Key", []string{adminHash(t, "secret")})
	require.True(t, auth.Enabled())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("X-Admin-Key", "secret")
	rec := httptest.NewRecorder()

	auth.Middleware(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminKeyAuth_BearerToken(t *testing.T) {
	auth := NewAdminKeyAuth("X-Admin-Key", []string{adminHash(t, "secret")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()

	auth.Middleware(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminKeyAuth_InvalidKey(t *testing.T) {
	auth := NewAdminKeyAuth("X-Admin-Key", []string{adminHash(t, "secret")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("X-Admin-Key", "wrong")
	rec := httptest.NewRecorder()

	auth.Middleware(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_admin_key")
}

func TestAdminKeyAuth_MissingKey(t *testing.T) {
	auth := NewAdminKeyAuth("X-Admin-Key", []string{adminHash(t, "secret")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	rec := httptest.NewRecorder()

	auth.Middleware(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_admin_key")
}

func TestAdminKeyAuth_NotConfigured(t *testing.T) {
	// Без настроенных хешей админский API закрыт, а не открыт.
	auth := NewAdminKeyAuth("X-Admin-Key", nil)
	assert.False(t, auth.Enabled())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("X-Admin-Key", "anything")
	rec := httptest.NewRecorder()

	auth.Middleware(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin_disabled")
}

func TestAdminKeyAuth_CachesVerifiedKey(t *testing.T) {
	auth := NewAdminKeyAuth("X-Admin-Key", []string{adminHash(t, "secret")})

	assert.True(t, auth.IsValid("secret"))
	// Повторная проверка идёт через кеш, результат тот же.
	assert.True(t, auth.IsValid("secret"))
	assert.False(t, auth.IsValid("wrong"))
	assert.False(t, auth.IsValid(""))
}

func TestAdminKeyAuth_MultipleHashes(t *testing.T) {
	auth := NewAdminKeyAuth("X-Admin-Key", []string{
		adminHash(t, "old-key"),
		adminHash(t, "new-key"),
	})

	assert.True(t, auth.IsValid("old-key"))
	assert.True(t, auth.IsValid("new-key"))

	auth.AddHash(adminHash(t, "третий"))
	assert.True(t, auth.IsValid("третий"))
}
