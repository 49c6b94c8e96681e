package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-accounts/internal/identity"
)

func protectedProbe(resolved **identity.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, _ := identity.FromContext(r.Context())
		*resolved = ident
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	tokens := NewJWTService([]byte("test-secret"))
	mw := NewMiddleware(tokens, newFakeIdentities())

	var resolved *identity.Identity
	handler := mw.RequireAuth(protectedProbe(&resolved))

	req := httptest.NewRequest(http.MethodGet, "/customers/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, resolved, "profile must not be read")
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	tokens := NewJWTService([]byte("test-secret"))
	mw := NewMiddleware(tokens, newFakeIdentities())

	var resolved *identity.Identity
	handler := mw.RequireAuth(protectedProbe(&resolved))

	for _, header := range []string{"Bearer", "Token abc", "Bearer a b c"} {
		req := httptest.NewRequest(http.MethodGet, "/customers/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
	assert.Nil(t, resolved)
}

func TestRequireAuth_ResolvesIdentity(t *testing.T) {
	tokens := NewJWTService([]byte("test-secret"))
	identities := newFakeIdentities()
	identities.byUsername["a@b.com"] = &identity.Identity{ID: 7, Username: "a@b.com"}
	mw := NewMiddleware(tokens, identities)

	token, err := tokens.Issue("a@b.com", 15*time.Minute)
	require.NoError(t, err)

	var resolved *identity.Identity
	handler := mw.RequireAuth(protectedProbe(&resolved))

	req := httptest.NewRequest(http.MethodGet, "/customers/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resolved)
	assert.Equal(t, "a@b.com", resolved.Username)
}

func TestRequireAuth_RemovedIdentity(t *testing.T) {
	tokens := NewJWTService([]byte("test-secret"))
	mw := NewMiddleware(tokens, newFakeIdentities())

	// Valid signature, but the subject no longer exists in the store
	token, err := tokens.Issue("gone@b.com", 15*time.Minute)
	require.NoError(t, err)

	var resolved *identity.Identity
	handler := mw.RequireAuth(protectedProbe(&resolved))

	req := httptest.NewRequest(http.MethodGet, "/customers/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, resolved)
}

func TestRequireAuth_StoreFailure(t *testing.T) {
	tokens := NewJWTService([]byte("test-secret"))
	identities := newFakeIdentities()
	identities.getErr = errors.New("connection reset")
	mw := NewMiddleware(tokens, identities)

	token, err := tokens.Issue("a@b.com", 15*time.Minute)
	require.NoError(t, err)

	var resolved *identity.Identity
	handler := mw.RequireAuth(protectedProbe(&resolved))

	req := httptest.NewRequest(http.MethodGet, "/customers/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// A database blip must not read as an auth failure
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Nil(t, resolved)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	tokens := NewJWTService([]byte("test-secret"))
	identities := newFakeIdentities()
	identities.byUsername["a@b.com"] = &identity.Identity{ID: 7, Username: "a@b.com"}
	mw := NewMiddleware(tokens, identities)

	token, err := tokens.Issue("a@b.com", -time.Minute)
	require.NoError(t, err)

	var resolved *identity.Identity
	handler := mw.RequireAuth(protectedProbe(&resolved))

	req := httptest.NewRequest(http.MethodGet, "/customers/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
	assert.Nil(t, resolved)
}
