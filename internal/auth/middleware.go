package auth

import (
	"errors"
	"net/http"
	"strings"

	"customer-accounts/internal/httputil"
	"customer-accounts/internal/identity"
)

// Middleware resolves the session for protected routes: it extracts the
// bearer token, validates it, and loads the identity behind the subject. A
// valid token whose identity has since been removed is rejected the same way
// as a bad token.
type Middleware struct {
	tokens     TokenService
	identities identity.Repository
}

func NewMiddleware(tokens TokenService, identities identity.Repository) *Middleware {
	return &Middleware{tokens: tokens, identities: identities}
}

// RequireAuth validates the Authorization header and installs the resolved
// identity into the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}

		subject, err := m.tokens.Validate(parts[1])
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "could not validate credentials", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		ident, err := m.identities.GetByUsername(r.Context(), subject)
		if err != nil {
			if errors.Is(err, identity.ErrNotFound) {
				// Valid token, but the holder no longer exists
				httputil.RespondErrorWithCode(w, "could not validate credentials", httputil.CodeInvalidToken, http.StatusUnauthorized)
				return
			}
			// A store outage is not an auth failure
			httputil.RespondErrorWithCode(w, "could not resolve session identity", httputil.CodeStoreUnavailable, http.StatusServiceUnavailable)
			return
		}

		next.ServeHTTP(w, r.WithContext(identity.NewContext(r.Context(), ident)))
	})
}
