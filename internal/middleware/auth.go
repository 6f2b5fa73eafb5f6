// Package middleware provides the HTTP middleware stack of the note backend:
// request logging, CORS, body-size limits, and bearer-token authentication.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/macaria/backend/internal/auth"
	"github.com/macaria/backend/internal/domain"
)

// TokenVerifier is the slice of auth.Tokens the middleware needs.
// Defining it here lets tests inject a stub verifier.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// tenantCtxKey is the private context key for the caller's TenantContext.
type tenantCtxKey struct{}

// WithTenant returns a context carrying tc. Exposed for tests and for the
// websocket endpoint, which authenticates before the HTTP upgrade.
func WithTenant(ctx context.Context, tc domain.TenantContext) context.Context {
	return context.WithValue(ctx, tenantCtxKey{}, tc)
}

// TenantFrom extracts the TenantContext placed by NewAuth (or WithTenant).
func TenantFrom(ctx context.Context) (domain.TenantContext, bool) {
	tc, ok := ctx.Value(tenantCtxKey{}).(domain.TenantContext)
	return tc, ok
}

// NewAuth returns a middleware that requires a valid bearer token and stores
// the resulting TenantContext in the request context. Requests without a
// token, or with one that fails verification, get 401 before reaching any
// handler.
func NewAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			tc := domain.TenantContext{TenantID: claims.TenantID, UserID: claims.UserID}
			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tc)))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
