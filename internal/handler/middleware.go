package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"familynest/internal/auth"
	"familynest/internal/errors"
)

type claimsContextKey struct{}

// AuthMiddleware requires a valid bearer token and stores its claims on the
// request context.
func AuthMiddleware(tokens *auth.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) {
				writeError(w, errors.ErrUnauthorized)
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(header, prefix))
			if err != nil {
				writeError(w, errors.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the session claims set by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*auth.Claims)
	return claims, ok
}
