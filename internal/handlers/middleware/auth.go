package middleware

import (
	"context"
	"net/http"

	"github.com/boostbd/smmpanel/internal/handlers/render"
	"github.com/boostbd/smmpanel/internal/handlers/userctx"
	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/service/auth"
)

type authService interface {
	Auth(ctx context.Context, r *http.Request) (models.User, auth.Principal, error)
}

// AuthMiddleware resolves the bearer token and puts the ensured profile and
// principal into the request context. Requests without a valid token never
// reach the wrapped handler.
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, principal, err := as.Auth(r.Context(), r)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := userctx.New(r.Context(), user, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly rejects authenticated requests whose principal has no admin role.
// Must run after AuthMiddleware.
func AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, principal, ok := userctx.FromContext(r.Context())
			if !ok || !principal.IsAdmin() {
				render.ServiceError(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
