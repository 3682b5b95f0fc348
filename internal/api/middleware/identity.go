package middleware

import (
	"context"
	"net/http"

	"github.com/willianOliveira-dev/barber-app-sub000/internal/domain/entities"
)

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityMiddleware resolves the caller identity from the headers set by
// the API gateway. Requests without the headers proceed anonymously; it is
// each handler's job to reject operations that need a caller.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		role := entities.Role(r.Header.Get("X-User-Role"))
		if role != entities.RoleShopOwner {
			role = entities.RoleCustomer
		}

		ctx := ContextWithIdentity(r.Context(), entities.Identity{
			UserID: userID,
			Role:   role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ContextWithIdentity attaches a caller identity to the context
func ContextWithIdentity(ctx context.Context, identity entities.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the caller identity and whether one is set
func IdentityFromContext(ctx context.Context) (entities.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(entities.Identity)
	return identity, ok
}
