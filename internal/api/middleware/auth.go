package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/playbypost/statecraft/internal/api/apierr"
	"github.com/playbypost/statecraft/internal/model"
)

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityHeader carries the caller's adapter-scoped identity, e.g. "telegram:12345"
const IdentityHeader = "X-Identity"

// AdapterToken creates middleware that validates the shared adapter token.
// If token is empty, all requests are allowed (local development).
func AdapterToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			presented := extractBearer(r)
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Identity creates middleware that requires the identity header and adds it to the context
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := strings.TrimSpace(r.Header.Get(IdentityHeader))
			if identity == "" {
				apierr.WriteError(w, apierr.NewInvalidRequestError("Missing "+IdentityHeader+" header"))
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, model.Identity(identity))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the identity from the context
func GetIdentity(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}

// MustGetIdentity retrieves the identity from the context, panicking if absent.
// Only call from handlers behind the Identity middleware.
func MustGetIdentity(ctx context.Context) model.Identity {
	identity, ok := GetIdentity(ctx)
	if !ok {
		panic("identity not found in context")
	}
	return identity
}

// extractBearer extracts a bearer token from the Authorization header
func extractBearer(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
