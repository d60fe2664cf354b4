package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/fkhayef/yatube/internal/auth"
	"github.com/fkhayef/yatube/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// IdentityKey is the context key for the authenticated identity
	IdentityKey ContextKey = "identity"
)

// IdentityProvider resolves the user behind a request, nil for anonymous
type IdentityProvider interface {
	Identify(r *http.Request) (*auth.Identity, error)
}

// Authenticate stores the request's identity in its context. Anonymous
// requests pass through; only a failed lookup stops the request.
func Authenticate(provider IdentityProvider, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := provider.Identify(r)
			if err != nil {
				logger.Error("failed to identify request", zap.Error(err))
				response.InternalError(w, "Failed to identify user")
				return
			}

			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentity extracts the identity from the request context, nil when anonymous
func GetIdentity(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(IdentityKey).(*auth.Identity)
	return identity
}
