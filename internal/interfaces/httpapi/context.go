package httpapi

import (
	"context"

	"github.com/riskibarqy/fantasy-cards/internal/domain/user"
)

// Unexported key type keeps other packages from colliding with or reading
// the principal directly; handlers go through principalFromContext.
type contextKey string

const principalContextKey contextKey = "auth_principal"

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(user.Principal)
	return p, ok
}
