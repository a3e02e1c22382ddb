package bearer

import "context"

type contextKey string

const claimsKey contextKey = "bearer_claims"

// WithClaims guarda los claims en el contexto del request.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// FromContext recupera los claims. nil si el request no pasó por el
// middleware de auth.
func FromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}
