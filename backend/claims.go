package backend

import "context"

type claimsKeyType string

const claimsKey claimsKeyType = "backendClaims"

// Claims are the verified JWT claims of the caller, forwarded to the
// backend so its policies can evaluate auth.uid() and auth.role().
type Claims map[string]any

// Subject returns the "sub" claim.
func (c Claims) Subject() string {
	sub, _ := c["sub"].(string)
	return sub
}

// Role returns the Postgres role the claims ask for, "authenticated" by default.
func (c Claims) Role() string {
	if role, ok := c["role"].(string); ok && role != "" {
		return role
	}
	return "authenticated"
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok && claims != nil
}
