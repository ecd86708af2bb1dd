package domain

import "context"

type principalKey struct{}

// ContextPrincipal carries the authenticated identity through request context.
// It is rebuilt on every request from the credential and the current account
// row, so IsAdmin reflects the account as it is now.
type ContextPrincipal struct {
	ID      string
	Name    string
	IsAdmin bool
}

// WithPrincipal stores a ContextPrincipal in the context.
func WithPrincipal(ctx context.Context, p ContextPrincipal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the ContextPrincipal from the context.
func PrincipalFromContext(ctx context.Context) (ContextPrincipal, bool) {
	p, ok := ctx.Value(principalKey{}).(ContextPrincipal)
	return p, ok
}
