package testutil

import (
	"context"

	"icare/internal/domain"
)

// As returns a background context carrying a principal with the given id.
func As(id string) context.Context {
	return domain.WithPrincipal(context.Background(), domain.ContextPrincipal{ID: id, Name: id})
}

// AsAdmin returns a background context carrying an administrator.
func AsAdmin(id string) context.Context {
	return domain.WithPrincipal(context.Background(), domain.ContextPrincipal{ID: id, Name: id, IsAdmin: true})
}

// Anonymous returns a context without a principal.
func Anonymous() context.Context {
	return context.Background()
}
