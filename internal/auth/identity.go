package auth

import (
	"context"

	"ecomstore/internal/model"
)

// Identity is the verified caller of a request.
type Identity struct {
	UserID int
	Name   string
	Role   model.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role.IsAdmin()
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
