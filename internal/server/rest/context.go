package rest

import (
	"context"

	"github.com/dmitrijs2005/cinecollection/internal/common"
	"github.com/gofiber/fiber/v2"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID int64
	Email  string
}

type ctxKey string

const (
	identityKey ctxKey = "identity"

	// claimsLocal is the fiber Locals key holding *auth.Claims.
	claimsLocal = "claims"
)

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func identity(c *fiber.Ctx) (Identity, error) {
	id, ok := IdentityFromContext(c.UserContext())
	if !ok {
		return Identity{}, common.ErrUnauthorized
	}
	return id, nil
}
