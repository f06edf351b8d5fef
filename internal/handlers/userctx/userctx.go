package userctx

import (
	"context"

	"github.com/boostbd/smmpanel/internal/models"
	"github.com/boostbd/smmpanel/internal/service/auth"
)

type ctxKey string

const userKey ctxKey = "user"

type authenticated struct {
	user      models.User
	principal auth.Principal
}

// Create a new context with the user and its principal
func New(ctx context.Context, u models.User, p auth.Principal) context.Context {
	return context.WithValue(ctx, userKey, authenticated{user: u, principal: p})
}

// Extract the user and its principal from the context
func FromContext(ctx context.Context) (models.User, auth.Principal, bool) {
	a, ok := ctx.Value(userKey).(authenticated)
	return a.user, a.principal, ok
}
