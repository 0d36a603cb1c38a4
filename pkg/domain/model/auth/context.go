package auth

import (
	"context"

	"github.com/secmon-lab/riskhub/pkg/domain/model"
)

type ctxUserKey struct{}

// ContextWithUser returns a copy of ctx carrying the authenticated user
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, user)
}

// UserFromContext returns the authenticated user, or nil when the request is anonymous.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(ctxUserKey{}).(*model.User)
	return user
}
