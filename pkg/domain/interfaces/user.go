package interfaces

import (
	"context"

	"github.com/secmon-lab/riskhub/pkg/domain/model"
)

type UserRepository interface {
	// Get retrieves a user by ID. Returns model.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*model.User, error)

	// Put creates or replaces a user
	Put(ctx context.Context, user *model.User) error
}
