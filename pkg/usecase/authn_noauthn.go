package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
)

// NoAuthnUseCase authenticates every request as a fixed user (for development/testing)
type NoAuthnUseCase struct {
	repo   interfaces.Repository
	userID string
}

// NewNoAuthnUseCase creates a new NoAuthnUseCase acting as userID
func NewNoAuthnUseCase(repo interfaces.Repository, userID string) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		repo:   repo,
		userID: userID,
	}
}

// Authenticate ignores token and returns the configured user. If the user is not registered
// a plain user with that ID is returned.
func (uc *NoAuthnUseCase) Authenticate(ctx context.Context, token string) (*model.User, error) {
	user, err := uc.repo.User().Get(ctx, uc.userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return &model.User{ID: uc.userID, Name: uc.userID, Role: types.RoleUser}, nil
		}
		return nil, storeError(err, "failed to look up user", goerr.V(model.UserIDKey, uc.userID))
	}
	return user, nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
