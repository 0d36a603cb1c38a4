package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
)

type CommentUseCase struct {
	repo       interfaces.Repository
	permission *PermissionUseCase
}

func NewCommentUseCase(repo interfaces.Repository, permission *PermissionUseCase) *CommentUseCase {
	return &CommentUseCase{
		repo:       repo,
		permission: permission,
	}
}

// CreateComment posts a comment on a risk. Anyone who can read the risk may comment.
func (uc *CommentUseCase) CreateComment(ctx context.Context, user *model.User, riskID, body string) (*model.Comment, error) {
	if _, err := uc.permission.Authorize(ctx, user, riskID, types.ActionRead); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		RiskID:   riskID,
		AuthorID: user.ID,
		Body:     body,
	}
	if err := comment.Validate(); err != nil {
		return nil, goerr.Wrap(errors.Join(model.ErrInvalidInput, err), "invalid comment")
	}

	created, err := uc.repo.Comment().Create(ctx, comment)
	if err != nil {
		return nil, storeError(err, "failed to create comment", goerr.V(model.RiskIDKey, riskID))
	}
	return created, nil
}

// ListComments returns the comments of a risk in creation order
func (uc *CommentUseCase) ListComments(ctx context.Context, user *model.User, riskID string) ([]*model.Comment, error) {
	if _, err := uc.permission.Authorize(ctx, user, riskID, types.ActionRead); err != nil {
		return nil, err
	}

	comments, err := uc.repo.Comment().ListByRisk(ctx, riskID)
	if err != nil {
		return nil, storeError(err, "failed to list comments", goerr.V(model.RiskIDKey, riskID))
	}
	return comments, nil
}
