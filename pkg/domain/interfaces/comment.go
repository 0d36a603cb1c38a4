package interfaces

import (
	"context"

	"github.com/secmon-lab/riskhub/pkg/domain/model"
)

type CommentRepository interface {
	// Create stores a new comment with an auto-generated ID and an empty tally
	Create(ctx context.Context, comment *model.Comment) (*model.Comment, error)

	// Get retrieves a comment and the revision observed by this read.
	// Returns model.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*model.Comment, model.Revision, error)

	// ListByRisk retrieves comments of a risk ordered by creation time
	ListByRisk(ctx context.Context, riskID string) ([]*model.Comment, error)

	// UpdateVotes writes upvotes, downvotes and voters of comment only if the stored revision
	// still equals expected. Returns model.ErrRevisionConflict otherwise.
	UpdateVotes(ctx context.Context, comment *model.Comment, expected model.Revision) (*model.Comment, model.Revision, error)
}
