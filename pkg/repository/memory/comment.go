package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
)

type commentEntry struct {
	comment  *model.Comment
	revision int64
}

func (e *commentEntry) rev() model.Revision {
	return model.Revision(strconv.FormatInt(e.revision, 10))
}

type commentRepository struct {
	mu       sync.RWMutex
	comments map[string]*commentEntry
}

func newCommentRepository() *commentRepository {
	return &commentRepository{
		comments: make(map[string]*commentEntry),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := &model.Comment{
		ID:        uuid.NewString(),
		RiskID:    comment.RiskID,
		AuthorID:  comment.AuthorID,
		Body:      comment.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.comments[created.ID] = &commentEntry{comment: created, revision: 1}
	return created.Copy(), nil
}

func (r *commentRepository) Get(ctx context.Context, id string) (*model.Comment, model.Revision, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.comments[id]
	if !exists {
		return nil, "", goerr.Wrap(ErrNotFound, "comment not found", goerr.V(model.CommentIDKey, id))
	}

	return entry.comment.Copy(), entry.rev(), nil
}

func (r *commentRepository) ListByRisk(ctx context.Context, riskID string) ([]*model.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var comments []*model.Comment
	for _, entry := range r.comments {
		if entry.comment.RiskID == riskID {
			comments = append(comments, entry.comment.Copy())
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	return comments, nil
}

func (r *commentRepository) UpdateVotes(ctx context.Context, comment *model.Comment, expected model.Revision) (*model.Comment, model.Revision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.comments[comment.ID]
	if !exists {
		return nil, "", goerr.Wrap(ErrNotFound, "comment not found", goerr.V(model.CommentIDKey, comment.ID))
	}
	if entry.rev() != expected {
		return nil, "", goerr.Wrap(model.ErrRevisionConflict, "comment was modified concurrently",
			goerr.V(model.CommentIDKey, comment.ID),
			goerr.V("expected", expected),
			goerr.V("actual", entry.rev()))
	}

	updated := entry.comment.Copy()
	updated.Upvotes = comment.Upvotes
	updated.Downvotes = comment.Downvotes
	updated.Voters = append(updated.Voters[:0:0], comment.Voters...)
	updated.UpdatedAt = time.Now().UTC()

	entry.comment = updated
	entry.revision++

	return updated.Copy(), entry.rev(), nil
}
