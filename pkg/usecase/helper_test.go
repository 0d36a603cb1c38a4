package usecase_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
	"github.com/secmon-lab/riskhub/pkg/repository/memory"
)

type fixture struct {
	repo *memory.Memory

	admin    *model.User
	author   *model.User
	peer     *model.User
	outsider *model.User

	risk         *model.Risk // Finance department, not confidential
	confidential *model.Risk // Finance department, confidential without viewers
	comment      *model.Comment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repo := memory.New()

	f := &fixture{
		repo:     repo,
		admin:    &model.User{ID: "U3", Name: "admin", Role: types.RoleAdmin},
		author:   &model.User{ID: "U1", Name: "author", Role: types.RoleUser, Department: "Finance"},
		peer:     &model.User{ID: "U2", Name: "peer", Role: types.RoleUser, Department: "Finance"},
		outsider: &model.User{ID: "U4", Name: "outsider", Role: types.RoleUser, Department: "Sales"},
	}
	for _, u := range []*model.User{f.admin, f.author, f.peer, f.outsider} {
		gt.NoError(t, repo.User().Put(ctx, u)).Required()
	}

	var err error
	f.risk, err = repo.Risk().Create(ctx, &model.Risk{
		AuthorID:    f.author.ID,
		Department:  "Finance",
		Title:       "Vendor lock-in",
		Content:     "single supplier for payment processing",
		Impact:      3,
		Probability: 2,
	})
	gt.NoError(t, err).Required()

	f.confidential, err = repo.Risk().Create(ctx, &model.Risk{
		AuthorID:       f.author.ID,
		Department:     "Finance",
		IsConfidential: true,
		Title:          "Pending acquisition",
		Impact:         5,
		Probability:    1,
	})
	gt.NoError(t, err).Required()

	f.comment, err = repo.Comment().Create(ctx, &model.Comment{
		RiskID:   f.risk.ID,
		AuthorID: f.author.ID,
		Body:     "we should qualify a second provider",
	})
	gt.NoError(t, err).Required()

	return f
}

// stubRepository overrides the comment repository of an underlying repository
type stubRepository struct {
	interfaces.Repository
	comments *stubComments
}

func (r *stubRepository) Comment() interfaces.CommentRepository {
	return r.comments
}

// stubComments counts reads and injects revision conflicts or failures into writes
type stubComments struct {
	interfaces.CommentRepository

	mu        sync.Mutex
	conflicts int // remaining injected conflicts, negative means always
	writeErr  error

	gets   atomic.Int32
	writes atomic.Int32
}

func newStubRepository(repo interfaces.Repository) *stubRepository {
	return &stubRepository{
		Repository: repo,
		comments:   &stubComments{CommentRepository: repo.Comment()},
	}
}

func (c *stubComments) Get(ctx context.Context, id string) (*model.Comment, model.Revision, error) {
	c.gets.Add(1)
	return c.CommentRepository.Get(ctx, id)
}

func (c *stubComments) UpdateVotes(ctx context.Context, comment *model.Comment, expected model.Revision) (*model.Comment, model.Revision, error) {
	c.writes.Add(1)

	c.mu.Lock()
	inject := c.conflicts != 0
	if c.conflicts > 0 {
		c.conflicts--
	}
	writeErr := c.writeErr
	c.mu.Unlock()

	if writeErr != nil {
		return nil, "", writeErr
	}
	if inject {
		return nil, "", goerr.Wrap(model.ErrRevisionConflict, "injected conflict")
	}
	return c.CommentRepository.UpdateVotes(ctx, comment, expected)
}
