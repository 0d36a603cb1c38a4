package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
	"github.com/secmon-lab/riskhub/pkg/usecase"
)

func TestCommentUseCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := usecase.New(f.repo).Comment

	t.Run("reader can comment", func(t *testing.T) {
		c, err := uc.CreateComment(ctx, f.peer, f.risk.ID, "agreed, budget for Q3")
		gt.NoError(t, err).Required()
		gt.Value(t, c.AuthorID).Equal(f.peer.ID)
		gt.Value(t, c.Upvotes).Equal(0)

		comments, err := uc.ListComments(ctx, f.peer, f.risk.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, comments).Length(2)
		gt.Value(t, comments[0].ID).Equal(f.comment.ID)
		gt.Value(t, comments[1].ID).Equal(c.ID)
	})

	t.Run("blank body", func(t *testing.T) {
		_, err := uc.CreateComment(ctx, f.peer, f.risk.ID, "   ")
		gt.Error(t, err).Is(model.ErrInvalidInput)
	})

	t.Run("confidential risk is closed to peers", func(t *testing.T) {
		_, err := uc.CreateComment(ctx, f.peer, f.confidential.ID, "hello")
		gt.Error(t, err).Is(model.ErrPermissionDenied)

		_, err = uc.ListComments(ctx, f.peer, f.confidential.ID)
		gt.Error(t, err).Is(model.ErrPermissionDenied)
		gt.Value(t, model.RuleOf(err)).Equal(types.RuleConfidential)
	})

	t.Run("unknown risk", func(t *testing.T) {
		_, err := uc.ListComments(ctx, f.peer, "missing")
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}
