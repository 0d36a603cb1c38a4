package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
)

func runCommentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create starts with an empty tally", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Comment().Create(ctx, &model.Comment{RiskID: "R1", AuthorID: "U1", Body: "first"})
		gt.NoError(t, err).Required()
		gt.String(t, created.ID).NotEqual("")

		got, rev, err := repo.Comment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.String(t, string(rev)).NotEqual("")
		gt.Value(t, got.Upvotes).Equal(0)
		gt.Value(t, got.Downvotes).Equal(0)
		gt.A(t, got.Voters).Length(0)
		gt.Value(t, got.Body).Equal("first")
	})

	t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		_, _, err := repo.Comment().Get(context.Background(), "missing")
		gt.B(t, errors.Is(err, model.ErrNotFound)).True()
	})

	t.Run("UpdateVotes succeeds with current revision", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Comment().Create(ctx, &model.Comment{RiskID: "R1", AuthorID: "U1", Body: "vote me"})
		gt.NoError(t, err).Required()

		current, rev, err := repo.Comment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		next, err := current.ApplyVote("U2", types.VoteUp)
		gt.NoError(t, err).Required()

		_, newRev, err := repo.Comment().UpdateVotes(ctx, next, rev)
		gt.NoError(t, err).Required()
		gt.Value(t, newRev == rev).Equal(false)

		stored, storedRev, err := repo.Comment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, storedRev).Equal(newRev)
		gt.Value(t, stored.Upvotes).Equal(1)
		gt.Value(t, stored.VoteOf("U2")).Equal(types.VoteUp)
	})

	t.Run("UpdateVotes rejects a stale revision", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Comment().Create(ctx, &model.Comment{RiskID: "R1", AuthorID: "U1", Body: "race"})
		gt.NoError(t, err).Required()

		base, rev, err := repo.Comment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()

		first, err := base.ApplyVote("A", types.VoteUp)
		gt.NoError(t, err).Required()
		second, err := base.ApplyVote("B", types.VoteUp)
		gt.NoError(t, err).Required()

		_, _, err = repo.Comment().UpdateVotes(ctx, first, rev)
		gt.NoError(t, err).Required()

		_, _, err = repo.Comment().UpdateVotes(ctx, second, rev)
		gt.B(t, errors.Is(err, model.ErrRevisionConflict)).True()

		stored, _, err := repo.Comment().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Upvotes).Equal(1)
		gt.Value(t, stored.VoteMap()).Equal(map[string]types.VoteType{"A": types.VoteUp})
	})

	t.Run("ListByRisk filters by risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, riskID := range []string{"R1", "R1", "R2"} {
			_, err := repo.Comment().Create(ctx, &model.Comment{RiskID: riskID, AuthorID: "U1", Body: "c"})
			gt.NoError(t, err).Required()
		}

		comments, err := repo.Comment().ListByRisk(ctx, "R1")
		gt.NoError(t, err).Required()
		gt.A(t, comments).Length(2)
		for _, c := range comments {
			gt.Value(t, c.RiskID).Equal("R1")
		}
	})
}
