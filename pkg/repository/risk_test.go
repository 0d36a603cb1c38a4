package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
)

func runRiskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{
			AuthorID:          "U1",
			IsConfidential:    true,
			AuthorizedViewers: []string{"U2"},
			Department:        "Finance",
			Title:             "Vendor lock-in",
			Content:           "Single supplier for payment processing",
			Impact:            4,
			Probability:       2,
			Strategy:          model.Strategy{Type: types.StrategyMitigate, Detail: "Second supplier"},
		})
		gt.NoError(t, err).Required()

		gt.String(t, created.ID).NotEqual("")
		gt.Value(t, created.Status).Equal(types.RiskStatusOpen)
		gt.B(t, created.CreatedAt.IsZero()).False()

		retrieved, err := repo.Risk().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.AuthorID).Equal("U1")
		gt.B(t, retrieved.IsConfidential).True()
		gt.Value(t, retrieved.AuthorizedViewers).Equal([]string{"U2"})
		gt.Value(t, retrieved.Department).Equal("Finance")
		gt.Value(t, retrieved.Strategy.Type).Equal(types.StrategyMitigate)
		gt.Value(t, retrieved.Impact).Equal(4)
	})

	t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Risk().Get(context.Background(), "no-such-risk")
		gt.B(t, errors.Is(err, model.ErrNotFound)).True()
	})

	t.Run("Update keeps author and creation time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{AuthorID: "U1", Title: "Original"})
		gt.NoError(t, err).Required()

		time.Sleep(10 * time.Millisecond)

		updated, err := repo.Risk().Update(ctx, &model.Risk{
			ID:       created.ID,
			AuthorID: "attacker",
			Title:    "Updated",
			Status:   types.RiskStatusClosed,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, updated.AuthorID).Equal("U1")
		gt.Value(t, updated.Title).Equal("Updated")
		gt.Value(t, updated.Status).Equal(types.RiskStatusClosed)
		gt.B(t, updated.UpdatedAt.After(created.UpdatedAt)).True()
	})

	t.Run("Update returns ErrNotFound for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Risk().Update(context.Background(), &model.Risk{ID: "missing", Title: "x"})
		gt.B(t, errors.Is(err, model.ErrNotFound)).True()
	})

	t.Run("List and Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		r1, err := repo.Risk().Create(ctx, &model.Risk{AuthorID: "U1", Title: "one"})
		gt.NoError(t, err).Required()
		r2, err := repo.Risk().Create(ctx, &model.Risk{AuthorID: "U1", Title: "two"})
		gt.NoError(t, err).Required()

		risks, err := repo.Risk().List(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, risks).Length(2)

		gt.NoError(t, repo.Risk().Delete(ctx, r1.ID)).Required()
		risks, err = repo.Risk().List(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, risks).Length(1)
		gt.Value(t, risks[0].ID).Equal(r2.ID)

		err = repo.Risk().Delete(ctx, r1.ID)
		gt.B(t, errors.Is(err, model.ErrNotFound)).True()
	})
}
