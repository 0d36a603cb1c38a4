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

func runUserRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and Get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		user := &model.User{ID: "U1", Name: "Alice", Email: "alice@example.com", Role: types.RoleAdmin, Department: "Finance"}
		gt.NoError(t, repo.User().Put(ctx, user)).Required()

		got, err := repo.User().Get(ctx, "U1")
		gt.NoError(t, err).Required()
		gt.Value(t, got).Equal(user)
	})

	t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.User().Get(context.Background(), "nobody")
		gt.B(t, errors.Is(err, model.ErrNotFound)).True()
	})

	t.Run("Put rejects empty ID", func(t *testing.T) {
		repo := newRepo(t)
		gt.Value(t, repo.User().Put(context.Background(), &model.User{Name: "anon"})).NotNil()
	})
}
