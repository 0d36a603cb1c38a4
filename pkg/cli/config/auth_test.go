package config_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskhub/pkg/cli/config"
	"github.com/secmon-lab/riskhub/pkg/repository/memory"
	"github.com/secmon-lab/riskhub/pkg/usecase"
)

func TestAuth_Configure(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	t.Run("HMAC secret", func(t *testing.T) {
		uc, err := config.NewAuthForTest("s3cr3t", "", "").Configure(ctx, repo)
		gt.NoError(t, err).Required()
		_, ok := uc.(*usecase.AuthUseCase)
		gt.Bool(t, ok).True()
		gt.Bool(t, uc.IsNoAuthn()).False()
	})

	t.Run("no-auth", func(t *testing.T) {
		uc, err := config.NewAuthForTest("", "", "dev-user").Configure(ctx, repo)
		gt.NoError(t, err).Required()
		gt.Bool(t, uc.IsNoAuthn()).True()
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := config.NewAuthForTest("", "", "").Configure(ctx, repo)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})

	t.Run("ambiguous", func(t *testing.T) {
		_, err := config.NewAuthForTest("s3cr3t", "", "dev-user").Configure(ctx, repo)
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}

func TestRepository_Configure(t *testing.T) {
	ctx := context.Background()

	repo, err := config.NewRepositoryForTest("memory", "").Configure(ctx)
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Close())

	_, err = config.NewRepositoryForTest("firestore", "").Configure(ctx)
	gt.Value(t, err).NotNil()

	_, err = config.NewRepositoryForTest("sqlite", "").Configure(ctx)
	gt.Value(t, err).NotNil()
}
