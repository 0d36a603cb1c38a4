package usecase

import (
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/domain/model/config"
)

type UseCases struct {
	repo        interfaces.Repository
	riskConfig  *config.RiskConfig
	voteOptions []VoteOption
	Permission  *PermissionUseCase
	Risk        *RiskUseCase
	Comment     *CommentUseCase
	Vote        *VoteUseCase
	Auth        AuthUseCaseInterface
}

type Option func(*UseCases)

func WithRiskConfig(cfg *config.RiskConfig) Option {
	return func(uc *UseCases) {
		uc.riskConfig = cfg
	}
}

func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

func WithVoteOptions(opts ...VoteOption) Option {
	return func(uc *UseCases) {
		uc.voteOptions = append(uc.voteOptions, opts...)
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Permission = NewPermissionUseCase(repo)
	uc.Risk = NewRiskUseCase(repo, uc.riskConfig, uc.Permission)
	uc.Comment = NewCommentUseCase(repo, uc.Permission)
	uc.Vote = NewVoteUseCase(repo, uc.Permission, uc.voteOptions...)

	return uc
}
