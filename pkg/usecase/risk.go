package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/model/config"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
)

type RiskUseCase struct {
	repo       interfaces.Repository
	riskConfig *config.RiskConfig
	permission *PermissionUseCase
}

func NewRiskUseCase(repo interfaces.Repository, cfg *config.RiskConfig, permission *PermissionUseCase) *RiskUseCase {
	return &RiskUseCase{
		repo:       repo,
		riskConfig: cfg,
		permission: permission,
	}
}

// RiskInput holds the caller supplied fields of a risk
type RiskInput struct {
	Title             string
	Content           string
	Impact            int
	Probability       int
	StrategyType      types.StrategyType
	StrategyDetail    string
	Status            types.RiskStatus
	Department        string
	IsConfidential    bool
	AuthorizedViewers []string
}

func (in RiskInput) apply(risk *model.Risk) {
	risk.Title = in.Title
	risk.Content = in.Content
	risk.Impact = in.Impact
	risk.Probability = in.Probability
	risk.Strategy = model.Strategy{Type: in.StrategyType, Detail: in.StrategyDetail}
	risk.Status = in.Status
	risk.Department = in.Department
	risk.IsConfidential = in.IsConfidential
	risk.AuthorizedViewers = in.AuthorizedViewers
}

func (uc *RiskUseCase) validate(risk *model.Risk) error {
	if err := risk.Validate(); err != nil {
		return goerr.Wrap(errors.Join(model.ErrInvalidInput, err), "invalid risk")
	}
	if !uc.riskConfig.HasDepartment(risk.Department) {
		return invalidInput("unknown department", goerr.V("department", risk.Department))
	}
	return nil
}

// CreateRisk stores a new risk authored by user
func (uc *RiskUseCase) CreateRisk(ctx context.Context, user *model.User, input RiskInput) (*model.Risk, error) {
	if user == nil {
		return nil, goerr.Wrap(model.ErrUnauthenticated, "authentication required to create a risk")
	}

	risk := &model.Risk{AuthorID: user.ID}
	input.apply(risk)
	if err := uc.validate(risk); err != nil {
		return nil, err
	}

	created, err := uc.repo.Risk().Create(ctx, risk)
	if err != nil {
		return nil, storeError(err, "failed to create risk", goerr.V(model.UserIDKey, user.ID))
	}
	return created, nil
}

// GetRisk returns the risk if user can read it
func (uc *RiskUseCase) GetRisk(ctx context.Context, user *model.User, id string) (*model.Risk, error) {
	return uc.permission.Authorize(ctx, user, id, types.ActionRead)
}

// ListRisks returns every risk user can read. Unreadable risks are omitted rather than
// reported.
func (uc *RiskUseCase) ListRisks(ctx context.Context, user *model.User) ([]*model.Risk, error) {
	if user == nil {
		return nil, goerr.Wrap(model.ErrUnauthenticated, "authentication required to list risks")
	}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list risks")
	}

	readable := make([]*model.Risk, 0, len(risks))
	for _, risk := range risks {
		if uc.permission.evaluate(ctx, user, risk, types.ActionRead).Allowed {
			readable = append(readable, risk)
		}
	}
	return readable, nil
}

// UpdateRisk replaces the mutable fields of a risk. The author and creation time never
// change.
func (uc *RiskUseCase) UpdateRisk(ctx context.Context, user *model.User, id string, input RiskInput) (*model.Risk, error) {
	existing, err := uc.permission.Authorize(ctx, user, id, types.ActionUpdate)
	if err != nil {
		return nil, err
	}

	risk := existing.Copy()
	input.apply(risk)
	if err := uc.validate(risk); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Risk().Update(ctx, risk)
	if err != nil {
		return nil, storeError(err, "failed to update risk", goerr.V(model.RiskIDKey, id))
	}
	return updated, nil
}

// DeleteRisk removes a risk. Comments of the risk are left in place and become unreachable
// through the API.
func (uc *RiskUseCase) DeleteRisk(ctx context.Context, user *model.User, id string) error {
	if _, err := uc.permission.Authorize(ctx, user, id, types.ActionDelete); err != nil {
		return err
	}

	if err := uc.repo.Risk().Delete(ctx, id); err != nil {
		return storeError(err, "failed to delete risk", goerr.V(model.RiskIDKey, id))
	}
	return nil
}
