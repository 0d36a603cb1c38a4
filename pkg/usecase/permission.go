package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
	"github.com/secmon-lab/riskhub/pkg/utils/logging"
)

type PermissionUseCase struct {
	repo interfaces.Repository
}

func NewPermissionUseCase(repo interfaces.Repository) *PermissionUseCase {
	return &PermissionUseCase{repo: repo}
}

// CanPerform loads the risk and evaluates whether user may perform action on it. When the
// risk cannot be loaded the decision is a deny with RuleLookupFailed and the lookup error
// (not found or store unavailable) is returned alongside, so callers can tell "does not
// exist" from "exists but forbidden". An anonymous caller is denied before any lookup.
func (uc *PermissionUseCase) CanPerform(ctx context.Context, user *model.User, riskID string, action types.Action) (model.Decision, error) {
	if user == nil {
		d := model.Decision{Allowed: false, Rule: types.RuleUnauthenticated}
		observeDecision(d)
		return d, nil
	}

	risk, err := uc.repo.Risk().Get(ctx, riskID)
	if err != nil {
		d := model.Decision{Allowed: false, Rule: types.RuleLookupFailed}
		observeDecision(d)
		return d, storeError(err, "failed to look up risk", goerr.V(model.RiskIDKey, riskID))
	}
	return uc.evaluate(ctx, user, risk, action), nil
}

// Authorize returns the risk if user may perform action on it. A deny becomes
// ErrUnauthenticated (no user) or ErrPermissionDenied carrying the rule that fired.
func (uc *PermissionUseCase) Authorize(ctx context.Context, user *model.User, riskID string, action types.Action) (*model.Risk, error) {
	if user == nil {
		d := model.Decision{Allowed: false, Rule: types.RuleUnauthenticated}
		observeDecision(d)
		return nil, denied(d, riskID, action)
	}
	if riskID == "" {
		return nil, invalidInput("risk ID is required")
	}

	risk, err := uc.repo.Risk().Get(ctx, riskID)
	if err != nil {
		observeDecision(model.Decision{Allowed: false, Rule: types.RuleLookupFailed})
		return nil, storeError(err, "failed to look up risk", goerr.V(model.RiskIDKey, riskID))
	}

	if err := uc.check(ctx, user, risk, action); err != nil {
		return nil, err
	}
	return risk, nil
}

// check evaluates an already loaded risk
func (uc *PermissionUseCase) check(ctx context.Context, user *model.User, risk *model.Risk, action types.Action) error {
	d := uc.evaluate(ctx, user, risk, action)
	if d.Allowed {
		return nil
	}
	return denied(d, risk.ID, action)
}

func (uc *PermissionUseCase) evaluate(ctx context.Context, user *model.User, risk *model.Risk, action types.Action) model.Decision {
	d := model.Evaluate(user, risk, action)
	observeDecision(d)

	userID := ""
	if user != nil {
		userID = user.ID
	}
	logging.From(ctx).Debug("permission evaluated",
		"user_id", userID,
		"risk_id", risk.ID,
		"action", action,
		"allowed", d.Allowed,
		"rule", d.Rule,
	)
	return d
}

func denied(d model.Decision, riskID string, action types.Action) error {
	if d.Rule == types.RuleUnauthenticated {
		return goerr.Wrap(model.ErrUnauthenticated, "authentication required",
			goerr.V(model.RuleKey, d.Rule))
	}
	return goerr.Wrap(model.ErrPermissionDenied, "action on risk is not permitted",
		goerr.V(model.RuleKey, d.Rule),
		goerr.V(model.RiskIDKey, riskID),
		goerr.V("action", action))
}
