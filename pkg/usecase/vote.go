package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
	"github.com/secmon-lab/riskhub/pkg/utils/logging"
)

const (
	DefaultVoteMaxAttempts = 5
	DefaultVoteBackoff     = 10 * time.Millisecond
	maxVoteBackoff         = 200 * time.Millisecond
)

type VoteUseCase struct {
	repo        interfaces.Repository
	permission  *PermissionUseCase
	maxAttempts int
	backoff     time.Duration
}

// VoteOption is a functional option for VoteUseCase
type VoteOption func(*VoteUseCase)

// WithMaxAttempts bounds the read-modify-write attempts of a single vote
func WithMaxAttempts(n int) VoteOption {
	return func(uc *VoteUseCase) {
		if n > 0 {
			uc.maxAttempts = n
		}
	}
}

// WithBackoff sets the initial wait between attempts after a revision conflict
func WithBackoff(d time.Duration) VoteOption {
	return func(uc *VoteUseCase) {
		if d >= 0 {
			uc.backoff = d
		}
	}
}

func NewVoteUseCase(repo interfaces.Repository, permission *PermissionUseCase, opts ...VoteOption) *VoteUseCase {
	uc := &VoteUseCase{
		repo:        repo,
		permission:  permission,
		maxAttempts: DefaultVoteMaxAttempts,
		backoff:     DefaultVoteBackoff,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// VoteInput is a vote request. VoterID is optional; when set it must match the
// authenticated user.
type VoteInput struct {
	CommentID string
	VoterID   string
	VoteType  string
}

// ApplyVote casts, switches or retracts user's vote on a comment and returns the resulting
// tally. The comment is updated with a write conditioned on the revision observed at read
// time; on conflict the whole read-compute-write cycle is retried up to the configured
// number of attempts, then ErrConflictExhausted is returned.
//
// Repeating the same vote retracts it, so a client that double submits ends with no vote.
func (uc *VoteUseCase) ApplyVote(ctx context.Context, user *model.User, input VoteInput) (tally *model.Tally, err error) {
	defer func() { observeVoteOutcome(err) }()

	vote, err := types.ParseVoteType(input.VoteType)
	if err != nil {
		return nil, goerr.Wrap(errors.Join(model.ErrInvalidInput, err), "invalid vote type")
	}
	if input.CommentID == "" {
		return nil, invalidInput("comment ID is required")
	}
	if user == nil {
		return nil, goerr.Wrap(model.ErrUnauthenticated, "authentication required to vote")
	}
	if input.VoterID != "" && input.VoterID != user.ID {
		return nil, goerr.Wrap(model.ErrPermissionDenied, "cannot vote on behalf of another user",
			goerr.V(model.RuleKey, types.RuleVoterIdentity),
			goerr.V(model.UserIDKey, user.ID),
			goerr.V("voter_id", input.VoterID))
	}

	ctxOpts := []goerr.Option{
		goerr.V(model.CommentIDKey, input.CommentID),
		goerr.V(model.UserIDKey, user.ID),
	}

	comment, rev, err := uc.repo.Comment().Get(ctx, input.CommentID)
	if err != nil {
		return nil, storeError(err, "failed to read comment", ctxOpts...)
	}

	// Voting requires read access to the parent risk
	if _, err := uc.permission.Authorize(ctx, user, comment.RiskID, types.ActionRead); err != nil {
		return nil, goerr.Wrap(err, "voter cannot read the risk of the comment", ctxOpts...)
	}

	attempts := 0
	operation := func() (*model.Tally, error) {
		attempts++
		if attempts > 1 {
			current, currentRev, getErr := uc.repo.Comment().Get(ctx, input.CommentID)
			if getErr != nil {
				return nil, backoff.Permanent(storeError(getErr, "failed to re-read comment", ctxOpts...))
			}
			comment, rev = current, currentRev
		}

		next, err := comment.ApplyVote(user.ID, vote)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		updated, _, err := uc.repo.Comment().UpdateVotes(ctx, next, rev)
		if err != nil {
			if errors.Is(err, model.ErrRevisionConflict) {
				voteConflicts.Inc()
				logging.From(ctx).Debug("vote revision conflict, retrying",
					"comment_id", input.CommentID,
					"attempt", attempts)
				return nil, err
			}
			return nil, backoff.Permanent(storeError(err, "failed to write votes", ctxOpts...))
		}
		return updated.Tally(), nil
	}

	tally, err = backoff.Retry(ctx, operation,
		backoff.WithBackOff(uc.newBackOff()),
		backoff.WithMaxTries(uint(uc.maxAttempts)),
	)
	if err != nil {
		if errors.Is(err, model.ErrRevisionConflict) {
			return nil, goerr.Wrap(errors.Join(model.ErrConflictExhausted, err), "vote conflicted on every attempt",
				append(ctxOpts, goerr.V(model.AttemptsKey, attempts))...)
		}
		return nil, goerr.Wrap(err, "failed to apply vote", ctxOpts...)
	}

	voteAttempts.Observe(float64(attempts))
	return tally, nil
}

func (uc *VoteUseCase) newBackOff() backoff.BackOff {
	if uc.backoff == 0 {
		return &backoff.ZeroBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = uc.backoff
	b.MaxInterval = max(maxVoteBackoff, uc.backoff)
	b.RandomizationFactor = 0.5
	b.Multiplier = 2
	return b
}
