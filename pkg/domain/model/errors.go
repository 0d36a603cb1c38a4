package model

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
)

// Sentinel errors shared by the repository, use case and controller layers. Callers classify
// errors with errors.Is or KindOf, never by message.
var (
	ErrUnauthenticated   = goerr.New("authentication required")
	ErrNotFound          = goerr.New("not found")
	ErrPermissionDenied  = goerr.New("permission denied")
	ErrInvalidInput      = goerr.New("invalid input")
	ErrRevisionConflict  = goerr.New("revision conflict")
	ErrConflictExhausted = goerr.New("conflict retries exhausted")
	ErrStoreUnavailable  = goerr.New("store unavailable")
)

// Context keys for error values
const (
	RuleKey      = "rule"
	RiskIDKey    = "risk_id"
	CommentIDKey = "comment_id"
	UserIDKey    = "user_id"
	AttemptsKey  = "attempts"
)

// ErrorKind is the coarse classification of an error surfaced by the core
type ErrorKind string

const (
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindNotFound          ErrorKind = "not_found"
	KindPermissionDenied  ErrorKind = "permission_denied"
	KindInvalidInput      ErrorKind = "invalid_input"
	KindConflictExhausted ErrorKind = "conflict_exhausted"
	KindStoreUnavailable  ErrorKind = "store_unavailable"
	KindInternal          ErrorKind = "internal"
)

// Retryable reports whether the whole request may be retried by the caller
func (k ErrorKind) Retryable() bool {
	return k == KindConflictExhausted
}

// KindOf classifies err. A raw revision conflict is never expected outside the vote retry
// loop, so it maps to KindInternal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConflictExhausted):
		return KindConflictExhausted
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	default:
		return KindInternal
	}
}

// RuleOf returns the access rule attached to a permission error, or "" if there is none.
func RuleOf(err error) types.Rule {
	var ge *goerr.Error
	if !errors.As(err, &ge) {
		return ""
	}
	switch v := ge.Values()[RuleKey].(type) {
	case types.Rule:
		return v
	case string:
		return types.Rule(v)
	default:
		return ""
	}
}
