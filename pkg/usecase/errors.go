package usecase

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
)

// storeError wraps a repository failure. Not-found and revision conflicts keep their own
// kind; anything else becomes ErrStoreUnavailable while the original cause stays reachable
// through errors.Is.
func storeError(err error, msg string, opts ...goerr.Option) error {
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrRevisionConflict) {
		return goerr.Wrap(err, msg, opts...)
	}
	return goerr.Wrap(errors.Join(model.ErrStoreUnavailable, err), msg, opts...)
}

func invalidInput(msg string, opts ...goerr.Option) error {
	return goerr.Wrap(model.ErrInvalidInput, msg, opts...)
}
