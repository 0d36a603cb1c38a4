package interfaces

import (
	"context"

	"github.com/secmon-lab/riskhub/pkg/domain/model"
)

type RiskRepository interface {
	// Create stores a new risk with an auto-generated ID
	Create(ctx context.Context, risk *model.Risk) (*model.Risk, error)

	// Get retrieves a risk by ID. Returns model.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*model.Risk, error)

	// List retrieves all risks
	List(ctx context.Context) ([]*model.Risk, error)

	// Update replaces the mutable fields of an existing risk
	Update(ctx context.Context, risk *model.Risk) (*model.Risk, error)

	// Delete deletes a risk by ID
	Delete(ctx context.Context, id string) error
}
