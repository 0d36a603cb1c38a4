package model

import (
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
)

// Risk is an identified risk and its disposition
type Risk struct {
	ID                string
	AuthorID          string
	IsConfidential    bool
	AuthorizedViewers []string // consulted only when IsConfidential is true
	Department        string   // empty means visible to every department
	Title             string
	Content           string `masq:"secret"`
	Impact            int
	Probability       int
	Strategy          Strategy
	Status            types.RiskStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Strategy is the planned action against a risk
type Strategy struct {
	Type   types.StrategyType
	Detail string `masq:"secret"`
}

// Validate checks the mutable fields of a risk
func (r *Risk) Validate() error {
	if r.Title == "" {
		return goerr.New("risk title is required")
	}
	if r.Impact < 0 || r.Impact > 5 {
		return goerr.New("impact must be between 0 and 5", goerr.V("impact", r.Impact))
	}
	if r.Probability < 0 || r.Probability > 5 {
		return goerr.New("probability must be between 0 and 5", goerr.V("probability", r.Probability))
	}
	if !r.Strategy.Type.IsValid() {
		return goerr.New("invalid strategy type", goerr.V("strategy", r.Strategy.Type))
	}
	if r.Status != "" && !r.Status.IsValid() {
		return goerr.New("invalid risk status", goerr.V("status", r.Status))
	}
	return nil
}

// IsAuthorizedViewer reports whether userID is on the explicit allow-list
func (r *Risk) IsAuthorizedViewer(userID string) bool {
	return slices.Contains(r.AuthorizedViewers, userID)
}

// Copy returns a deep copy of the risk
func (r *Risk) Copy() *Risk {
	c := *r
	c.AuthorizedViewers = slices.Clone(r.AuthorizedViewers)
	return &c
}
