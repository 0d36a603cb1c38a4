package usecase

import "github.com/prometheus/client_golang/prometheus"

// Metrics are exported for testing
var (
	VoteConflictsCounter prometheus.Counter = voteConflicts
	PermissionDecisions                     = permissionDecisions
)

// MaxAttempts is exported for testing
func (uc *VoteUseCase) MaxAttempts() int {
	return uc.maxAttempts
}
