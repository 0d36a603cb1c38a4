package types

// StrategyType is the kind of action planned against a risk
type StrategyType string

const (
	StrategyAvoid    StrategyType = "avoid"
	StrategyMitigate StrategyType = "mitigate"
	StrategyTransfer StrategyType = "transfer"
	StrategyAccept   StrategyType = "accept"
)

// IsValid checks if the strategy type is valid. Empty means not decided yet.
func (s StrategyType) IsValid() bool {
	switch s {
	case "", StrategyAvoid, StrategyMitigate, StrategyTransfer, StrategyAccept:
		return true
	default:
		return false
	}
}
