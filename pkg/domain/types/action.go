package types

import "github.com/m-mizutani/goerr/v2"

// Action is an operation a user attempts on a risk record
type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// IsValid checks if the action is one of the known actions
func (a Action) IsValid() bool {
	switch a {
	case ActionRead, ActionUpdate, ActionDelete:
		return true
	default:
		return false
	}
}

// IsMutation reports whether the action modifies the risk record
func (a Action) IsMutation() bool {
	return a == ActionUpdate || a == ActionDelete
}

func (a Action) String() string {
	return string(a)
}

// ParseAction parses a string into an Action
func ParseAction(s string) (Action, error) {
	action := Action(s)
	if !action.IsValid() {
		return "", goerr.New("invalid action", goerr.V("action", s))
	}
	return action, nil
}
