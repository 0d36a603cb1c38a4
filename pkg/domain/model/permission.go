package model

import "github.com/secmon-lab/riskhub/pkg/domain/types"

// Decision is the outcome of a permission evaluation together with the rule that produced it
type Decision struct {
	Allowed bool
	Rule    types.Rule
}

func allow(rule types.Rule) Decision { return Decision{Allowed: true, Rule: rule} }
func deny(rule types.Rule) Decision  { return Decision{Allowed: false, Rule: rule} }

// Evaluate decides whether user may perform action on risk. Rules are checked in order and
// the first match wins:
//
//  1. no user: deny
//  2. admin: allow
//  3. author: allow
//  4. confidential and not an authorized viewer: deny
//  5. department set and different from the user's: deny
//  6. read: allow
//  7. update or delete: deny
//
// Confidentiality is checked before department so a same-department user still cannot see a
// confidential risk without being on the allow-list.
func Evaluate(user *User, risk *Risk, action types.Action) Decision {
	if user == nil {
		return deny(types.RuleUnauthenticated)
	}
	if user.Role.IsAdmin() {
		return allow(types.RuleAdmin)
	}
	if risk.AuthorID == user.ID {
		return allow(types.RuleAuthor)
	}
	if risk.IsConfidential && !risk.IsAuthorizedViewer(user.ID) {
		return deny(types.RuleConfidential)
	}
	if risk.Department != "" && risk.Department != user.Department {
		return deny(types.RuleDepartment)
	}
	if action == types.ActionRead {
		return allow(types.RuleRead)
	}
	return deny(types.RuleMutationRestricted)
}

// CanPerform is the boolean form of Evaluate
func CanPerform(user *User, risk *Risk, action types.Action) bool {
	return Evaluate(user, risk, action).Allowed
}
