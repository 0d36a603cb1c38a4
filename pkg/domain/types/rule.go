package types

// Rule identifies which access rule produced a permission decision. It is safe to expose to
// the caller: it never carries risk content.
type Rule string

const (
	RuleUnauthenticated    Rule = "unauthenticated"
	RuleAdmin              Rule = "admin"
	RuleAuthor             Rule = "author"
	RuleConfidential       Rule = "confidential"
	RuleDepartment         Rule = "department"
	RuleRead               Rule = "read"
	RuleMutationRestricted Rule = "mutation_restricted"
	RuleLookupFailed       Rule = "lookup_failed"
	RuleVoterIdentity      Rule = "voter_identity"
)

func (r Rule) String() string {
	return string(r)
}
