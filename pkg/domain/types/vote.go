package types

import "github.com/m-mizutani/goerr/v2"

// VoteType is the choice a voter casts on a comment
type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// IsValid checks if the vote type is exactly "up" or "down"
func (v VoteType) IsValid() bool {
	return v == VoteUp || v == VoteDown
}

func (v VoteType) String() string {
	return string(v)
}

// ParseVoteType parses a string into a VoteType. Matching is exact.
func ParseVoteType(s string) (VoteType, error) {
	vote := VoteType(s)
	if !vote.IsValid() {
		return "", goerr.New("vote type must be \"up\" or \"down\"", goerr.V("vote_type", s))
	}
	return vote, nil
}
