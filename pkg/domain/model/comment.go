package model

import (
	"slices"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskhub/pkg/domain/types"
)

// Revision is an opaque token identifying the version of a stored comment observed at read
// time. Writes conditioned on a stale revision fail with ErrRevisionConflict.
type Revision string

// Voter is a single user's vote on a comment
type Voter struct {
	UserID string
	Vote   types.VoteType
}

// Comment is a discussion entry on a risk together with its vote tally
type Comment struct {
	ID        string
	RiskID    string
	AuthorID  string
	Body      string `masq:"secret"`
	Upvotes   int
	Downvotes int
	Voters    []Voter // at most one entry per user, sorted by UserID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Tally is the vote state of a comment returned to callers
type Tally struct {
	Upvotes   int
	Downvotes int
	Voters    []Voter
}

// Validate checks required fields of a new comment
func (c *Comment) Validate() error {
	if c.RiskID == "" {
		return goerr.New("risk ID is required")
	}
	if c.AuthorID == "" {
		return goerr.New("author ID is required")
	}
	if strings.TrimSpace(c.Body) == "" {
		return goerr.New("comment body is required")
	}
	return nil
}

// Copy returns a deep copy of the comment
func (c *Comment) Copy() *Comment {
	cp := *c
	cp.Voters = slices.Clone(c.Voters)
	return &cp
}

// VoteOf returns the current vote of userID, or "" if the user has not voted.
func (c *Comment) VoteOf(userID string) types.VoteType {
	if i, ok := c.voterIndex(userID); ok {
		return c.Voters[i].Vote
	}
	return ""
}

// VoteMap exposes voters as a mapping from user ID to vote
func (c *Comment) VoteMap() map[string]types.VoteType {
	m := make(map[string]types.VoteType, len(c.Voters))
	for _, v := range c.Voters {
		m[v.UserID] = v.Vote
	}
	return m
}

// Tally returns a snapshot of the vote state
func (c *Comment) Tally() *Tally {
	return &Tally{
		Upvotes:   c.Upvotes,
		Downvotes: c.Downvotes,
		Voters:    slices.Clone(c.Voters),
	}
}

func (c *Comment) voterIndex(userID string) (int, bool) {
	return slices.BinarySearchFunc(c.Voters, userID, func(v Voter, id string) int {
		return strings.Compare(v.UserID, id)
	})
}

// ApplyVote returns the comment state after userID casts vote. The receiver is not modified.
//
//	NoVote -> vote          : add voter, increment vote's counter
//	Up/Down -> same vote    : remove voter, decrement counter (toggle off)
//	Up/Down -> opposite vote: replace voter, move one count between counters
//
// The counters are recomputed from the voter list so the result always satisfies the tally
// invariant, even if the stored counters had drifted.
func (c *Comment) ApplyVote(userID string, vote types.VoteType) (*Comment, error) {
	if userID == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "user ID is required")
	}
	if !vote.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid vote type", goerr.V("vote_type", vote))
	}

	next := c.Copy()
	next.Normalize()

	i, found := next.voterIndex(userID)
	switch {
	case !found:
		next.Voters = slices.Insert(next.Voters, i, Voter{UserID: userID, Vote: vote})
	case next.Voters[i].Vote == vote:
		next.Voters = slices.Delete(next.Voters, i, i+1)
	default:
		next.Voters[i].Vote = vote
	}

	next.Upvotes, next.Downvotes = countVotes(next.Voters)
	return next, nil
}

// Normalize sorts voters, drops duplicate entries keeping the last one, and recomputes the
// counters. Used when loading documents written by older clients.
func (c *Comment) Normalize() {
	latest := make(map[string]types.VoteType, len(c.Voters))
	for _, v := range c.Voters {
		if v.UserID == "" || !v.Vote.IsValid() {
			continue
		}
		latest[v.UserID] = v.Vote
	}

	voters := make([]Voter, 0, len(latest))
	for id, vote := range latest {
		voters = append(voters, Voter{UserID: id, Vote: vote})
	}
	slices.SortFunc(voters, func(a, b Voter) int {
		return strings.Compare(a.UserID, b.UserID)
	})

	c.Voters = voters
	c.Upvotes, c.Downvotes = countVotes(voters)
}

// IsConsistent reports whether the counters match the voter list
func (c *Comment) IsConsistent() bool {
	up, down := countVotes(c.Voters)
	return up == c.Upvotes && down == c.Downvotes
}

func countVotes(voters []Voter) (up, down int) {
	for _, v := range voters {
		switch v.Vote {
		case types.VoteUp:
			up++
		case types.VoteDown:
			down++
		}
	}
	return up, down
}
