package memory

import (
	"github.com/secmon-lab/riskhub/pkg/domain/interfaces"
	"github.com/secmon-lab/riskhub/pkg/domain/model"
)

// ErrNotFound is returned (wrapped) when a document does not exist
var ErrNotFound = model.ErrNotFound

type Memory struct {
	risk    *riskRepository
	comment *commentRepository
	user    *userRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		risk:    newRiskRepository(),
		comment: newCommentRepository(),
		user:    newUserRepository(),
	}
}

func (m *Memory) Risk() interfaces.RiskRepository {
	return m.risk
}

func (m *Memory) Comment() interfaces.CommentRepository {
	return m.comment
}

func (m *Memory) User() interfaces.UserRepository {
	return m.user
}

func (m *Memory) Close() error {
	return nil
}
