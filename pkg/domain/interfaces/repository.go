package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Risk() RiskRepository
	Comment() CommentRepository
	User() UserRepository

	Close() error
}
