package repositories

import "context"

// Repository aggregates every persistence interface the services depend on.
type Repository interface {
	Issue() IssueRepository
	User() UserRepository
	Contractor() ContractorRepository
	Feedback() FeedbackRepository

	// WithTransaction runs fn against a Repository bound to a single
	// database transaction.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager owns repository lifecycle: wiring, health and shutdown.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
