package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stephen4599/Civic-resolve/internal/cache"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface.
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	issue      repositories.IssueRepository
	user       repositories.UserRepository
	contractor repositories.ContractorRepository
	feedback   repositories.FeedbackRepository
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a repository aggregate with all
// sub-repositories bound to the given database handle.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	return newWithDB(config.DB, config.RedisClient, cache.NewCacheManager(config.RedisClient))
}

func newWithDB(db *gorm.DB, redisClient *redis.Client, cm *cache.CacheManager) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:           db,
		redisClient:  redisClient,
		cacheManager: cm,
		issue:        NewIssuePostgreSQL(db, cm),
		user:         NewUserPostgreSQL(db),
		contractor:   NewContractorPostgreSQL(db),
		feedback:     NewFeedbackPostgreSQL(db),
	}
}

func (r *PostgreSQLRepository) Issue() repositories.IssueRepository { return r.issue }

func (r *PostgreSQLRepository) User() repositories.UserRepository { return r.user }

func (r *PostgreSQLRepository) Contractor() repositories.ContractorRepository { return r.contractor }

func (r *PostgreSQLRepository) Feedback() repositories.FeedbackRepository { return r.feedback }

// WithTransaction runs fn against a Repository whose sub-repositories all
// share one database transaction.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newWithDB(tx, r.redisClient, r.cacheManager))
	})
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
