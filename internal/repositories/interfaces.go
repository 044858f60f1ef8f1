package repositories

import (
	"context"

	"github.com/stephen4599/Civic-resolve/internal/models"
)

type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	GetByID(ctx context.Context, id uint) (*models.Issue, error)
	Update(ctx context.Context, issue *models.Issue) error
	Delete(ctx context.Context, issue *models.Issue) error

	List(ctx context.Context) ([]*models.Issue, error)
	ListByReporter(ctx context.Context, userID uint) ([]*models.Issue, error)
	ListByContractor(ctx context.Context, contractorID uint) ([]*models.Issue, error)

	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.Users) error
	GetByID(ctx context.Context, id uint) (*models.Users, error)
	GetByUsername(ctx context.Context, username string) (*models.Users, error)
	GetByEmail(ctx context.Context, email string) (*models.Users, error)
	Update(ctx context.Context, user *models.Users) error
	Delete(ctx context.Context, user *models.Users) error
	List(ctx context.Context) ([]*models.Users, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByRole(ctx context.Context, role models.UserRole) (bool, error)
}

type ContractorRepository interface {
	Create(ctx context.Context, contractor *models.Contractor) error
	GetByID(ctx context.Context, id uint) (*models.Contractor, error)
	GetByUser(ctx context.Context, userID uint) (*models.Contractor, error)
	Delete(ctx context.Context, contractor *models.Contractor) error

	// ListPending returns profiles whose backing user is still disabled,
	// ListApproved the enabled ones.
	ListPending(ctx context.Context) ([]*models.Contractor, error)
	ListApproved(ctx context.Context) ([]*models.Contractor, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	ListByIssue(ctx context.Context, issueID uint) ([]*models.Feedback, error)
}
