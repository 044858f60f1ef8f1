package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/stephen4599/Civic-resolve/internal/cache"
	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
)

type IssuePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewIssuePostgreSQL(db *gorm.DB, cm *cache.CacheManager) repositories.IssueRepository {
	return &IssuePostgreSQL{db: db, cacheManager: cm}
}

func (r *IssuePostgreSQL) Create(ctx context.Context, issue *models.Issue) error {
	if err := r.db.WithContext(ctx).Create(issue).Error; err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}
	cache.SafeDelete(ctx, r.cacheManager.Stats, categoryCountsKey)
	return nil
}

func (r *IssuePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Issue, error) {
	var issue models.Issue
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Contractor").
		Preload("Contractor.User").
		First(&issue, id).Error
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *IssuePostgreSQL) Update(ctx context.Context, issue *models.Issue) error {
	if err := r.db.WithContext(ctx).Save(issue).Error; err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	cache.SafeDelete(ctx, r.cacheManager.Stats, categoryCountsKey)
	return nil
}

func (r *IssuePostgreSQL) Delete(ctx context.Context, issue *models.Issue) error {
	if err := r.db.WithContext(ctx).Delete(issue).Error; err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	cache.SafeDelete(ctx, r.cacheManager.Stats, categoryCountsKey)
	return nil
}

func (r *IssuePostgreSQL) List(ctx context.Context) ([]*models.Issue, error) {
	var issues []*models.Issue
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Contractor").
		Order("created_at DESC").
		Find(&issues).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, nil
}

func (r *IssuePostgreSQL) ListByReporter(ctx context.Context, userID uint) ([]*models.Issue, error) {
	var issues []*models.Issue
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Contractor").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&issues).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list issues by reporter: %w", err)
	}
	return issues, nil
}

func (r *IssuePostgreSQL) ListByContractor(ctx context.Context, contractorID uint) ([]*models.Issue, error) {
	var issues []*models.Issue
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("contractor_id = ?", contractorID).
		Order("created_at DESC").
		Find(&issues).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list issues by contractor: %w", err)
	}
	return issues, nil
}

const categoryCountsKey = "issues:by-category"

// CountByCategory groups open and closed issues alike; the result is cached
// briefly because the admin dashboard polls it.
func (r *IssuePostgreSQL) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	var counts []models.CategoryCount
	err := r.cacheManager.Stats.CacheOrExecute(ctx, categoryCountsKey, &counts, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var dbCounts []models.CategoryCount
		err := r.db.WithContext(ctx).
			Model(&models.Issue{}).
			Select("category, COUNT(*) AS count").
			Group("category").
			Scan(&dbCounts).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count issues by category: %w", err)
		}
		return dbCounts, nil
	})
	return counts, err
}

func (r *IssuePostgreSQL) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Issue{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check issue existence: %w", err)
	}
	return count > 0, nil
}
