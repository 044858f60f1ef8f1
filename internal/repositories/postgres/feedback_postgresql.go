package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
)

type FeedbackPostgreSQL struct {
	db *gorm.DB
}

func NewFeedbackPostgreSQL(db *gorm.DB) repositories.FeedbackRepository {
	return &FeedbackPostgreSQL{db: db}
}

func (r *FeedbackPostgreSQL) Create(ctx context.Context, feedback *models.Feedback) error {
	if err := r.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *FeedbackPostgreSQL) ListByIssue(ctx context.Context, issueID uint) ([]*models.Feedback, error) {
	var feedback []*models.Feedback
	err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("created_at DESC").
		Find(&feedback).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedback, nil
}
