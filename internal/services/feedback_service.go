package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
	"github.com/stephen4599/Civic-resolve/internal/validator"
)

type feedbackService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewFeedbackService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) FeedbackService {
	return &feedbackService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *feedbackService) Create(ctx context.Context, req *FeedbackRequest) (*models.Feedback, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Issue().Exists(ctx, req.IssueID)
	if err != nil {
		return nil, fmt.Errorf("failed to check issue: %w", err)
	}
	if !exists {
		return nil, ErrIssueNotFound
	}

	feedback := &models.Feedback{
		Rating:  req.Rating,
		Comment: req.Comment,
		IssueID: req.IssueID,
	}
	if err := s.repo.Feedback().Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	s.logger.Info("Feedback recorded", "issue_id", req.IssueID, "rating", req.Rating)
	return feedback, nil
}

func (s *feedbackService) ListByIssue(ctx context.Context, issueID uint) ([]*models.Feedback, error) {
	exists, err := s.repo.Issue().Exists(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to check issue: %w", err)
	}
	if !exists {
		return nil, ErrIssueNotFound
	}

	feedbacks, err := s.repo.Feedback().ListByIssue(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedbacks, nil
}
