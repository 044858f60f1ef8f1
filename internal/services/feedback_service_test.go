package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/validator"
)

func newFeedbackTestEnv() (*fakeRepository, FeedbackService) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := newFakeRepository()
	return repo, NewFeedbackService(repo, logger, validator.New())
}

func seedResolvedIssue(repo *fakeRepository) *models.Issue {
	alice := repo.addUser("alice", "alice@example.com", models.RoleCitizen, true)
	issue := &models.Issue{
		ID: 1, Description: "pothole", Status: models.StatusResolved,
		UserID: alice.ID, User: *alice,
	}
	repo.issues[issue.ID] = issue
	repo.nextIssueID = 1
	return issue
}

func TestFeedbackService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("RecordsAgainstExistingIssue", func(t *testing.T) {
		repo, svc := newFeedbackTestEnv()
		issue := seedResolvedIssue(repo)

		feedback, err := svc.Create(ctx, &FeedbackRequest{
			Rating:  4,
			Comment: "fixed within a week",
			IssueID: issue.ID,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if feedback.ID == 0 {
			t.Error("Expected feedback to be assigned an id")
		}
		if feedback.Rating != 4 || feedback.IssueID != issue.ID {
			t.Errorf("Unexpected feedback: %+v", feedback)
		}
	})

	t.Run("MissingIssueRejected", func(t *testing.T) {
		_, svc := newFeedbackTestEnv()

		_, err := svc.Create(ctx, &FeedbackRequest{Rating: 4, IssueID: 99})
		if err != ErrIssueNotFound {
			t.Fatalf("Expected ErrIssueNotFound, got %v", err)
		}
	})

	t.Run("RatingOutOfRangeRejected", func(t *testing.T) {
		repo, svc := newFeedbackTestEnv()
		issue := seedResolvedIssue(repo)

		_, err := svc.Create(ctx, &FeedbackRequest{Rating: 6, IssueID: issue.ID})
		if !validator.IsValidationError(err) {
			t.Fatalf("Expected validation error, got %v", err)
		}
	})
}

func TestFeedbackService_ListByIssue(t *testing.T) {
	ctx := context.Background()
	repo, svc := newFeedbackTestEnv()
	issue := seedResolvedIssue(repo)

	for _, rating := range []int{5, 3} {
		if _, err := svc.Create(ctx, &FeedbackRequest{Rating: rating, IssueID: issue.ID}); err != nil {
			t.Fatalf("Seed feedback failed: %v", err)
		}
	}

	feedbacks, err := svc.ListByIssue(ctx, issue.ID)
	if err != nil {
		t.Fatalf("ListByIssue failed: %v", err)
	}
	if len(feedbacks) != 2 {
		t.Errorf("Expected 2 feedback entries, got %d", len(feedbacks))
	}

	t.Run("MissingIssueRejected", func(t *testing.T) {
		if _, err := svc.ListByIssue(ctx, 99); err != ErrIssueNotFound {
			t.Fatalf("Expected ErrIssueNotFound, got %v", err)
		}
	})
}
