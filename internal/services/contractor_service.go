package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stephen4599/Civic-resolve/internal/events"
	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
)

type contractorService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewContractorService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) ContractorService {
	return &contractorService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *contractorService) ListPending(ctx context.Context) ([]*ContractorResponse, error) {
	contractors, err := s.repo.Contractor().ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending contractors: %w", err)
	}
	return mapContractors(contractors), nil
}

func (s *contractorService) ListApproved(ctx context.Context) ([]*ContractorResponse, error) {
	contractors, err := s.repo.Contractor().ListApproved(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved contractors: %w", err)
	}
	return mapContractors(contractors), nil
}

// Approve flips the contractor's backing user to enabled, making login
// possible, and sends exactly one approval email.
func (s *contractorService) Approve(ctx context.Context, contractorID uint) (*ContractorResponse, error) {
	s.logger.Info("Approving contractor", "contractor_id", contractorID)

	contractor, err := s.getContractor(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, contractor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load contractor user: %w", err)
	}

	user.Enabled = true
	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to enable contractor user: %w", err)
	}
	contractor.User = *user

	s.publish(ctx, &events.NotificationEvent{
		Type:      events.EventContractorApproved,
		Recipient: user.Email,
		Username:  user.Username,
	})

	s.logger.Info("Contractor approved", "contractor_id", contractorID, "user_id", user.ID)
	return mapContractor(contractor), nil
}

// Delete rejects a contractor application: the rejection email is dispatched
// first, then the profile and the login record are removed in one
// transaction so a failure cannot leave a dangling user.
func (s *contractorService) Delete(ctx context.Context, contractorID uint) error {
	s.logger.Info("Deleting contractor", "contractor_id", contractorID)

	contractor, err := s.getContractor(ctx, contractorID)
	if err != nil {
		return err
	}

	user, err := s.repo.User().GetByID(ctx, contractor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load contractor user: %w", err)
	}

	s.publish(ctx, &events.NotificationEvent{
		Type:      events.EventContractorRejected,
		Recipient: user.Email,
		Username:  user.Username,
	})

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Contractor().Delete(ctx, contractor); err != nil {
			return fmt.Errorf("failed to delete contractor profile: %w", err)
		}
		if err := txRepo.User().Delete(ctx, user); err != nil {
			return fmt.Errorf("failed to delete contractor user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Contractor deleted", "contractor_id", contractorID, "user_id", user.ID)
	return nil
}

// ===== HELPERS =====

func (s *contractorService) getContractor(ctx context.Context, id uint) (*models.Contractor, error) {
	contractor, err := s.repo.Contractor().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContractorNotFound
		}
		return nil, fmt.Errorf("failed to get contractor: %w", err)
	}
	return contractor, nil
}

func (s *contractorService) publish(ctx context.Context, event *events.NotificationEvent) {
	event.OccurredAt = time.Now()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish contractor event",
			"type", event.Type, "recipient", event.Recipient, "error", err)
	}
}

func mapContractor(c *models.Contractor) *ContractorResponse {
	return &ContractorResponse{
		ID:             c.ID,
		Username:       c.User.Username,
		Email:          c.User.Email,
		FullName:       c.FullName,
		PhoneNumber:    c.PhoneNumber,
		Address:        c.Address,
		AssignedArea:   c.AssignedArea,
		Specialization: c.Specialization,
		Enabled:        c.User.Enabled,
	}
}

func mapContractors(contractors []*models.Contractor) []*ContractorResponse {
	out := make([]*ContractorResponse, 0, len(contractors))
	for _, c := range contractors {
		out = append(out, mapContractor(c))
	}
	return out
}
