package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
	"github.com/stephen4599/Civic-resolve/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		logger:    logger,
		validator: v,
	}
}

func (s *userService) List(ctx context.Context) ([]*models.UserProfileResponse, error) {
	users, err := s.repo.User().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]*models.UserProfileResponse, 0, len(users))
	for _, u := range users {
		out = append(out, profileOf(u))
	}
	return out, nil
}

func (s *userService) Profile(ctx context.Context, username string) (*models.UserProfileResponse, error) {
	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return profileOf(user), nil
}

func (s *userService) Block(ctx context.Context, userID uint) error {
	s.logger.Info("Blocking user", "user_id", userID)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.Role == models.RoleAdmin {
		return ErrCannotBlockAdmin
	}

	user.Enabled = false
	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to block user: %w", err)
	}
	return nil
}

func (s *userService) Enable(ctx context.Context, userID uint) error {
	s.logger.Info("Enabling user", "user_id", userID)

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	user.Enabled = true
	if err := s.repo.User().Update(ctx, user); err != nil {
		return fmt.Errorf("failed to enable user: %w", err)
	}
	return nil
}

// UpgradeToContractor switches a citizen account to the contractor role and
// creates the matching profile in one transaction. The account stays enabled:
// the upgrade is an admin action, so no separate approval round is needed.
func (s *userService) UpgradeToContractor(ctx context.Context, userID uint, req *UpgradeContractorRequest) (*ContractorResponse, error) {
	s.logger.Info("Upgrading user to contractor", "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var contractor *models.Contractor
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user.Role = models.RoleContractor
		if err := txRepo.User().Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}

		contractor = &models.Contractor{
			UserID:         user.ID,
			AssignedArea:   req.AssignedArea,
			Specialization: req.Specialization,
			FullName:       user.FullName,
			PhoneNumber:    user.PhoneNumber,
			Address:        user.Address,
		}
		if err := txRepo.Contractor().Create(ctx, contractor); err != nil {
			return fmt.Errorf("failed to create contractor profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	contractor.User = *user
	return mapContractor(contractor), nil
}

func (s *userService) getUser(ctx context.Context, id uint) (*models.Users, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
