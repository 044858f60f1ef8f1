package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
)

type ContractorPostgreSQL struct {
	db *gorm.DB
}

func NewContractorPostgreSQL(db *gorm.DB) repositories.ContractorRepository {
	return &ContractorPostgreSQL{db: db}
}

func (r *ContractorPostgreSQL) Create(ctx context.Context, contractor *models.Contractor) error {
	if err := r.db.WithContext(ctx).Create(contractor).Error; err != nil {
		return fmt.Errorf("failed to create contractor: %w", err)
	}
	return nil
}

func (r *ContractorPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Contractor, error) {
	var contractor models.Contractor
	err := r.db.WithContext(ctx).Preload("User").First(&contractor, id).Error
	if err != nil {
		return nil, err
	}
	return &contractor, nil
}

func (r *ContractorPostgreSQL) GetByUser(ctx context.Context, userID uint) (*models.Contractor, error) {
	var contractor models.Contractor
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&contractor).Error
	if err != nil {
		return nil, err
	}
	return &contractor, nil
}

func (r *ContractorPostgreSQL) Delete(ctx context.Context, contractor *models.Contractor) error {
	if err := r.db.WithContext(ctx).Delete(contractor).Error; err != nil {
		return fmt.Errorf("failed to delete contractor: %w", err)
	}
	return nil
}

func (r *ContractorPostgreSQL) ListPending(ctx context.Context) ([]*models.Contractor, error) {
	return r.listByEnabled(ctx, false)
}

func (r *ContractorPostgreSQL) ListApproved(ctx context.Context) ([]*models.Contractor, error) {
	return r.listByEnabled(ctx, true)
}

func (r *ContractorPostgreSQL) listByEnabled(ctx context.Context, enabled bool) ([]*models.Contractor, error) {
	var contractors []*models.Contractor
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN citizens ON citizens.id = contractors.user_id").
		Where("citizens.enabled = ? AND citizens.role = ?", enabled, models.RoleContractor).
		Find(&contractors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contractors: %w", err)
	}
	return contractors, nil
}
