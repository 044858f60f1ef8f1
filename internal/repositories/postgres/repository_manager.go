package postgres

import (
	"context"
	"fmt"

	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
)

// Manager wires the repository aggregate and owns its lifecycle.
type Manager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) *Manager {
	return &Manager{config: config}
}

// Initialize migrates the schema and builds the repository aggregate.
func (m *Manager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database handle is required")
	}

	if err := m.config.DB.AutoMigrate(
		&models.Users{},
		&models.Contractor{},
		&models.Issue{},
		&models.Feedback{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	m.repo = NewPostgreSQLRepository(m.config)
	return nil
}

func (m *Manager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repositories not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *Manager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
