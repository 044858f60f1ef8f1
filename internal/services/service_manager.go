package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/stephen4599/Civic-resolve/internal/cache"
	"github.com/stephen4599/Civic-resolve/internal/events"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
	"github.com/stephen4599/Civic-resolve/internal/validator"
)

// ServiceManagerConfig holds the settings services need beyond their
// repository and bus dependencies.
type ServiceManagerConfig struct {
	JWTSecret     string
	JWTTTL        time.Duration
	PublicBaseURL string
	FrontendURL   string
}

// serviceManager implements ServiceManager
type serviceManager struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	issueService      IssueService
	authService       AuthService
	captchaService    CaptchaService
	contractorService ContractorService
	userService       UserService
	feedbackService   FeedbackService
	analyticsService  AnalyticsService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(repo repositories.Repository, cm *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		cache:     cm,
		publisher: publisher,
		logger:    logger,
		validator: v,
		config:    config,
	}
}

// Initialize wires up all services.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.captchaService = NewCaptchaService(sm.cache, sm.logger)
	sm.issueService = NewIssueService(sm.repo, sm.publisher, sm.logger, sm.validator, sm.config.PublicBaseURL, sm.config.FrontendURL)
	sm.authService = NewAuthService(sm.repo, sm.publisher, sm.captchaService, sm.logger, sm.validator, sm.config.JWTSecret, sm.config.JWTTTL)
	sm.contractorService = NewContractorService(sm.repo, sm.publisher, sm.logger)
	sm.userService = NewUserService(sm.repo, sm.logger, sm.validator)
	sm.feedbackService = NewFeedbackService(sm.repo, sm.logger, sm.validator)
	sm.analyticsService = NewAnalyticsService(sm.repo, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized")
	return nil
}

func (sm *serviceManager) ensureInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

func (sm *serviceManager) Issue() IssueService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.issueService
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.authService
}

func (sm *serviceManager) Captcha() CaptchaService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.captchaService
}

func (sm *serviceManager) Contractor() ContractorService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.contractorService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.userService
}

func (sm *serviceManager) Feedback() FeedbackService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.feedbackService
}

func (sm *serviceManager) Analytics() AnalyticsService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.ensureInitialized()
	return sm.analyticsService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	if repoManager, ok := sm.repo.(repositories.RepositoryManager); ok {
		if err := repoManager.Shutdown(ctx); err != nil {
			sm.logger.Error("Failed to shutdown repository manager", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")
	return nil
}
