package services

import (
	"context"

	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateIssueRequest = validator.IssueCreateRequest
type UpdateIssueRequest = validator.IssueUpdateRequest
type UpdateIssueStatusRequest = validator.IssueStatusRequest
type SignupRequest = validator.SignupRequest
type LoginRequest = validator.LoginRequest
type FeedbackRequest = validator.FeedbackRequest
type UpgradeContractorRequest = validator.UpgradeContractorRequest

type ContractorResponse struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FullName       string `json:"fullName"`
	PhoneNumber    string `json:"phoneNumber"`
	Address        string `json:"address"`
	AssignedArea   string `json:"assignedArea"`
	Specialization string `json:"specialization"`
	Enabled        bool   `json:"enabled"`
}

type AnalyticsSummary struct {
	Total      int64                  `json:"total"`
	Categories []models.CategoryCount `json:"categories"`
}

// ===== SERVICE INTERFACES =====

type IssueService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *CreateIssueRequest, reporterUsername string) (*models.IssueResponse, error)
	Update(ctx context.Context, id uint, req *UpdateIssueRequest, callerUsername string) (*models.IssueResponse, error)
	Delete(ctx context.Context, id uint, callerUsername string) error
	GetByID(ctx context.Context, id uint) (*models.IssueResponse, error)

	// List operations
	GetAll(ctx context.Context) ([]*models.IssueResponse, error)
	GetUserIssues(ctx context.Context, username string) ([]*models.IssueResponse, error)
	GetContractorIssues(ctx context.Context, username string) ([]*models.IssueResponse, error)

	// Lifecycle operations
	UpdateStatus(ctx context.Context, id uint, req *UpdateIssueStatusRequest) (*models.IssueResponse, error)
	AssignContractor(ctx context.Context, issueID, contractorID uint) (*models.IssueResponse, error)

	// Image retrieval (slot is one of "image", "before", "after")
	GetImage(ctx context.Context, id uint, slot string) (*models.IssueImage, error)
}

type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*models.UserProfileResponse, error)
	Signin(ctx context.Context, req *LoginRequest) (*models.JwtResponse, error)
	GoogleLogin(ctx context.Context, accessToken string) (*models.JwtResponse, error)
}

type CaptchaService interface {
	Generate(ctx context.Context) (*models.CaptchaResponse, error)
	Validate(ctx context.Context, id, answer string) (bool, error)
}

type ContractorService interface {
	ListPending(ctx context.Context) ([]*ContractorResponse, error)
	ListApproved(ctx context.Context) ([]*ContractorResponse, error)
	Approve(ctx context.Context, contractorID uint) (*ContractorResponse, error)
	Delete(ctx context.Context, contractorID uint) error
}

type UserService interface {
	List(ctx context.Context) ([]*models.UserProfileResponse, error)
	Profile(ctx context.Context, username string) (*models.UserProfileResponse, error)
	Block(ctx context.Context, userID uint) error
	Enable(ctx context.Context, userID uint) error
	UpgradeToContractor(ctx context.Context, userID uint, req *UpgradeContractorRequest) (*ContractorResponse, error)
}

type FeedbackService interface {
	Create(ctx context.Context, req *FeedbackRequest) (*models.Feedback, error)
	ListByIssue(ctx context.Context, issueID uint) ([]*models.Feedback, error)
}

type AnalyticsService interface {
	CategoryCounts(ctx context.Context) (*AnalyticsSummary, error)
	Locations(ctx context.Context) ([]models.LocationPoint, error)
	ExportIssues(ctx context.Context) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Issue() IssueService
	Auth() AuthService
	Captcha() CaptchaService
	Contractor() ContractorService
	User() UserService
	Feedback() FeedbackService
	Analytics() AnalyticsService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
