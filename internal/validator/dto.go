package validator

import (
	"github.com/stephen4599/Civic-resolve/internal/models"
)

// SignupRequest represents the registration form. Contractor signups carry
// the assigned-area and specialization fields for the pending profile.
type SignupRequest struct {
	Username string           `json:"username" validate:"required,min=3,max=20"`
	Email    string           `json:"email" validate:"required,email,max=50"`
	Password string           `json:"password" validate:"required,min=6,max=40"`
	Role     *models.UserRole `json:"role" validate:"omitempty,user_role"`

	FullName    string `json:"fullName" validate:"required,full_name"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone_number"`
	Address     string `json:"address" validate:"required"`

	AssignedArea   string `json:"assignedArea" validate:"omitempty,max=100"`
	Specialization string `json:"specialization" validate:"omitempty,max=100"`

	CaptchaID     string `json:"captchaId" validate:"required"`
	CaptchaAnswer string `json:"captchaAnswer" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// IssueCreateRequest carries the decoded multipart fields of a new report.
type IssueCreateRequest struct {
	Description   string               `validate:"required"`
	Address       string               `validate:"required,max=500"`
	Pincode       string               `validate:"required,pincode"`
	Category      models.IssueCategory `validate:"required,issue_category"`
	OtherCategory string               `validate:"omitempty,max=100"`
	Latitude      float64              `validate:"latitude"`
	Longitude     float64              `validate:"longitude"`
	Image         *models.ImageUpload
}

// IssueUpdateRequest mirrors creation; the image is replaced only when a new
// one is supplied.
type IssueUpdateRequest struct {
	Description   string               `validate:"required"`
	Address       string               `validate:"required,max=500"`
	Pincode       string               `validate:"required,pincode"`
	Category      models.IssueCategory `validate:"required,issue_category"`
	OtherCategory string               `validate:"omitempty,max=100"`
	Latitude      float64              `validate:"latitude"`
	Longitude     float64              `validate:"longitude"`
	Image         *models.ImageUpload
}

// IssueStatusRequest is the triage/remediation update from an admin or
// contractor.
type IssueStatusRequest struct {
	Status      models.IssueStatus `validate:"required,issue_status"`
	Remark      *string            `validate:"omitempty,max=1000"`
	BeforeImage *models.ImageUpload
	AfterImage  *models.ImageUpload
}

type FeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
	IssueID uint   `json:"issueId" validate:"required"`
}

type UpgradeContractorRequest struct {
	AssignedArea   string `json:"assignedArea" validate:"required,max=100"`
	Specialization string `json:"specialization" validate:"omitempty,max=100"`
}
