package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/stephen4599/Civic-resolve/internal/models"
)

var (
	pincodePattern  = regexp.MustCompile(`^\d{6}$`)
	phonePattern    = regexp.MustCompile(`^\d{10}$`)
	fullNamePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err, bv.getErrorMessage)
	}
	return nil
}

// ValidateIssueCreate validates issue creation business rules
func (bv *BusinessValidator) ValidateIssueCreate(req *IssueCreateRequest) ValidationErrors {
	var errors ValidationErrors
	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateCategoryRules(req.Category, req.OtherCategory)...)
	return errors
}

// ValidateIssueUpdate validates issue update business rules
func (bv *BusinessValidator) ValidateIssueUpdate(req *IssueUpdateRequest) ValidationErrors {
	var errors ValidationErrors
	errors = append(errors, bv.Validate(req)...)
	errors = append(errors, bv.validateCategoryRules(req.Category, req.OtherCategory)...)
	return errors
}

// validateCategoryRules enforces that the free-text category is supplied
// exactly when the closed enumeration does not apply.
func (bv *BusinessValidator) validateCategoryRules(category models.IssueCategory, otherCategory string) ValidationErrors {
	var errors ValidationErrors

	if category == models.CategoryOther && otherCategory == "" {
		errors = append(errors, ValidationError{
			Field:   "OtherCategory",
			Message: "other category description is required when category is OTHER",
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Indian 6-digit postal code
	bv.validate.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodePattern.MatchString(fl.Field().String())
	})

	// 10-digit phone number
	bv.validate.RegisterValidation("phone_number", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	// Letters and spaces only
	bv.validate.RegisterValidation("full_name", func(fl validator.FieldLevel) bool {
		return fullNamePattern.MatchString(fl.Field().String())
	})

	bv.validate.RegisterValidation("issue_category", func(fl validator.FieldLevel) bool {
		switch models.IssueCategory(fl.Field().String()) {
		case models.CategoryRoad, models.CategoryWater, models.CategorySanitation,
			models.CategoryElectricity, models.CategoryOther:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("issue_status", func(fl validator.FieldLevel) bool {
		switch models.IssueStatus(fl.Field().String()) {
		case models.StatusPending, models.StatusVerified, models.StatusInProgress,
			models.StatusResolved, models.StatusRejected:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		switch models.UserRole(fl.Field().String()) {
		case models.RoleCitizen, models.RoleContractor, models.RoleAdmin:
			return true
		}
		return false
	})
}

// getErrorMessage returns a readable message for a failed rule
func (bv *BusinessValidator) getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "pincode":
		return "must be a 6-digit pincode"
	case "phone_number":
		return "must be exactly 10 digits"
	case "full_name":
		return "must contain only letters and spaces"
	case "issue_category":
		return "is not a valid issue category"
	case "issue_status":
		return "is not a valid issue status"
	case "user_role":
		return "is not a valid role"
	case "latitude":
		return "must be a valid latitude"
	case "longitude":
		return "must be a valid longitude"
	default:
		return fmt.Sprintf("failed validation rule %s", fe.Tag())
	}
}
