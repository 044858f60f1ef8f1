package services

import (
	"errors"
	"fmt"

	"github.com/stephen4599/Civic-resolve/internal/models"
)

// ===== SENTINEL ERRORS =====

var (
	ErrIssueNotFound      = errors.New("issue not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrContractorNotFound = errors.New("contractor not found")
	ErrImageNotFound      = errors.New("image not found")
	ErrFeedbackNotFound   = errors.New("feedback not found")

	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrAdminExists        = errors.New("an admin account already exists")
	ErrInvalidCaptcha     = errors.New("captcha answer is invalid or expired")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrCannotBlockAdmin   = errors.New("admin accounts cannot be blocked")

	ErrRateLimited = errors.New("daily issue limit reached")
)

// ===== TYPED ERRORS =====

// PermissionError is returned when a caller fails an ownership or role check.
type PermissionError struct {
	Username string
	IssueID  uint
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s: %s",
		e.Username, e.Action, e.Resource, e.Reason)
}

func NewPermissionError(username string, issueID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		Username: username,
		IssueID:  issueID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// StateError is returned when an operation is attempted against an issue
// whose current status does not allow it.
type StateError struct {
	IssueID uint
	Status  models.IssueStatus
	Action  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid state: issue %d is %s and cannot be %s",
		e.IssueID, e.Status, e.Action)
}

func NewStateError(issueID uint, status models.IssueStatus, action string) *StateError {
	return &StateError{IssueID: issueID, Status: status, Action: action}
}

// TransitionError is returned by the lifecycle engine when a requested status
// change is not in the transition table.
type TransitionError struct {
	IssueID uint
	From    models.IssueStatus
	To      models.IssueStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: issue %d cannot move from %s to %s",
		e.IssueID, e.From, e.To)
}

func NewTransitionError(issueID uint, from, to models.IssueStatus) *TransitionError {
	return &TransitionError{IssueID: issueID, From: from, To: to}
}

// ===== CLASSIFICATION HELPERS =====

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrIssueNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrContractorNotFound) ||
		errors.Is(err, ErrImageNotFound) ||
		errors.Is(err, ErrFeedbackNotFound)
}

func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

func IsStateError(err error) bool {
	var se *StateError
	if errors.As(err, &se) {
		return true
	}
	var te *TransitionError
	return errors.As(err, &te)
}

func IsConflictError(err error) bool {
	return errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrAdminExists)
}

func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrAccountDisabled) ||
		errors.Is(err, ErrInvalidCaptcha)
}
