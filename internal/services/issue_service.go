package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stephen4599/Civic-resolve/internal/events"
	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
	"github.com/stephen4599/Civic-resolve/internal/validator"
)

// Image slot names accepted by GetImage.
const (
	ImageSlotReport = "image"
	ImageSlotBefore = "before"
	ImageSlotAfter  = "after"
)

type issueService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator

	// publicBaseURL prefixes the derived image-retrieval URLs,
	// frontendURL the feedback-form link in resolution emails.
	publicBaseURL string
	frontendURL   string
}

func NewIssueService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator, publicBaseURL, frontendURL string) IssueService {
	return &issueService{
		repo:          repo,
		publisher:     publisher,
		logger:        logger,
		validator:     v,
		publicBaseURL: publicBaseURL,
		frontendURL:   frontendURL,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *issueService) Create(ctx context.Context, req *CreateIssueRequest, reporterUsername string) (*models.IssueResponse, error) {
	s.logger.Info("Creating issue", "reporter", reporterUsername, "category", req.Category)

	if errs := s.validator.GetBusinessValidator().ValidateIssueCreate(req); len(errs) > 0 {
		return nil, errs
	}

	reporter, err := s.repo.User().GetByUsername(ctx, reporterUsername)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve reporter: %w", err)
	}

	issue := &models.Issue{
		Description:   req.Description,
		Address:       req.Address,
		Pincode:       req.Pincode,
		Category:      req.Category,
		OtherCategory: otherCategoryFor(req.Category, req.OtherCategory),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		UserID:        reporter.ID,
		User:          *reporter,
	}

	if req.Image != nil {
		issue.ImageData = req.Image.Data
		issue.ImageType = req.Image.ContentType
		issue.ImageName = req.Image.Filename
	}

	if err := s.repo.Issue().Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	s.publish(ctx, &events.NotificationEvent{
		Type:        events.EventIssueReported,
		Recipient:   reporter.Email,
		Username:    reporter.Username,
		IssueID:     issue.ID,
		Description: issue.Description,
	})

	s.logger.Info("Issue created", "issue_id", issue.ID, "status", issue.Status)
	return s.mapToResponse(issue), nil
}

func (s *issueService) Update(ctx context.Context, id uint, req *UpdateIssueRequest, callerUsername string) (*models.IssueResponse, error) {
	s.logger.Info("Updating issue", "issue_id", id, "caller", callerUsername)

	if errs := s.validator.GetBusinessValidator().ValidateIssueUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	issue, caller, err := s.getIssueAndCaller(ctx, id, callerUsername)
	if err != nil {
		return nil, err
	}

	if !s.canModify(issue, caller) {
		return nil, NewPermissionError(callerUsername, id, "issue", "update", "not reporter or admin")
	}

	// An issue under review or further along is immutable to edits.
	if issue.Status != models.StatusPending {
		return nil, NewStateError(id, issue.Status, "edited")
	}

	issue.Description = req.Description
	issue.Address = req.Address
	issue.Pincode = req.Pincode
	issue.Category = req.Category
	issue.OtherCategory = otherCategoryFor(req.Category, req.OtherCategory)
	issue.Latitude = req.Latitude
	issue.Longitude = req.Longitude

	// The existing image is retained unless a replacement is supplied.
	if req.Image != nil {
		issue.ImageData = req.Image.Data
		issue.ImageType = req.Image.ContentType
		issue.ImageName = req.Image.Filename
	}

	if err := s.repo.Issue().Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to update issue: %w", err)
	}

	return s.mapToResponse(issue), nil
}

func (s *issueService) Delete(ctx context.Context, id uint, callerUsername string) error {
	s.logger.Info("Deleting issue", "issue_id", id, "caller", callerUsername)

	issue, caller, err := s.getIssueAndCaller(ctx, id, callerUsername)
	if err != nil {
		return err
	}

	if !s.canModify(issue, caller) {
		return NewPermissionError(callerUsername, id, "issue", "delete", "not reporter or admin")
	}

	// In-flight work may not be deleted by the citizen; admins may delete
	// in any state.
	if caller.Role != models.RoleAdmin &&
		(issue.Status == models.StatusVerified || issue.Status == models.StatusInProgress) {
		return NewStateError(id, issue.Status, "deleted")
	}

	if err := s.repo.Issue().Delete(ctx, issue); err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}

	s.logger.Info("Issue deleted", "issue_id", id)
	return nil
}

func (s *issueService) GetByID(ctx context.Context, id uint) (*models.IssueResponse, error) {
	issue, err := s.getIssue(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mapToResponse(issue), nil
}

// ===== LIST OPERATIONS =====

func (s *issueService) GetAll(ctx context.Context) ([]*models.IssueResponse, error) {
	issues, err := s.repo.Issue().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return s.mapAll(issues), nil
}

func (s *issueService) GetUserIssues(ctx context.Context, username string) ([]*models.IssueResponse, error) {
	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	issues, err := s.repo.Issue().ListByReporter(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user issues: %w", err)
	}
	return s.mapAll(issues), nil
}

func (s *issueService) GetContractorIssues(ctx context.Context, username string) ([]*models.IssueResponse, error) {
	user, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	contractor, err := s.repo.Contractor().GetByUser(ctx, user.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContractorNotFound
		}
		return nil, fmt.Errorf("failed to resolve contractor profile: %w", err)
	}

	issues, err := s.repo.Issue().ListByContractor(ctx, contractor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contractor issues: %w", err)
	}
	return s.mapAll(issues), nil
}

// ===== LIFECYCLE OPERATIONS =====

func (s *issueService) UpdateStatus(ctx context.Context, id uint, req *UpdateIssueStatusRequest) (*models.IssueResponse, error) {
	s.logger.Info("Updating issue status", "issue_id", id, "status", req.Status)

	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	issue, err := s.getIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanTransition(issue.Status, req.Status) {
		return nil, NewTransitionError(id, issue.Status, req.Status)
	}

	issue.Status = req.Status
	if req.Remark != nil {
		issue.Remark = *req.Remark
	}
	if req.BeforeImage != nil {
		issue.BeforeImageData = req.BeforeImage.Data
		issue.BeforeImageType = req.BeforeImage.ContentType
		issue.BeforeImageName = req.BeforeImage.Filename
	}
	if req.AfterImage != nil {
		issue.AfterImageData = req.AfterImage.Data
		issue.AfterImageType = req.AfterImage.ContentType
		issue.AfterImageName = req.AfterImage.Filename
	}

	if err := s.repo.Issue().Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to update issue status: %w", err)
	}

	s.notifyStatusChange(ctx, issue)

	return s.mapToResponse(issue), nil
}

func (s *issueService) AssignContractor(ctx context.Context, issueID, contractorID uint) (*models.IssueResponse, error) {
	s.logger.Info("Assigning contractor", "issue_id", issueID, "contractor_id", contractorID)

	issue, err := s.getIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}

	// Assignment only applies to verified work or an in-progress
	// re-assignment; terminal and unreviewed issues cannot be bound.
	if issue.Status != models.StatusVerified && issue.Status != models.StatusInProgress {
		return nil, NewStateError(issueID, issue.Status, "assigned")
	}

	contractor, err := s.repo.Contractor().GetByID(ctx, contractorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrContractorNotFound
		}
		return nil, fmt.Errorf("failed to resolve contractor: %w", err)
	}

	// Assignment is the one writer that bypasses the transition table:
	// binding a contractor always leaves the issue IN_PROGRESS.
	issue.ContractorID = &contractor.ID
	issue.Contractor = contractor
	issue.Status = models.StatusInProgress

	if err := s.repo.Issue().Update(ctx, issue); err != nil {
		return nil, fmt.Errorf("failed to assign contractor: %w", err)
	}

	s.logger.Info("Contractor assigned", "issue_id", issueID, "contractor_id", contractorID)
	return s.mapToResponse(issue), nil
}

// ===== IMAGE RETRIEVAL =====

func (s *issueService) GetImage(ctx context.Context, id uint, slot string) (*models.IssueImage, error) {
	issue, err := s.getIssue(ctx, id)
	if err != nil {
		return nil, err
	}

	var img models.IssueImage
	switch slot {
	case ImageSlotBefore:
		img = models.IssueImage{Data: issue.BeforeImageData, ContentType: issue.BeforeImageType, Filename: issue.BeforeImageName}
	case ImageSlotAfter:
		img = models.IssueImage{Data: issue.AfterImageData, ContentType: issue.AfterImageType, Filename: issue.AfterImageName}
	default:
		img = models.IssueImage{Data: issue.ImageData, ContentType: issue.ImageType, Filename: issue.ImageName}
	}

	if len(img.Data) == 0 {
		return nil, ErrImageNotFound
	}
	return &img, nil
}

// ===== NOTIFICATION FAN-OUT =====

// notifyStatusChange dispatches at most one notification per status write.
// Sends are best-effort and never roll back the state change.
func (s *issueService) notifyStatusChange(ctx context.Context, issue *models.Issue) {
	switch issue.Status {
	case models.StatusResolved:
		event := &events.NotificationEvent{
			Type:        events.EventIssueResolved,
			Recipient:   issue.User.Email,
			Username:    issue.User.Username,
			IssueID:     issue.ID,
			Description: issue.Description,
			Link:        fmt.Sprintf("%s/feedback?issueId=%d", s.frontendURL, issue.ID),
		}
		if len(issue.BeforeImageData) > 0 {
			event.Attachments = append(event.Attachments, events.Attachment{
				Name:        issue.BeforeImageName,
				ContentType: issue.BeforeImageType,
				Data:        issue.BeforeImageData,
			})
		}
		if len(issue.AfterImageData) > 0 {
			event.Attachments = append(event.Attachments, events.Attachment{
				Name:        issue.AfterImageName,
				ContentType: issue.AfterImageType,
				Data:        issue.AfterImageData,
			})
		}
		s.publish(ctx, event)

	case models.StatusRejected:
		s.publish(ctx, &events.NotificationEvent{
			Type:        events.EventIssueRejected,
			Recipient:   issue.User.Email,
			Username:    issue.User.Username,
			IssueID:     issue.ID,
			Description: issue.Description,
			Remark:      issue.Remark,
		})

	case models.StatusInProgress:
		// Send-back-for-improvement signal: only when a remark was written
		// and a contractor is bound.
		if issue.Remark != "" && issue.Contractor != nil {
			s.publish(ctx, &events.NotificationEvent{
				Type:        events.EventIssueReassigned,
				Recipient:   issue.Contractor.User.Email,
				Username:    issue.Contractor.User.Username,
				IssueID:     issue.ID,
				Description: issue.Description,
				Remark:      issue.Remark,
			})
		}
	}
}

func (s *issueService) publish(ctx context.Context, event *events.NotificationEvent) {
	event.OccurredAt = time.Now()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish notification event",
			"type", event.Type, "issue_id", event.IssueID, "error", err)
	}
}

// ===== HELPERS =====

func (s *issueService) getIssue(ctx context.Context, id uint) (*models.Issue, error) {
	issue, err := s.repo.Issue().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrIssueNotFound
		}
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	return issue, nil
}

func (s *issueService) getIssueAndCaller(ctx context.Context, id uint, username string) (*models.Issue, *models.Users, error) {
	issue, err := s.getIssue(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	caller, err := s.repo.User().GetByUsername(ctx, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to resolve caller: %w", err)
	}

	return issue, caller, nil
}

// canModify implements the ownership rule shared by update and delete:
// only the original reporter or an admin may touch an issue.
func (s *issueService) canModify(issue *models.Issue, caller *models.Users) bool {
	return issue.UserID == caller.ID || caller.Role == models.RoleAdmin
}

func otherCategoryFor(category models.IssueCategory, other string) string {
	if category == models.CategoryOther {
		return other
	}
	return ""
}

func (s *issueService) mapAll(issues []*models.Issue) []*models.IssueResponse {
	out := make([]*models.IssueResponse, 0, len(issues))
	for _, issue := range issues {
		out = append(out, s.mapToResponse(issue))
	}
	return out
}

// mapToResponse replaces raw image bytes with derived retrieval URLs and the
// owning-user relation with the reporter's username.
func (s *issueService) mapToResponse(issue *models.Issue) *models.IssueResponse {
	resp := &models.IssueResponse{
		ID:            issue.ID,
		Description:   issue.Description,
		Address:       issue.Address,
		Pincode:       issue.Pincode,
		Category:      issue.Category,
		OtherCategory: issue.OtherCategory,
		Latitude:      issue.Latitude,
		Longitude:     issue.Longitude,
		Status:        issue.Status,
		Remark:        issue.Remark,
		ReportedBy:    issue.User.Username,
		ContractorID:  issue.ContractorID,
		CreatedAt:     issue.CreatedAt,
		UpdatedAt:     issue.UpdatedAt,
	}

	if len(issue.ImageData) > 0 {
		resp.ImagePath = s.imageURL(issue.ID, "")
	}
	if len(issue.BeforeImageData) > 0 {
		resp.BeforeImagePath = s.imageURL(issue.ID, "/before")
	}
	if len(issue.AfterImageData) > 0 {
		resp.AfterImagePath = s.imageURL(issue.ID, "/after")
	}

	return resp
}

func (s *issueService) imageURL(id uint, suffix string) *string {
	url := fmt.Sprintf("%s/api/issues/%d/image%s", s.publicBaseURL, id, suffix)
	return &url
}
