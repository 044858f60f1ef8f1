package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/services"
	"github.com/stephen4599/Civic-resolve/internal/utils"
)

type IssueHandler struct {
	BaseHandler
	issueService services.IssueService
}

func NewIssueHandler(issueService services.IssueService, logger utils.Logger) *IssueHandler {
	return &IssueHandler{
		BaseHandler:  NewBaseHandler(logger),
		issueService: issueService,
	}
}

// CreateIssue submits a new civic issue
// @Summary Create issue
// @Tags issues
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} models.IssueResponse
// @Failure 400 {object} ErrorResponse
// @Router /issues [post]
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	username, ok := h.currentUsername(c)
	if !ok {
		return
	}

	req, ok := h.bindIssueForm(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating issue", "reporter", username, "category", req.Category)

	issue, err := h.issueService.Create(c.Request.Context(), req, username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// UpdateIssue edits a pending issue
// @Summary Update issue
// @Tags issues
// @Accept multipart/form-data
// @Produce json
// @Param id path uint true "Issue ID"
// @Success 200 {object} models.IssueResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /issues/{id} [put]
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	username, ok := h.currentUsername(c)
	if !ok {
		return
	}

	req, ok := h.bindIssueForm(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Updating issue", "issue_id", id, "caller", username)

	// The create and update forms carry identical fields.
	issue, err := h.issueService.Update(c.Request.Context(), id, (*services.UpdateIssueRequest)(req), username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// DeleteIssue removes an issue
// @Summary Delete issue
// @Tags issues
// @Produce json
// @Param id path uint true "Issue ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /issues/{id} [delete]
func (h *IssueHandler) DeleteIssue(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	username, ok := h.currentUsername(c)
	if !ok {
		return
	}

	if err := h.issueService.Delete(c.Request.Context(), id, username); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Issue deleted"})
}

// ListIssues lists all issues
// @Summary List issues
// @Tags issues
// @Produce json
// @Success 200 {array} models.IssueResponse
// @Router /issues [get]
func (h *IssueHandler) ListIssues(c *gin.Context) {
	issues, err := h.issueService.GetAll(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// MyIssues lists the caller's own reports
// @Summary List own issues
// @Tags issues
// @Produce json
// @Success 200 {array} models.IssueResponse
// @Router /issues/my [get]
func (h *IssueHandler) MyIssues(c *gin.Context) {
	username, ok := h.currentUsername(c)
	if !ok {
		return
	}

	issues, err := h.issueService.GetUserIssues(c.Request.Context(), username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// ContractorIssues lists issues assigned to the calling contractor
// @Summary List assigned issues
// @Tags issues
// @Produce json
// @Success 200 {array} models.IssueResponse
// @Failure 404 {object} ErrorResponse
// @Router /issues/contractor [get]
func (h *IssueHandler) ContractorIssues(c *gin.Context) {
	username, ok := h.currentUsername(c)
	if !ok {
		return
	}

	issues, err := h.issueService.GetContractorIssues(c.Request.Context(), username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// GetIssue retrieves one issue
// @Summary Get issue
// @Tags issues
// @Produce json
// @Param id path uint true "Issue ID"
// @Success 200 {object} models.IssueResponse
// @Failure 404 {object} ErrorResponse
// @Router /issues/{id} [get]
func (h *IssueHandler) GetIssue(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	issue, err := h.issueService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// UpdateStatus moves an issue through its lifecycle
// @Summary Update issue status
// @Tags issues
// @Accept multipart/form-data
// @Produce json
// @Param id path uint true "Issue ID"
// @Param status query string true "New status"
// @Param remark query string false "Remark"
// @Success 200 {object} models.IssueResponse
// @Failure 409 {object} ErrorResponse
// @Router /issues/{id}/status [put]
func (h *IssueHandler) UpdateStatus(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	status := c.Query("status")
	if status == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Query parameter 'status' is required",
		})
		return
	}

	req := &services.UpdateIssueStatusRequest{
		Status: models.IssueStatus(status),
	}
	if remark := c.Query("remark"); remark != "" {
		req.Remark = &remark
	}

	var ok bool
	if req.BeforeImage, ok = h.readImageFile(c, "beforeImage"); !ok {
		return
	}
	if req.AfterImage, ok = h.readImageFile(c, "afterImage"); !ok {
		return
	}

	h.LogRequest(c, "Updating issue status", "issue_id", id, "status", status)

	issue, err := h.issueService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// AssignContractor binds a contractor to an issue
// @Summary Assign contractor
// @Tags issues
// @Produce json
// @Param id path uint true "Issue ID"
// @Param contractorId path uint true "Contractor ID"
// @Success 200 {object} models.IssueResponse
// @Failure 404 {object} ErrorResponse
// @Router /issues/{id}/assign/{contractorId} [put]
func (h *IssueHandler) AssignContractor(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	contractorID := h.parseIDParam(c, "contractorId")
	if contractorID == 0 {
		return
	}

	h.LogRequest(c, "Assigning contractor", "issue_id", id, "contractor_id", contractorID)

	issue, err := h.issueService.AssignContractor(c.Request.Context(), id, contractorID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// GetImage streams the report image
// @Summary Get issue image
// @Tags issues
// @Produce octet-stream
// @Param id path uint true "Issue ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Router /issues/{id}/image [get]
func (h *IssueHandler) GetImage(c *gin.Context) {
	h.serveImage(c, services.ImageSlotReport)
}

// GetBeforeImage streams the before-remediation evidence
func (h *IssueHandler) GetBeforeImage(c *gin.Context) {
	h.serveImage(c, services.ImageSlotBefore)
}

// GetAfterImage streams the after-remediation evidence
func (h *IssueHandler) GetAfterImage(c *gin.Context) {
	h.serveImage(c, services.ImageSlotAfter)
}

func (h *IssueHandler) serveImage(c *gin.Context, slot string) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	img, err := h.issueService.GetImage(c.Request.Context(), id, slot)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", img.Filename))
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

// ===== HELPER METHODS =====

// bindIssueForm decodes the multipart issue form shared by create and update.
func (h *IssueHandler) bindIssueForm(c *gin.Context) (*services.CreateIssueRequest, bool) {
	lat, err := strconv.ParseFloat(c.PostForm("latitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid latitude",
		})
		return nil, false
	}
	lon, err := strconv.ParseFloat(c.PostForm("longitude"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid longitude",
		})
		return nil, false
	}

	req := &services.CreateIssueRequest{
		Description:   c.PostForm("description"),
		Address:       c.PostForm("address"),
		Pincode:       c.PostForm("pincode"),
		Category:      models.IssueCategory(c.PostForm("category")),
		OtherCategory: c.PostForm("otherCategory"),
		Latitude:      lat,
		Longitude:     lon,
	}

	var ok bool
	if req.Image, ok = h.readImageFile(c, "image"); !ok {
		return nil, false
	}

	return req, true
}

// readImageFile reads an optional multipart file field. A missing field is
// not an error; an unreadable one is.
func (h *IssueHandler) readImageFile(c *gin.Context, field string) (*models.ImageUpload, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, true
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to read uploaded file",
			Details: err.Error(),
		})
		return nil, false
	}

	upload, err := readUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to read uploaded file",
			Details: err.Error(),
		})
		return nil, false
	}
	return upload, true
}

func readUpload(fileHeader *multipart.FileHeader) (*models.ImageUpload, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &models.ImageUpload{
		Data:        data,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Filename:    fileHeader.Filename,
	}, nil
}
