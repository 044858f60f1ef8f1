package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stephen4599/Civic-resolve/internal/services"
	"github.com/stephen4599/Civic-resolve/internal/utils"
)

// AdminHandler exposes the contractor approval workflow.
type AdminHandler struct {
	BaseHandler
	contractorService services.ContractorService
}

func NewAdminHandler(contractorService services.ContractorService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:       NewBaseHandler(logger),
		contractorService: contractorService,
	}
}

// ListPendingContractors lists applications awaiting approval
// @Summary List pending contractors
// @Tags admin
// @Produce json
// @Success 200 {array} services.ContractorResponse
// @Router /admin/contractors/pending [get]
func (h *AdminHandler) ListPendingContractors(c *gin.Context) {
	contractors, err := h.contractorService.ListPending(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractors)
}

// ListApprovedContractors lists approved contractors
// @Summary List approved contractors
// @Tags admin
// @Produce json
// @Success 200 {array} services.ContractorResponse
// @Router /admin/contractors [get]
func (h *AdminHandler) ListApprovedContractors(c *gin.Context) {
	contractors, err := h.contractorService.ListApproved(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contractors)
}

// ApproveContractor enables a contractor's login
// @Summary Approve contractor
// @Tags admin
// @Produce json
// @Param id path uint true "Contractor ID"
// @Success 200 {object} services.ContractorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/contractors/{id}/approve [put]
func (h *AdminHandler) ApproveContractor(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Approving contractor", "contractor_id", id)

	contractor, err := h.contractorService.Approve(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contractor)
}

// DeleteContractor rejects an application, removing profile and login
// @Summary Delete contractor
// @Tags admin
// @Produce json
// @Param id path uint true "Contractor ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/contractors/{id} [delete]
func (h *AdminHandler) DeleteContractor(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting contractor", "contractor_id", id)

	if err := h.contractorService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Contractor deleted"})
}
