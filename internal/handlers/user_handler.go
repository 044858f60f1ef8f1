package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stephen4599/Civic-resolve/internal/services"
	"github.com/stephen4599/Civic-resolve/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(userService services.UserService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: NewBaseHandler(logger),
		userService: userService,
	}
}

// ListUsers lists all accounts
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.UserProfileResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Profile returns the caller's own profile
// @Summary Get own profile
// @Tags users
// @Produce json
// @Success 200 {object} models.UserProfileResponse
// @Router /users/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	username, ok := h.currentUsername(c)
	if !ok {
		return
	}

	profile, err := h.userService.Profile(c.Request.Context(), username)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// BlockUser disables an account
// @Summary Block user
// @Tags users
// @Produce json
// @Param id path uint true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/block [put]
func (h *UserHandler) BlockUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Blocking user", "user_id", id)

	if err := h.userService.Block(c.Request.Context(), id); err != nil {
		if err == services.ErrCannotBlockAdmin {
			c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "User blocked"})
}

// EnableUser re-enables an account
// @Summary Enable user
// @Tags users
// @Produce json
// @Param id path uint true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/enable [put]
func (h *UserHandler) EnableUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Enabling user", "user_id", id)

	if err := h.userService.Enable(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "User enabled"})
}

// UpgradeToContractor converts a citizen account into a contractor
// @Summary Upgrade user to contractor
// @Tags users
// @Accept json
// @Produce json
// @Param id path uint true "User ID"
// @Param upgrade body services.UpgradeContractorRequest true "Contractor details"
// @Success 200 {object} services.ContractorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id}/upgrade-contractor [put]
func (h *UserHandler) UpgradeToContractor(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpgradeContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Upgrading user to contractor", "user_id", id)

	contractor, err := h.userService.UpgradeToContractor(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, contractor)
}
