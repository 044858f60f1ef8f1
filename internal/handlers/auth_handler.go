package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stephen4599/Civic-resolve/internal/services"
	"github.com/stephen4599/Civic-resolve/internal/utils"
)

type AuthHandler struct {
	BaseHandler
	authService    services.AuthService
	captchaService services.CaptchaService
}

func NewAuthHandler(authService services.AuthService, captchaService services.CaptchaService, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler:    NewBaseHandler(logger),
		authService:    authService,
		captchaService: captchaService,
	}
}

// GetCaptcha issues a new arithmetic challenge
// @Summary Get captcha
// @Tags auth
// @Produce json
// @Success 200 {object} models.CaptchaResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/captcha [get]
func (h *AuthHandler) GetCaptcha(c *gin.Context) {
	captcha, err := h.captchaService.Generate(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, captcha)
}

// Signup registers a new account
// @Summary Register account
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body services.SignupRequest true "Signup data"
// @Success 201 {object} models.UserProfileResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	profile, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// Signin authenticates a user
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param login body services.LoginRequest true "Credentials"
// @Success 200 {object} models.JwtResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) Signin(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.authService.Signin(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type googleLoginRequest struct {
	AccessToken string `json:"accessToken" binding:"required"`
}

// GoogleLogin signs in with a Google OAuth access token
// @Summary Google sign-in
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} models.JwtResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	resp, err := h.authService.GoogleLogin(c.Request.Context(), req.AccessToken)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
