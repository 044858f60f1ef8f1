package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stephen4599/Civic-resolve/internal/cache"
	"github.com/stephen4599/Civic-resolve/internal/models"
	"github.com/stephen4599/Civic-resolve/internal/repositories"
	"github.com/stephen4599/Civic-resolve/internal/services"
	"github.com/stephen4599/Civic-resolve/internal/utils"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	issueHandler     *IssueHandler
	adminHandler     *AdminHandler
	userHandler      *UserHandler
	feedbackHandler  *FeedbackHandler
	analyticsHandler *AnalyticsHandler
	authMiddleware   *JWTAuthMiddleware

	cacheManager    *cache.CacheManager
	issueDailyLimit int
	logger          utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	jwtSecret string,
	userRepo repositories.UserRepository,
	cacheManager *cache.CacheManager,
	issueDailyLimit int,
) *HandlerManager {
	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Auth(), serviceManager.Captcha(), logger),
		issueHandler:     NewIssueHandler(serviceManager.Issue(), logger),
		adminHandler:     NewAdminHandler(serviceManager.Contractor(), logger),
		userHandler:      NewUserHandler(serviceManager.User(), logger),
		feedbackHandler:  NewFeedbackHandler(serviceManager.Feedback(), logger),
		analyticsHandler: NewAnalyticsHandler(serviceManager.Analytics(), logger),
		authMiddleware:   NewJWTAuthMiddleware(jwtSecret, userRepo),
		cacheManager:     cacheManager,
		issueDailyLimit:  issueDailyLimit,
		logger:           logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.GET("/captcha", hm.authHandler.GetCaptcha)
		auth.POST("/signup", hm.authHandler.Signup)
		auth.POST("/signin", hm.authHandler.Signin)
		auth.POST("/google", hm.authHandler.GoogleLogin)
	}

	// Issue reads and image streaming are public; the feedback form posts
	// without a session (citizens follow the link from the resolution email).
	api.GET("/issues", hm.issueHandler.ListIssues)
	api.GET("/issues/:id", hm.issueHandler.GetIssue)
	api.GET("/issues/:id/image", hm.issueHandler.GetImage)
	api.GET("/issues/:id/image/before", hm.issueHandler.GetBeforeImage)
	api.GET("/issues/:id/image/after", hm.issueHandler.GetAfterImage)
	api.POST("/feedback", hm.feedbackHandler.CreateFeedback)

	// Authenticated routes
	authed := api.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		issues := authed.Group("/issues")
		{
			issues.POST("",
				IssueRateLimiter(hm.cacheManager, hm.issueDailyLimit, hm.logger),
				hm.issueHandler.CreateIssue)
			issues.PUT("/:id", hm.issueHandler.UpdateIssue)
			issues.DELETE("/:id", hm.issueHandler.DeleteIssue)
			issues.GET("/my", hm.issueHandler.MyIssues)

			issues.GET("/contractor",
				hm.authMiddleware.RequireRole(models.RoleContractor),
				hm.issueHandler.ContractorIssues)
			issues.PUT("/:id/status",
				hm.authMiddleware.RequireRole(models.RoleAdmin, models.RoleContractor),
				hm.issueHandler.UpdateStatus)
			issues.PUT("/:id/assign/:contractorId",
				hm.authMiddleware.RequireRole(models.RoleAdmin),
				hm.issueHandler.AssignContractor)
		}

		admin := authed.Group("/admin")
		admin.Use(hm.authMiddleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/contractors", hm.adminHandler.ListApprovedContractors)
			admin.GET("/contractors/pending", hm.adminHandler.ListPendingContractors)
			admin.PUT("/contractors/:id/approve", hm.adminHandler.ApproveContractor)
			admin.DELETE("/contractors/:id", hm.adminHandler.DeleteContractor)
		}

		users := authed.Group("/users")
		{
			users.GET("/profile", hm.userHandler.Profile)

			users.GET("", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.userHandler.ListUsers)
			users.PUT("/:id/block", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.userHandler.BlockUser)
			users.PUT("/:id/enable", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.userHandler.EnableUser)
			users.PUT("/:id/upgrade-contractor", hm.authMiddleware.RequireRole(models.RoleAdmin), hm.userHandler.UpgradeToContractor)
		}

		feedback := authed.Group("/feedback")
		feedback.Use(hm.authMiddleware.RequireRole(models.RoleAdmin))
		{
			feedback.GET("/issue/:id", hm.feedbackHandler.ListFeedback)
		}

		analytics := authed.Group("/analytics")
		analytics.Use(hm.authMiddleware.RequireRole(models.RoleAdmin))
		{
			analytics.GET("/categories", hm.analyticsHandler.CategoryCounts)
			analytics.GET("/locations", hm.analyticsHandler.Locations)
			analytics.GET("/export", hm.analyticsHandler.ExportIssues)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "civic-resolve",
		})
	})
}
