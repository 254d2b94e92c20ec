package routes

import (
	"github.com/gin-gonic/gin"

	"care-circle-api/handlers"
	"care-circle-api/middleware"
	"care-circle-api/models"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
	}

	// ── Elder routes ───────────────────────────────────────────────
	elder := r.Group("/api/elder")
	elder.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleElder))
	{
		elder.POST("/requests", handlers.CreateRequest)
		elder.GET("/requests", handlers.GetMyRequests)
		elder.GET("/requests/:id", handlers.GetRequestDetail)
		elder.PUT("/requests/:id/cancel", handlers.CancelRequest)
		elder.PUT("/requests/:id/pay", handlers.PayRequest)
		elder.PUT("/requests/:id/rate", handlers.RateRequest)
	}

	// ── Helper routes ──────────────────────────────────────────────
	helper := r.Group("/api/helper")
	helper.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleHelper))
	{
		helper.GET("/requests/available", handlers.GetAvailableRequests)
		helper.PUT("/requests/:id/accept", handlers.AcceptRequest)
		helper.PUT("/requests/:id/advance", handlers.AdvanceRequest)
		helper.GET("/requests/my-tasks", handlers.GetMyTasks)
		helper.GET("/certification", handlers.GetCertification)
		helper.POST("/certification/issue", handlers.IssueCertificate)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", handlers.AdminGetAllUsers)
		admin.GET("/requests", handlers.AdminGetAllRequests)
		admin.PUT("/helpers/:id/verify", handlers.VerifyHelper)
		admin.PUT("/helpers/:id/reject", handlers.RejectHelper)
	}
}
