package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/xthome/home-manager/internal/access"
	"github.com/xthome/home-manager/internal/config"
	"github.com/xthome/home-manager/internal/handlers"
	infraRepo "github.com/xthome/home-manager/internal/infra/repository"
	"github.com/xthome/home-manager/internal/mail"
	"github.com/xthome/home-manager/internal/middleware"
	"github.com/xthome/home-manager/internal/storage"
	ucDashboard "github.com/xthome/home-manager/internal/usecase/dashboard"
	ucViewer "github.com/xthome/home-manager/internal/usecase/viewer"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	householdRepo := infraRepo.NewHouseholdGormRepository(db)
	evaluator := access.NewEvaluator(householdRepo)
	blobs := storage.NewS3Store(cfg)
	mailDispatcher := mail.NewDispatcher(mail.NewSMTPMailer(cfg))

	// ======================================================
	// USE CASES — VIEWER INVITATIONS
	// ======================================================
	inviteViewerUC := ucViewer.NewInviteViewer(
		householdRepo,
		mailDispatcher,
	)

	acceptInviteUC := ucViewer.NewAcceptInvite(
		householdRepo,
	)

	revokeViewerUC := ucViewer.NewRevokeViewer(
		householdRepo,
		mailDispatcher,
	)

	listInvitedUC := ucViewer.NewListInvitedViewers(
		householdRepo,
	)

	// ======================================================
	// USE CASES — DASHBOARD
	// ======================================================
	summaryUC := ucDashboard.NewSummary(householdRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, mailDispatcher)
	userHandler := handlers.NewUserHandler(db, blobs)

	viewerHandler := handlers.NewViewerHandler(
		householdRepo,
		inviteViewerUC,
		acceptInviteUC,
		revokeViewerUC,
		listInvitedUC,
	)

	recordHandler := handlers.NewRecordHandler(db, evaluator, blobs)
	milkHandler := handlers.NewMilkHandler(db, evaluator)
	billHandler := handlers.NewBillHandler(db, evaluator, blobs)
	rentHandler := handlers.NewRentHandler(db, evaluator)
	settingsHandler := handlers.NewSettingsHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(summaryUC)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/forgot-password", authHandler.ForgotPassword)
		api.POST("/auth/reset-password", authHandler.ResetPassword)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.PUT("/users/:id", userHandler.Update)

			// invitations
			secured.POST("/auth/invite", viewerHandler.Invite)
			secured.POST("/auth/revoke", viewerHandler.Revoke)
			secured.POST("/auth/accept-invite", viewerHandler.AcceptInvite)
			secured.GET("/auth/invited-viewers", viewerHandler.ListInvited)

			// records
			secured.GET("/records", recordHandler.List)
			secured.GET("/records/:id", recordHandler.Get)
			secured.POST("/records", recordHandler.Create)
			secured.DELETE("/records/:id", recordHandler.Delete)

			// milk entries
			secured.GET("/milk/:recordId", milkHandler.List)
			secured.GET("/milk/analytics/:recordId", milkHandler.Analytics)
			secured.POST("/milk", milkHandler.Create)
			secured.DELETE("/milk/entry/:id", milkHandler.Delete)

			// bill entries
			secured.GET("/bills/:recordId", billHandler.List)
			secured.GET("/bills/analytics/:recordId", billHandler.Analytics)
			secured.POST("/bills", billHandler.Create)
			secured.DELETE("/bills/entry/:id", billHandler.Delete)

			// rent entries
			secured.GET("/rent/:recordId", rentHandler.List)
			secured.GET("/rent/analytics/:recordId", rentHandler.Analytics)
			secured.POST("/rent", rentHandler.Create)
			secured.DELETE("/rent/entry/:id", rentHandler.Delete)

			// settings
			secured.GET("/settings", settingsHandler.Get)
			secured.POST("/settings", settingsHandler.Update)

			secured.GET("/dashboard/summary", dashboardHandler.Summary)
		}
	}
}
