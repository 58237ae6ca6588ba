package routes

import (
	"btohub/internal/adapters/http/handlers"
	"btohub/internal/adapters/http/middleware"
	"btohub/internal/adapters/persistence/repositories"
	"btohub/internal/config"
	"btohub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application. The returned audit
// service is started by the caller so it can also stop it on shutdown.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.InventoryAuditService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	regRepo := repositories.NewRegistrationRepository(db)
	enquiryRepo := repositories.NewEnquiryRepository(db)
	logRepo := repositories.NewTransitionLogRepository(db)

	// Per-project locks shared by every service that touches inventory
	locks := services.NewProjectLocks()

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg.JWT)
	projectService := services.NewProjectService(projectRepo, userRepo)
	appService := services.NewApplicationService(appRepo, projectRepo, userRepo, regRepo, logRepo)
	reviewService := services.NewReviewService(appRepo, projectRepo, logRepo, locks)
	bookingService := services.NewBookingService(appRepo, projectRepo, regRepo, userRepo, logRepo, locks)
	withdrawalService := services.NewWithdrawalService(appRepo, projectRepo, logRepo, locks)
	regService := services.NewRegistrationService(regRepo, projectRepo, userRepo, appRepo)
	enquiryService := services.NewEnquiryService(enquiryRepo, projectRepo, userRepo, regRepo)
	reportService := services.NewReportService(appRepo)
	auditService := services.NewInventoryAuditService(projectRepo, appRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	projectHandler := handlers.NewProjectHandler(projectService)
	appHandler := handlers.NewApplicationHandler(appService, reviewService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	regHandler := handlers.NewRegistrationHandler(regService)
	enquiryHandler := handlers.NewEnquiryHandler(enquiryService)
	reportHandler := handlers.NewReportHandler(reportService, auditService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	authRoutes.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)

	// Project routes
	projectRoutes := apiV1.Group("/projects")
	projectRoutes.Use(middleware.AuthMiddleware(cfg))
	projectRoutes.Get("/open", projectHandler.ListOpen)
	projectRoutes.Get("/mine", middleware.ManagerOnly(), projectHandler.ListMine)
	projectRoutes.Get("/", middleware.StaffOnly(), projectHandler.List)
	projectRoutes.Post("/", middleware.ManagerOnly(), projectHandler.Create)
	projectRoutes.Get("/:id", projectHandler.Get)
	projectRoutes.Put("/:id", middleware.ManagerOnly(), projectHandler.Update)
	projectRoutes.Patch("/:id/visibility", middleware.ManagerOnly(), projectHandler.SetVisibility)
	projectRoutes.Delete("/:id", middleware.ManagerOnly(), projectHandler.Delete)
	projectRoutes.Get("/:id/applications", middleware.ManagerOnly(), appHandler.ListByProject)
	projectRoutes.Get("/:id/registrations", middleware.ManagerOnly(), regHandler.ListByProject)
	projectRoutes.Get("/:id/enquiries", middleware.StaffOnly(), enquiryHandler.ListByProject)

	// Application routes
	appRoutes := apiV1.Group("/applications")
	appRoutes.Use(middleware.AuthMiddleware(cfg))
	appRoutes.Post("/", appHandler.Apply)
	appRoutes.Get("/mine", appHandler.ListMine)
	appRoutes.Get("/current", appHandler.Current)
	appRoutes.Get("/:id/history", middleware.StaffOnly(), appHandler.History)
	appRoutes.Post("/:id/approve", middleware.ManagerOnly(), appHandler.Approve)
	appRoutes.Post("/:id/reject", middleware.ManagerOnly(), appHandler.Reject)
	appRoutes.Post("/:id/book", middleware.OfficerOnly(), bookingHandler.Book)
	appRoutes.Get("/:id/receipt", middleware.OfficerOnly(), bookingHandler.Receipt)
	appRoutes.Post("/:id/withdrawal", withdrawalHandler.Request)
	appRoutes.Post("/:id/withdrawal/approve", middleware.ManagerOnly(), withdrawalHandler.Approve)
	appRoutes.Post("/:id/withdrawal/reject", middleware.ManagerOnly(), withdrawalHandler.Reject)

	// Officer registration routes
	regRoutes := apiV1.Group("/registrations")
	regRoutes.Use(middleware.AuthMiddleware(cfg))
	regRoutes.Post("/", middleware.OfficerOnly(), regHandler.Register)
	regRoutes.Get("/mine", middleware.OfficerOnly(), regHandler.ListMine)
	regRoutes.Post("/:id/approve", middleware.ManagerOnly(), regHandler.Approve)
	regRoutes.Post("/:id/reject", middleware.ManagerOnly(), regHandler.Reject)

	// Enquiry routes
	enquiryRoutes := apiV1.Group("/enquiries")
	enquiryRoutes.Use(middleware.AuthMiddleware(cfg))
	enquiryRoutes.Post("/", enquiryHandler.Submit)
	enquiryRoutes.Get("/mine", enquiryHandler.ListMine)
	enquiryRoutes.Get("/", middleware.ManagerOnly(), enquiryHandler.ListAll)
	enquiryRoutes.Put("/:id", enquiryHandler.Update)
	enquiryRoutes.Delete("/:id", enquiryHandler.Delete)
	enquiryRoutes.Post("/:id/reply", middleware.StaffOnly(), enquiryHandler.Reply)

	// Report routes (managers)
	reportRoutes := apiV1.Group("/reports")
	reportRoutes.Use(middleware.AuthMiddleware(cfg))
	reportRoutes.Use(middleware.ManagerOnly())
	reportRoutes.Get("/booked", reportHandler.Booked)
	reportRoutes.Get("/inventory-audit", reportHandler.InventoryAudit)

	return auditService
}
