package router

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"qr-attendance-backend/config"
	"qr-attendance-backend/config/middleware"
	"qr-attendance-backend/handlers"
	"qr-attendance-backend/pkg/token"
	"qr-attendance-backend/repository"
)

func SetupRoutes(app *fiber.App, cfg *config.AppConfig) {
	log.Println("Registering application routes...")

	// Repositories
	workerRepo := repository.NewWorkerRepository()
	attendanceRepo := repository.NewAttendanceRepository()

	// Handlers
	codec := token.NewCodec(cfg.TokenSecret)
	authHandler := handlers.NewAuthHandler(workerRepo)
	workerHandler := handlers.NewWorkerHandler(workerRepo)
	attendanceHandler := handlers.NewAttendanceHandler(workerRepo, attendanceRepo, codec, cfg.DeepLinkPrefix)
	reportHandler := handlers.NewReportHandler(attendanceRepo, cfg.Payroll)

	// Health check
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "QR Attendance API",
			"status":  "running",
		})
	})

	// API v1 group
	api := app.Group("/api/v1")

	// Authentication routes
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/change-password", middleware.AuthMiddleware(), authHandler.ChangePassword)

	// Attendance routes used by the chat transport on behalf of workers
	attendanceGroup := api.Group("/attendance")
	attendanceGroup.Post("/scan", attendanceHandler.Scan)
	attendanceGroup.Get("/history/:chat_id", attendanceHandler.GetWorkerHistory)

	// Admin routes
	adminGroup := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
	adminGroup.Get("/attendance/generate-qr", attendanceHandler.GenerateQRCode)
	adminGroup.Post("/workers", workerHandler.RegisterWorker)
	adminGroup.Get("/workers", workerHandler.GetAllWorkers)
	adminGroup.Get("/workers/:chat_id", workerHandler.GetWorkerByChatID)
	adminGroup.Delete("/workers/:chat_id", workerHandler.DeleteWorker)
	adminGroup.Get("/report", reportHandler.ExportReport)
	adminGroup.Post("/purge", reportHandler.PurgeData)

	log.Println("All routes registered:")
	log.Println("- POST   /api/v1/auth/login")
	log.Println("- POST   /api/v1/auth/change-password (protected)")
	log.Println("- POST   /api/v1/attendance/scan")
	log.Println("- GET    /api/v1/attendance/history/:chat_id")
	log.Println("- GET    /api/v1/admin/attendance/generate-qr (admin only)")
	log.Println("- POST   /api/v1/admin/workers (admin only)")
	log.Println("- GET    /api/v1/admin/workers (admin only)")
	log.Println("- GET    /api/v1/admin/workers/:chat_id (admin only)")
	log.Println("- DELETE /api/v1/admin/workers/:chat_id (admin only)")
	log.Println("- GET    /api/v1/admin/report (admin only)")
	log.Println("- POST   /api/v1/admin/purge (admin only)")
}
