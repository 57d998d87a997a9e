package routes

import (
	"instituteadmin_go/controllers"
	"instituteadmin_go/middleware"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	locationController := &controllers.LocationController{}
	courseController := &controllers.CourseController{}
	batchController := &controllers.BatchController{}
	studentController := &controllers.StudentController{}
	batchHistoryController := &controllers.BatchHistoryController{}
	feeController := &controllers.FeeController{}
	paymentController := &controllers.PaymentController{}
	cashbookController := &controllers.CashbookController{}
	bankAccountController := &controllers.BankAccountController{}
	bankTransactionController := &controllers.BankTransactionController{}
	directorLedgerController := &controllers.DirectorLedgerController{}
	communicationController := &controllers.CommunicationController{}
	reportController := &controllers.ReportController{}
	logController := &controllers.LogController{}
	exportController := &controllers.ExportController{}

	// API group
	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Post("/auth/logout", authController.Logout)
	protected.Put("/profile/password", authController.ChangePassword)

	// User management routes
	users := protected.Group("/users")
	users.Get("/", middleware.RequireOwnerOrAdmin(), userController.GetUsers)
	users.Get("/:id", middleware.RequireOwnerOrAdmin(), userController.GetUser)
	users.Post("/", middleware.RequireOwnerOrAdmin(), authController.Register)
	users.Put("/:id", middleware.RequireOwnerOrAdmin(), userController.UpdateUser)
	users.Delete("/:id", middleware.RequireOwnerOrAdmin(), userController.DeleteUser)
	users.Post("/:id/avatar", userController.UploadAvatar)

	// Location routes
	locations := protected.Group("/locations")
	locations.Get("/", locationController.GetLocations)
	locations.Get("/:id", locationController.GetLocation)
	locations.Post("/", middleware.RequireOwnerOrAdmin(), locationController.CreateLocation)
	locations.Put("/:id", middleware.RequireOwnerOrAdmin(), locationController.UpdateLocation)
	locations.Delete("/:id", middleware.RequireOwnerOrAdmin(), locationController.DeleteLocation)

	// Course routes
	courses := protected.Group("/courses")
	courses.Get("/", courseController.GetCourses)
	courses.Get("/:id", courseController.GetCourse)
	courses.Post("/", middleware.RequireOwnerOrAdmin(), courseController.CreateCourse)
	courses.Put("/:id", middleware.RequireOwnerOrAdmin(), courseController.UpdateCourse)
	courses.Delete("/:id", middleware.RequireOwnerOrAdmin(), courseController.DeleteCourse)

	// Batch routes
	batches := protected.Group("/batches")
	batches.Get("/", batchController.GetBatches)
	batches.Get("/available/:student_id", batchController.GetAvailableBatches)
	batches.Get("/:id", batchController.GetBatch)
	batches.Post("/", middleware.RequireOwnerOrAdmin(), batchController.CreateBatch)
	batches.Put("/:id", middleware.RequireOwnerOrAdmin(), batchController.UpdateBatch)
	batches.Delete("/:id", middleware.RequireOwnerOrAdmin(), batchController.DeleteBatch)

	// Student routes
	students := protected.Group("/students")
	students.Get("/", studentController.GetStudents)
	students.Get("/:id", studentController.GetStudent)
	students.Post("/", studentController.CreateStudent)
	students.Put("/:id", studentController.UpdateStudent)
	students.Delete("/:id", middleware.RequireOwnerOrAdmin(), studentController.DeleteStudent)

	// Batch switch routes
	batchHistory := protected.Group("/batch-history")
	batchHistory.Post("/switch-batch", batchHistoryController.SwitchBatch)
	batchHistory.Put("/edit-last/:student_id", middleware.RequireOwnerOrAdmin(), batchHistoryController.EditLastSwitch)
	batchHistory.Get("/student/:id", batchHistoryController.GetStudentHistory)

	// Fee routes
	fees := protected.Group("/fees")
	fees.Get("/", feeController.GetFees)
	fees.Get("/:id", feeController.GetFee)
	fees.Put("/:id", middleware.RequireAccountantOrAbove(), feeController.UpdateFee)

	// Payment routes
	payments := protected.Group("/payments")
	payments.Get("/", paymentController.GetPayments)
	payments.Get("/:id", paymentController.GetPayment)
	payments.Post("/", middleware.RequireAccountantOrAbove(), paymentController.CreatePayment)
	payments.Put("/:id/status", middleware.RequireAccountantOrAbove(), paymentController.UpdatePaymentStatus)
	payments.Post("/:id/receipt", middleware.RequireAccountantOrAbove(), paymentController.UploadReceipt)

	// Cashbook routes
	cashbook := protected.Group("/cashbook", middleware.RequireAccountantOrAbove())
	cashbook.Get("/", cashbookController.GetCashbook)
	cashbook.Post("/", cashbookController.CreateCashbookEntry)
	cashbook.Put("/:id", middleware.RequireOwnerOrAdmin(), cashbookController.UpdateCashbookEntry)
	cashbook.Delete("/:id", middleware.RequireOwnerOrAdmin(), cashbookController.DeleteCashbookEntry)

	// Bank account routes
	bankAccounts := protected.Group("/bank-accounts", middleware.RequireAccountantOrAbove())
	bankAccounts.Get("/", bankAccountController.GetBankAccounts)
	bankAccounts.Get("/:id", bankAccountController.GetBankAccount)
	bankAccounts.Post("/", middleware.RequireOwnerOrAdmin(), bankAccountController.CreateBankAccount)
	bankAccounts.Put("/:id", middleware.RequireOwnerOrAdmin(), bankAccountController.UpdateBankAccount)
	bankAccounts.Delete("/:id", middleware.RequireOwnerOrAdmin(), bankAccountController.DeleteBankAccount)

	// Bank transaction routes
	bankTransactions := protected.Group("/bank-transactions", middleware.RequireAccountantOrAbove())
	bankTransactions.Get("/", bankTransactionController.GetBankTransactions)
	bankTransactions.Post("/", bankTransactionController.CreateBankTransaction)
	bankTransactions.Delete("/:id", middleware.RequireOwnerOrAdmin(), bankTransactionController.DeleteBankTransaction)

	// Director ledger routes
	directorLedger := protected.Group("/director-ledger", middleware.RequireOwnerOrAdmin())
	directorLedger.Get("/", directorLedgerController.GetDirectorLedger)
	directorLedger.Post("/", directorLedgerController.CreateDirectorEntry)
	directorLedger.Delete("/:id", directorLedgerController.DeleteDirectorEntry)

	// Communication routes
	communication := protected.Group("/communication")
	communication.Get("/logs", communicationController.GetCommunicationLogs)
	communication.Post("/logs", communicationController.SendMessage)

	// Report routes
	reports := protected.Group("/reports")
	reports.Get("/monthly-revenue", reportController.GetMonthlyRevenue)
	reports.Get("/batch-performance", reportController.GetBatchPerformance)
	reports.Get("/location-comparison", reportController.GetLocationComparison)
	reports.Get("/payment-types", reportController.GetPaymentTypeDistribution)
	reports.Get("/course-revenue", reportController.GetCourseRevenue)

	// Export routes
	exports := protected.Group("/exports")
	exports.Get("/cashbook", middleware.RequireAccountantOrAbove(), exportController.ExportCashbook)
	exports.Get("/students", exportController.ExportStudents)

	// Activity log routes (admin/owner only)
	logs := protected.Group("/logs", middleware.RequireOwnerOrAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/stats", logController.GetLogStats)
	logs.Get("/export", logController.ExportLogs)
	logs.Post("/flush", logController.FlushCachedLogs)
	logs.Get("/archives", logController.GetArchives)
	logs.Get("/archives/:id/download", logController.DownloadArchive)

	// WebSocket stats
	protected.Get("/ws/stats", middleware.RequireOwnerOrAdmin(), controllers.GetWebSocketStats)

	// WebSocket connection endpoint
	app.Use("/ws", middleware.JWTMiddleware(), controllers.WebSocketUpgrade)
	app.Get("/ws", fiberws.New(controllers.HandleWebSocket))
}
