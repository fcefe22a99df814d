package main

import (
	"log"
	"os"
	"time"

	"flashlearn/database"
	"flashlearn/gamification"
	"flashlearn/handlers"
	"flashlearn/middleware"
	"flashlearn/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Notification hub feeds gamification toasts over WebSocket
	services.InitNotificationHub()

	// One gamification service instance owns all profile mutations
	gamify := gamification.NewService(database.GetDB(), services.GetNotificationHub())
	handlers.InitHandlers(gamify)

	// Initialize cleanup service
	services.InitCleanupService()
	services.GetCleanupService().Start()
	defer func() {
		if cleanupService := services.GetCleanupService(); cleanupService != nil {
			cleanupService.Stop()
		}
	}()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/guest", handlers.GuestLogin)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/upgrade", middleware.AuthMiddleware, handlers.UpgradeGuest)

	// Flashcard set routes
	setGroup := api.Group("/sets")
	setGroup.Use(middleware.AuthMiddleware)
	setGroup.Get("/", handlers.GetSets)
	setGroup.Post("/", handlers.CreateSet)
	setGroup.Get("/:id", handlers.GetSet)
	setGroup.Put("/:id", handlers.UpdateSet)
	setGroup.Delete("/:id", handlers.DeleteSet)
	setGroup.Post("/:id/cards", handlers.AddCard)
	setGroup.Put("/:id/cards/:cardId", handlers.UpdateCard)
	setGroup.Delete("/:id/cards/:cardId", handlers.DeleteCard)
	setGroup.Post("/:id/share", handlers.ShareSet)
	setGroup.Delete("/:id/share", handlers.UnshareSet)
	setGroup.Post("/:id/copy", handlers.CopySet)

	// Quiz routes
	quizGroup := api.Group("/quizzes")
	quizGroup.Use(middleware.AuthMiddleware)
	quizGroup.Get("/", handlers.GetQuizzes)
	quizGroup.Post("/", handlers.CreateQuiz)
	quizGroup.Get("/:id", handlers.GetQuiz)
	quizGroup.Put("/:id", handlers.UpdateQuiz)
	quizGroup.Delete("/:id", handlers.DeleteQuiz)
	quizGroup.Post("/:id/share", handlers.ShareQuiz)
	quizGroup.Delete("/:id/share", handlers.UnshareQuiz)
	quizGroup.Post("/:id/copy", handlers.CopyQuiz)

	// Study session routes
	studyGroup := api.Group("/study")
	studyGroup.Use(middleware.AuthMiddleware)
	studyGroup.Post("/sets/:id/start", handlers.StartStudy)
	studyGroup.Get("/:token", handlers.GetStudyState)
	studyGroup.Post("/:token/next", handlers.NextCard)
	studyGroup.Post("/:token/prev", handlers.PrevCard)
	studyGroup.Post("/:token/learned", handlers.MarkLearned)

	// Quiz play session routes
	playGroup := api.Group("/play")
	playGroup.Use(middleware.AuthMiddleware)
	playGroup.Post("/quizzes/:id/start", handlers.StartQuiz)
	playGroup.Get("/:token", handlers.GetQuizState)
	playGroup.Post("/:token/answer", handlers.AnswerQuestion)

	// Shared catalog: browsing needs a login, resolving a share link does not
	api.Get("/shared", middleware.AuthMiddleware, handlers.GetCatalog)
	api.Get("/shared/resolve", handlers.ResolveShared)

	// User routes (require authentication)
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", handlers.GetMe)
	userGroup.Put("/me", handlers.UpdateMe)
	userGroup.Get("/me/dashboard", handlers.GetDashboard)

	// Progression routes
	progressionGroup := api.Group("/progression")
	progressionGroup.Use(middleware.AuthMiddleware)
	progressionGroup.Get("/", handlers.GetProgression)

	// Notification WebSocket
	app.Get("/ws", handlers.WebSocketUpgrade, handlers.NotificationSocket)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("🧹 Guest cleanup: %s", getEnv("GUEST_CLEANUP_ENABLED", "false"))
	log.Printf("🔔 Notifications available at ws://localhost:%s/ws", port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		// Additional production checks
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
