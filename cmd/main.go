package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/knayak08/AlumniBridge/internal/db"
	"github.com/knayak08/AlumniBridge/internal/handlers"
	"github.com/knayak08/AlumniBridge/internal/middleware"
	"github.com/knayak08/AlumniBridge/internal/storage"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	// Initialize Fiber
	app := fiber.New()
	// Initialize MinIO
	storage.InitMinio()
	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017/" + db.Name // Default fallback
	}
	db.ConnectMongoDB(mongoURI)

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default fallback
	}
	db.ConnectRedis(redisAddr, os.Getenv("REDIS_PASSWORD"))

	// Credential endpoints get a per-email limiter
	authLimiter := middleware.NewLimiterStore(10, 5, 5*time.Minute)

	// Auth Routes
	auth := app.Group("/auth")
	auth.Post("/register", middleware.RateLimit(authLimiter), handlers.RegisterHandler)
	auth.Post("/login", middleware.RateLimit(authLimiter), handlers.LoginHandler)
	auth.Get("/me", middleware.AuthMiddleware, handlers.CurrentUserHandler)
	auth.Put("/me", middleware.AuthMiddleware, handlers.UpdateCurrentUserHandler)
	auth.Put("/upload-profile-photo", middleware.AuthMiddleware, handlers.UploadUserPhotoHandler)
	auth.Post("/logout", middleware.AuthMiddleware, handlers.LogoutHandler)

	// Alumni profile and directory routes. /me must be registered before /:id.
	alumni := app.Group("/alumni", middleware.AuthMiddleware)
	alumni.Get("/me", handlers.GetMyAlumniProfileHandler)
	alumni.Put("/me", handlers.UpdateMyAlumniProfileHandler)
	alumni.Put("/me/photo", handlers.UploadAlumniPhotoHandler)
	alumni.Get("/", handlers.ListAlumniHandler)
	alumni.Get("/:id", handlers.GetAlumniByIDHandler)

	// Messaging Routes
	messages := app.Group("/messages", middleware.AuthMiddleware)
	messages.Post("/", handlers.SendMessageHandler)
	messages.Get("/", handlers.ListConversationsHandler)
	messages.Get("/:counterpartId", handlers.GetConversationHandler)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // Default port
	}

	// Start server
	log.Fatal(app.Listen(":" + port))
}
