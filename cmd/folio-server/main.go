package main

import (
	"context"
	"log"
	"os"

	"github.com/cwolf/folio/pkg/folio/accesskeys"
	"github.com/cwolf/folio/pkg/folio/auth"
	"github.com/cwolf/folio/pkg/folio/chat"
	"github.com/cwolf/folio/pkg/folio/database"
	"github.com/cwolf/folio/pkg/folio/gate"
	"github.com/cwolf/folio/pkg/folio/grounding"
	"github.com/cwolf/folio/pkg/folio/llm"
	"github.com/cwolf/folio/pkg/folio/models"
	"github.com/cwolf/folio/pkg/folio/notes"
	"github.com/cwolf/folio/pkg/folio/profile"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/cwolf/folio/api/swagger"
)

// @title Folio API
// @version 1.0
// @description Access-key-gated personal portfolio backend with a grounded chat assistant.

// @contact.name Folio
// @contact.url https://github.com/cwolf/folio

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin JWT token. Format: "Bearer {token}"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using existing environment")
	}

	// Connect to database
	dbType := os.Getenv("FOLIO_DB_TYPE")
	dsn := os.Getenv("FOLIO_DB_DSN")
	if dsn == "" {
		dsn = "folio.db"
	}
	if err := database.Connect(dbType, dsn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Create the default admin user if no admin exists
	if err := ensureAdminExists(database.GetDB()); err != nil {
		log.Fatalf("Failed to ensure admin user exists: %v", err)
	}

	dev := os.Getenv("FOLIO_ENV") == "development"

	// Construct the generation adapter. Without credentials the chat endpoint
	// answers every turn with the fixed configuration-error reply.
	var generator llm.Generator
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gemini, err := llm.NewGeminiGenerator(context.Background(), apiKey, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatalf("Failed to create generation client: %v", err)
		}
		defer gemini.Close()
		generator = gemini
	} else {
		log.Println("GEMINI_API_KEY not set - chat will return the configuration-error reply")
	}

	// Set up Gin router
	r := gin.Default()
	r.HandleMethodNotAllowed = true

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Chat routes (public; the access key travels in the request body)
		chatService := chat.NewService(database.GetDB(), generator, dev)
		chatHandler := chat.NewHandler(chatService)
		chatHandler.RegisterRoutes(api)

		// Gate validation endpoint (public; charges usage on grant)
		gateHandler := gate.NewHandler(database.GetDB())
		gateHandler.RegisterRoutes(api)

		// Gated content routes: every request is one page view against the key
		gated := api.Group("", gate.Middleware(database.GetDB()))
		profile.NewHandler(database.GetDB()).RegisterRoutes(gated)
		notes.NewHandler(database.GetDB()).RegisterRoutes(gated)

		// Admin routes (JWT, admin role required)
		adminGroup := api.Group("/admin")
		adminGroup.Use(auth.AuthMiddleware(), auth.RequireAdmin())
		accesskeys.NewHandler(database.GetDB()).RegisterRoutes(adminGroup)
		grounding.NewHandler(database.GetDB()).RegisterRoutes(adminGroup)
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Folio server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureAdminExists creates a default admin user if no admin exists in the
// database, so a fresh deployment can be administered immediately.
func ensureAdminExists(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("system_role = ?", models.SystemRoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil // Admin already exists
	}

	email := os.Getenv("FOLIO_ADMIN_EMAIL")
	if email == "" {
		email = "admin@folio.local"
	}
	password := os.Getenv("FOLIO_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	adminUser := models.User{
		Email:        email,
		Name:         "Admin",
		PasswordHash: hashedPassword,
		SystemRole:   models.SystemRoleAdmin,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Printf("Created default admin user: %s", email)
	return nil
}
