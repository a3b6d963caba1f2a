package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"PORT",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()
	if os.Getenv("GO_ENV") != "test" {
		utils.InitMongoClient()
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	// Repositories
	notesRepo := repository.GetNotesRepo(utils.MongoClient)
	usersRepo := repository.GetUsersRepo(utils.MongoClient)
	sessionsRepo := repository.GetSessionsRepo(utils.MongoClient)

	// Public-note cache is optional: without Redis every resolve goes
	// to the store.
	var publicCache *services.PublicCache
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		ttl := utils.GetEnvAsDuration("PUBLIC_CACHE_TTL", 5*time.Minute)
		cache, err := services.NewPublicCache(redisURL, ttl)
		if err != nil {
			log.Printf("Public cache disabled: %v", err)
		} else {
			publicCache = cache
		}
	}

	// Services
	notesService := &usecase.NotesService{
		NotesRepo:   notesRepo,
		PublicCache: publicCache,
	}
	shareService := &usecase.ShareService{
		NotesRepo:   notesRepo,
		PublicCache: publicCache,
	}
	usersService := &usecase.UsersService{
		UsersRepo:    usersRepo,
		SessionsRepo: sessionsRepo,
	}

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTracing())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))

	// Monitoring
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/health", handler.HealthHandler)

	// Public share resolution, no authentication
	router.GET("/share/:publicId", func(c *gin.Context) {
		handler.ResolvePublicHandler(c, shareService)
	})

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", func(c *gin.Context) {
				handler.RegistrationHandler(c, usersService)
			})
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, usersService)
			})
		}
	}

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		sessions := protected.Group("/sessions")
		{
			sessions.GET("/", func(c *gin.Context) {
				handler.GetSessionsHandler(c, sessionsRepo)
			})
		}

		notes := protected.Group("/notes")
		{
			// List operations
			notes.GET("/", func(c *gin.Context) {
				handler.GetUserNotesHandler(c, notesService)
			})
			notes.GET("/trash/list", func(c *gin.Context) {
				handler.GetTrashedNotesHandler(c, notesService)
			})

			// Basic CRUD operations
			notes.POST("/", func(c *gin.Context) {
				handler.CreateNoteHandler(c, notesService)
			})
			notes.GET("/:id", func(c *gin.Context) {
				handler.GetNoteHandler(c, notesService)
			})
			notes.PUT("/:id", func(c *gin.Context) {
				handler.UpdateNoteHandler(c, notesService)
			})

			// Note actions
			notes.POST("/:id/toggle-pin", func(c *gin.Context) {
				handler.TogglePinHandler(c, notesService)
			})
			notes.POST("/:id/trash", func(c *gin.Context) {
				handler.TrashNoteHandler(c, notesService)
			})
			notes.POST("/:id/restore", func(c *gin.Context) {
				handler.RestoreNoteHandler(c, notesService)
			})
			notes.DELETE("/:id/permanent", func(c *gin.Context) {
				handler.PermanentDeleteHandler(c, notesService)
			})

			// Sharing
			notes.POST("/:id/share", func(c *gin.Context) {
				handler.ShareNoteHandler(c, shareService)
			})
			notes.POST("/:id/unshare", func(c *gin.Context) {
				handler.UnshareNoteHandler(c, shareService)
			})

			// Rendered export
			notes.GET("/:id/export", func(c *gin.Context) {
				handler.ExportNoteHandler(c, notesService)
			})
		}
	}

	return router
}

func main() {
	if err := repository.SetupIndexes(utils.MongoClient.Database(os.Getenv("MONGO_DB"))); err != nil {
		log.Fatalf("Failed to set up indexes: %v", err)
	}

	router := setupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
