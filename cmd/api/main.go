package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/patronum/backend/internal/config"
	"github.com/patronum/backend/internal/handlers"
	"github.com/patronum/backend/internal/middleware"
	"github.com/patronum/backend/internal/models"
	"github.com/patronum/backend/internal/services"
	"github.com/patronum/backend/internal/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Select the photo store backing
	var photos store.PhotoStore
	switch cfg.StoreBackend {
	case "postgres":
		db, err := models.InitDB(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		if err := models.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		photos = store.NewGormStore(db)
	case "memory":
		photos = store.NewMemoryStore()
	default:
		log.Fatalf("Unknown store backend: %s", cfg.StoreBackend)
	}

	// Initialize services
	s3Service, err := services.NewS3Service(cfg)
	if err != nil {
		log.Fatalf("Failed to init S3 service: %v", err)
	}
	captionService := services.NewCaptionService(cfg)
	ttsService := services.NewTTSService(cfg)
	storageService := services.NewStorageService(cfg)
	albumService := services.NewAlbumService(cfg, photos, s3Service, captionService, ttsService, storageService)

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	// Initialize handlers
	albumHandler := handlers.NewAlbumHandler(albumService, photos, cfg)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.POST("/upload", albumHandler.UploadPhoto)
	router.GET("/photos", albumHandler.ListPhotos)
	router.GET("/photos/:id", albumHandler.GetPhoto)
	router.GET("/photos/:id/image", albumHandler.GetPhotoImage)
	router.GET("/search", albumHandler.SearchPhotos)

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  120 * time.Second, // uploads plus two upstream API calls
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
