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
	"github.com/wayspot/backend/internal/config"
	"github.com/wayspot/backend/internal/handlers"
	"github.com/wayspot/backend/internal/middleware"
	"github.com/wayspot/backend/internal/models"
	"github.com/wayspot/backend/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.New()

	// Initialize database
	db, err := models.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	redisClient := models.InitRedis(cfg)
	defer redisClient.Close()

	// Initialize services
	blobStore := services.NewBlobStore(cfg)
	mediaService := services.NewMediaService(db, cfg, blobStore)
	reconcileService := services.NewReconcileService(db, cfg, blobStore)
	listingService := services.NewListingService(db, mediaService)

	// Optional periodic orphan sweep; reconciliation is otherwise
	// operator-triggered via the admin endpoint
	if cfg.ReconcileInterval > 0 {
		go func() {
			for {
				time.Sleep(cfg.ReconcileInterval)
				report, err := reconcileService.Reconcile(context.Background())
				if err != nil {
					log.Printf("Periodic media reconcile error: %v", err)
				} else if report.Deleted > 0 || report.Errors > 0 {
					log.Printf("Periodic media reconcile: kept=%d deleted=%d errors=%d",
						report.Kept, report.Deleted, report.Errors)
				}
			}
		}()
	}

	// Setup Gin router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimiter(redisClient, cfg))

	// Ingested images are served straight from the upload directory
	router.Static("/"+cfg.UploadDir, cfg.UploadDir)

	// Initialize handlers
	mediaHandler := handlers.NewMediaHandler(mediaService, reconcileService, cfg)
	listingHandler := handlers.NewListingHandler(listingService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup routes
	api := router.Group("/api/v1")
	{
		// Catch-all OPTIONS handler for CORS preflight requests
		api.OPTIONS("/*path", func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})

		// Listings
		api.POST("/spots", listingHandler.CreateSpot)
		api.GET("/spots/:id", listingHandler.GetSpot)
		api.DELETE("/spots/:id", listingHandler.DeleteSpot)
		api.POST("/landmarks", listingHandler.CreateLandmark)
		api.GET("/landmarks/:id", listingHandler.GetLandmark)
		api.DELETE("/landmarks/:id", listingHandler.DeleteLandmark)

		// Entity galleries
		api.GET("/:entityType/:entityId/images", mediaHandler.ListImages)

		// Ingestion routes with upload rate limiting
		uploadGroup := api.Group("")
		uploadGroup.Use(middleware.UploadRateLimit(redisClient, cfg))
		{
			uploadGroup.POST("/:entityType/:entityId/images", mediaHandler.UploadImage)
			uploadGroup.POST("/:entityType/:entityId/images/url", mediaHandler.IngestImageURL)
		}

		// Per-asset operations
		api.PUT("/images/:id/primary", mediaHandler.SetPrimary)
		api.DELETE("/images/:id/primary", mediaHandler.UnsetPrimary)
		api.DELETE("/images/:id", mediaHandler.DeleteImage)

		// Operator tooling
		api.POST("/admin/media/reconcile", mediaHandler.Reconcile)
	}

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
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
