package main

import (
	"context"

	"github.com/Baekshook/CRM-Projects-sub003/internal/handler"
	"github.com/Baekshook/CRM-Projects-sub003/internal/middleware"
	"github.com/Baekshook/CRM-Projects-sub003/internal/model"
	"github.com/Baekshook/CRM-Projects-sub003/internal/storage"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/config"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/database"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/jwtutil"
	"github.com/Baekshook/CRM-Projects-sub003/pkg/logger"
	"github.com/Baekshook/CRM-Projects-sub003/prometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: "crm-service",
	})
	log := logger.GetLogger()
	log.Info("Starting CRM service...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.User{},
		&model.Customer{},
		&model.Singer{},
		&model.Request{},
		&model.Match{},
		&model.NegotiationEntry{},
		&model.Schedule{},
		&model.Contract{},
		&model.File{},
		&model.Segment{},
		&model.Notification{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations applied")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize file storage. Object storage is only dialed when the
	// configured mode can route content to it.
	var objects storage.ObjectStore
	if cfg.Storage.Mode != "database" {
		minioStore, err := storage.NewMinioStore(context.Background(), &cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objects = minioStore
		log.Info("Object storage connected",
			zap.String("endpoint", cfg.Storage.Endpoint),
			zap.String("bucket", cfg.Storage.Bucket))
	}
	handler.InitFileStore(storage.NewFileStore(db, objects, &cfg.Storage))

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)
	auth.POST("/find-id", handler.FindID)
	auth.POST("/reset-password", handler.ResetPassword)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Staff profile
	users := api.Group("/users")
	users.GET("/profile", handler.GetProfile)
	users.PATCH("/profile", handler.UpdateProfile)
	users.POST("/change-password", handler.ChangePassword)

	// Customers
	customers := api.Group("/customers")
	customers.POST("", handler.CreateCustomer)
	customers.GET("", handler.ListCustomers)
	customers.GET("/:id", handler.GetCustomer)
	customers.PATCH("/:id", handler.UpdateCustomer)
	customers.DELETE("/:id", handler.DeleteCustomer)

	// Singers
	singers := api.Group("/singers")
	singers.POST("", handler.CreateSinger)
	singers.GET("", handler.ListSingers)
	singers.GET("/:id", handler.GetSinger)
	singers.PATCH("/:id", handler.UpdateSinger)
	singers.DELETE("/:id", handler.DeleteSinger)

	// Booking requests
	requests := api.Group("/requests")
	requests.POST("", handler.CreateRequest)
	requests.GET("", handler.ListRequests)
	requests.GET("/:id", handler.GetRequest)
	requests.PATCH("/:id", handler.UpdateRequest)
	requests.DELETE("/:id", handler.DeleteRequest)

	// Matches / negotiations
	matches := api.Group("/matches")
	matches.POST("", handler.CreateMatch)
	matches.GET("", handler.ListMatches)
	matches.GET("/:id", handler.GetMatch)
	matches.PATCH("/:id", handler.UpdateMatch)
	matches.POST("/:id/log", handler.AppendNegotiationEntry)

	// Schedules
	schedules := api.Group("/schedules")
	schedules.GET("", handler.ListSchedules)
	schedules.POST("", handler.CreateSchedule)
	schedules.PATCH("/:id", handler.UpdateSchedule)

	// Contracts
	contracts := api.Group("/contracts")
	contracts.POST("", handler.CreateContract)
	contracts.GET("", handler.ListContracts)
	contracts.GET("/:id", handler.GetContract)
	contracts.PATCH("/:id", handler.UpdateContract)

	// Files
	fileRoutes := api.Group("/files")
	fileRoutes.POST("/upload", handler.UploadFile)
	fileRoutes.GET("/:id", handler.GetFile)
	fileRoutes.GET("/:id/data", handler.GetFileData)
	fileRoutes.PATCH("/:id", handler.UpdateFileMetadata)
	fileRoutes.DELETE("/:id", handler.DeleteFile)

	// Segments
	segments := api.Group("/segments")
	segments.GET("", handler.ListSegments)
	segments.POST("", handler.CreateSegment)
	segments.GET("/:id", handler.GetSegment)
	segments.PATCH("/:id", handler.UpdateSegment)
	segments.DELETE("/:id", handler.DeleteSegment)

	// Notifications
	notifications := api.Group("/notifications")
	notifications.GET("", handler.ListNotifications)
	notifications.POST("/:id/read", handler.MarkNotificationRead)

	// Dashboard
	api.GET("/dashboard/stats", handler.DashboardStats)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
