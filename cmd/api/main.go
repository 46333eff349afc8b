// @title Learning Hour API
// @version 1.0
// @description API for the Learning Hour video lesson and quiz platform.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"learning-hour/internal/adapter"
	"learning-hour/internal/cache"
	"learning-hour/internal/config"
	"learning-hour/internal/database"
	"learning-hour/internal/handler"
	"learning-hour/internal/logger"
	"learning-hour/internal/middleware"
	"learning-hour/internal/repository"
	"learning-hour/internal/service"

	_ "learning-hour/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	moduleRepository := repository.NewModuleDatabaseAdapter(db)
	profileRepository := repository.NewProfileDatabaseAdapter(db)
	attemptRepository := repository.NewAttemptDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Initialize services
	authService, err := service.NewAuthService(profileRepository, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	moduleService := service.NewModuleService(moduleRepository, attemptRepository, txManager, cacheAdapter)
	quizService := service.NewQuizService(moduleRepository, attemptRepository, txManager, cacheAdapter, cfg.Cache)
	dashboardService := service.NewDashboardService(attemptRepository, profileRepository, moduleRepository, cacheAdapter, cfg.Cache)
	userService := service.NewUserService(profileRepository)

	// Initialize handlers
	moduleHandler := handler.NewModuleHandler(moduleService)
	quizHandler := handler.NewQuizHandler(quizService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	userHandler := handler.NewUserHandler(userService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	apiGroup := app.Group("/api")

	// Public module routes
	apiGroup.Get("/modules", moduleHandler.GetAllModules)
	apiGroup.Get("/modules/:id", moduleHandler.GetModule)

	// Quiz routes (all protected)
	protected := middleware.Protected(authService)
	apiGroup.Get("/modules/:id/quiz", protected, quizHandler.GetQuizState)
	apiGroup.Post("/modules/:id/video-finished", protected, quizHandler.MarkVideoFinished)
	apiGroup.Post("/modules/:id/quiz/start", protected, quizHandler.StartQuiz)
	apiGroup.Post("/quiz/sessions/:sid/answer", protected, quizHandler.Answer)
	apiGroup.Post("/quiz/sessions/:sid/submit", protected, quizHandler.Submit)

	// Dashboard routes
	dashboardGroup := apiGroup.Group("/dashboard", protected)
	dashboardGroup.Get("/leaderboard", dashboardHandler.GetLeaderboard)
	dashboardGroup.Get("/me", dashboardHandler.GetMyProgress)

	// User routes
	userGroup := apiGroup.Group("/users", protected)
	userGroup.Get("/me", userHandler.GetMyProfile)

	// Admin routes
	adminGroup := apiGroup.Group("/admin", protected, middleware.RequireAdmin())
	adminGroup.Post("/modules", moduleHandler.CreateModule)
	adminGroup.Put("/modules/:id", moduleHandler.UpdateModule)
	adminGroup.Delete("/modules/:id", moduleHandler.DeleteModule)
	adminGroup.Get("/progress", dashboardHandler.GetAdminProgress)
	adminGroup.Get("/progress/export", dashboardHandler.ExportProgress)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
