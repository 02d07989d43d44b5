// Package main runs the gardening CRM HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SebastianTorreiro/jardineria-crm/config"
	"github.com/SebastianTorreiro/jardineria-crm/internal/auth"
	"github.com/SebastianTorreiro/jardineria-crm/internal/clients"
	"github.com/SebastianTorreiro/jardineria-crm/internal/expenses"
	"github.com/SebastianTorreiro/jardineria-crm/internal/finance"
	"github.com/SebastianTorreiro/jardineria-crm/internal/inventory"
	"github.com/SebastianTorreiro/jardineria-crm/internal/middleware"
	"github.com/SebastianTorreiro/jardineria-crm/internal/notify"
	"github.com/SebastianTorreiro/jardineria-crm/internal/organizations"
	"github.com/SebastianTorreiro/jardineria-crm/internal/properties"
	"github.com/SebastianTorreiro/jardineria-crm/internal/visits"
	"github.com/SebastianTorreiro/jardineria-crm/internal/workers"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/database"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/queue"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/redis"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/response"
	"github.com/SebastianTorreiro/jardineria-crm/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			ReportsBucket:        cfg.AWS.ReportsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	telegram, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
	if err != nil {
		logger.Warn("telegram notifications disabled", zap.Error(err))
	}

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Organizations
	orgRepo := organizations.NewRepository(pool)
	orgHandler := organizations.NewHandler(orgRepo)

	// Clients & properties
	clientRepo := clients.NewRepository(pool)
	clientHandler := clients.NewHandler(clientRepo, logger)
	propertyRepo := properties.NewRepository(pool)
	propertyHandler := properties.NewHandler(propertyRepo, logger)

	// Workers
	workerRepo := workers.NewRepository(pool)
	workerHandler := workers.NewHandler(workerRepo, logger)

	// Visits and the completion flow
	visitRepo := visits.NewRepository(pool)
	var notifier visits.Notifier
	if telegram != nil {
		notifier = telegram
	}
	visitService := visits.NewService(visitRepo, workerRepo, notifier, logger)
	visitHandler := visits.NewHandler(visitRepo, visitService, logger)

	// Expenses
	expenseRepo := expenses.NewRepository(pool)
	expenseHandler := expenses.NewHandler(expenseRepo, logger)

	// Inventory
	inventoryRepo := inventory.NewRepository(pool)
	inventoryHandler := inventory.NewHandler(inventoryRepo, logger)

	// Finance: summaries plus the async report export pipeline
	financeRepo := finance.NewRepository(pool)
	financeService := finance.NewService(financeRepo)
	financeHandler := finance.NewHandler(financeService, financeRepo, jobQueue, s3Client, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public auth, rate limited per IP
	authLimit := middleware.RateLimit(rdb.Client, 10, time.Minute, logger)
	router.POST("/auth/register", authLimit, authHandler.Register)
	router.POST("/auth/login", authLimit, authHandler.Login)

	// Authenticated, pre-organization
	authed := router.Group("/", middleware.JWT(jwtService))
	authed.POST("/organizations", orgHandler.Create)
	authed.GET("/organizations/me", orgHandler.GetMine)

	// Organization-scoped API
	api := router.Group("/", middleware.JWT(jwtService), organizations.RequireOrganization(orgRepo))

	api.GET("/clients", clientHandler.List)
	api.POST("/clients", clientHandler.Create)
	api.GET("/clients/:id", clientHandler.Get)
	api.PATCH("/clients/:id", clientHandler.Update)
	api.DELETE("/clients/:id", clientHandler.Delete)
	api.GET("/clients/:id/properties", propertyHandler.ListByClient)
	api.POST("/clients/:id/properties", propertyHandler.Create)
	api.PATCH("/properties/:id", propertyHandler.Update)
	api.DELETE("/properties/:id", propertyHandler.Delete)

	api.GET("/workers", workerHandler.List)
	api.POST("/workers", workerHandler.Create)
	api.PATCH("/workers/:id", workerHandler.Update)
	api.DELETE("/workers/:id", workerHandler.Delete)

	api.GET("/visits", visitHandler.List)
	api.POST("/visits", visitHandler.Create)
	api.PATCH("/visits/:id", visitHandler.Update)
	api.POST("/visits/:id/cancel", visitHandler.Cancel)
	api.POST("/visits/:id/complete", visitHandler.Complete)
	api.POST("/visits/:id/preview-split", visitHandler.PreviewSplit)

	api.GET("/expenses", expenseHandler.List)
	api.POST("/expenses", expenseHandler.Create)
	api.DELETE("/expenses/:id", expenseHandler.Delete)

	api.GET("/tools", inventoryHandler.ListTools)
	api.POST("/tools", inventoryHandler.CreateTool)
	api.PATCH("/tools/:id", inventoryHandler.UpdateTool)
	api.DELETE("/tools/:id", inventoryHandler.DeleteTool)
	api.GET("/supplies", inventoryHandler.ListSupplies)
	api.POST("/supplies", inventoryHandler.CreateSupply)
	api.PATCH("/supplies/:id", inventoryHandler.UpdateSupply)
	api.POST("/supplies/:id/adjust", inventoryHandler.AdjustSupply)
	api.DELETE("/supplies/:id", inventoryHandler.DeleteSupply)

	api.GET("/finance/summary", financeHandler.MonthlySummary)
	api.GET("/finance/distribution", financeHandler.Distribution)
	api.POST("/finance/reports", financeHandler.RequestExport)
	api.GET("/finance/reports/:id", financeHandler.GetExport)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
