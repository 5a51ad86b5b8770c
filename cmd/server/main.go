package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/circleops/treasury/internal/application/identity"
	treasuryapp "github.com/circleops/treasury/internal/application/treasury"
	"github.com/circleops/treasury/internal/infrastructure/auth"
	"github.com/circleops/treasury/internal/infrastructure/config"
	"github.com/circleops/treasury/internal/infrastructure/logger"
	"github.com/circleops/treasury/internal/infrastructure/persistence"
	"github.com/circleops/treasury/internal/interfaces/http/handler"
	"github.com/circleops/treasury/internal/interfaces/http/middleware"
	"github.com/circleops/treasury/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting treasury server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Connect to the database with a zap-backed gorm logger
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Repositories
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	budgetRepo := persistence.NewGormBudgetRepository(db.DB)
	fundRepo := persistence.NewGormFundRepository(db.DB)
	transferRepo := persistence.NewGormPaymentTransferRepository(db.DB)
	reimbursementRepo := persistence.NewGormReimbursementRepository(db.DB)
	chargeRepo := persistence.NewGormChargeRepository(db.DB)
	recurringRepo := persistence.NewGormRecurringTransferRepository(db.DB)
	directExpenseRepo := persistence.NewGormDirectExpenseRepository(db.DB)
	plannedExpenseRepo := persistence.NewGormPlannedExpenseRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(memberRepo, jwtService, identityapp.DefaultAuthServiceConfig(), log)
	transferService := treasuryapp.NewPaymentTransferService(transferRepo)
	nettingService := treasuryapp.NewNettingService(uow)
	executionService := treasuryapp.NewTransferExecutionService(uow)
	recurringService := treasuryapp.NewRecurringService(uow)
	fundService := treasuryapp.NewFundService(fundRepo, budgetRepo)
	movementService := treasuryapp.NewFundMovementService(uow)
	reimbursementService := treasuryapp.NewReimbursementService(reimbursementRepo, fundRepo)
	chargeService := treasuryapp.NewChargeService(chargeRepo, fundRepo)
	recurringTransferService := treasuryapp.NewRecurringTransferService(recurringRepo, fundRepo)
	expenseService := treasuryapp.NewExpenseService(directExpenseRepo, plannedExpenseRepo, fundRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	systemHandler := handler.NewSystemHandler()
	transferHandler := handler.NewPaymentTransferHandler(transferService, nettingService, executionService, recurringService)
	fundHandler := handler.NewFundHandler(fundService, movementService)
	reimbursementHandler := handler.NewReimbursementHandler(reimbursementService)
	chargeHandler := handler.NewChargeHandler(chargeService)
	recurringTransferHandler := handler.NewRecurringTransferHandler(recurringTransferService)
	expenseHandler := handler.NewExpenseHandler(expenseService)

	// HTTP server setup
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", healthHandler(db))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.SkipPaths = append(jwtConfig.SkipPaths,
		"/api/v1/ping",
		"/api/v1/system/info",
	)
	jwtConfig.Logger = log

	circleConfig := middleware.DefaultCircleConfig()
	circleConfig.SkipPaths = append(circleConfig.SkipPaths,
		"/api/v1/ping",
		"/api/v1/system/info",
	)
	circleConfig.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.CircleMiddlewareWithConfig(circleConfig),
	)
	r.Register(
		systemHandler,
		authHandler,
	).RegisterGroup("/treasury",
		transferHandler,
		fundHandler,
		reimbursementHandler,
		chargeHandler,
		recurringTransferHandler,
		expenseHandler,
	).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// healthHandler reports liveness including database connectivity
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ginLog := logger.GetGinLogger(c)

		if err := db.Ping(); err != nil {
			ginLog.Error("Health check failed: database unreachable", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"time":   time.Now().Format(time.RFC3339),
				"error":  "database unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
