package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"invoices-dashboard-backend/cache"
	"invoices-dashboard-backend/config"
	"invoices-dashboard-backend/controllers"
	"invoices-dashboard-backend/routes"
	"invoices-dashboard-backend/services"
	"invoices-dashboard-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := config.NewLogger(cfg.Log)
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWT.Secret == "" {
		logger.Warn("No JWT secret configured, generating an ephemeral one")
		cfg.JWT.Secret = utils.GenerateJWTSecret()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := config.RunMigrations(cfg.Database, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	db, err := config.ConnectDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	var invalidator cache.Invalidator
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer client.Close()
		invalidator = cache.NewRedisInvalidator(client, cfg.Redis.Channel, logger)
	} else {
		invalidator = cache.NewMemoryInvalidator()
	}

	queries := services.NewQueryService(db, logger)
	mutations := services.NewMutationService(db, invalidator, logger)
	auth := services.NewAuthService(services.NewCredentialsProvider(db, cfg.JWT.Secret, cfg.JWT.Expiration), logger)

	if cfg.Revenue.RefreshEnabled {
		revenue := services.NewRevenueService(db, logger)
		if err := revenue.StartScheduler(ctx, cfg.Revenue.RefreshSchedule); err != nil {
			logger.Fatal("Failed to start revenue scheduler", zap.Error(err))
		}
	}

	r := routes.SetupRouter(routes.Handlers{
		Auth:      controllers.NewAuthController(auth, cfg.IsProduction(), logger),
		Dashboard: controllers.NewDashboardController(queries),
		Invoices:  controllers.NewInvoiceController(queries, mutations),
		Customers: controllers.NewCustomerController(queries),
	}, cfg.HTTP, cfg.JWT.Secret, logger)
	printRoutes(r)

	logger.Info("Server starting", zap.String("app", cfg.App.Name), zap.String("port", cfg.App.Port))
	if err := r.Run(":" + cfg.App.Port); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
