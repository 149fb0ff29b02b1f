package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartRepo "storefront_api/internal/domain/cart/repository"
	catalogRepo "storefront_api/internal/domain/catalog/repository"
	orderRepo "storefront_api/internal/domain/order/repository"
	orderService "storefront_api/internal/domain/order/service"
	userRepo "storefront_api/internal/domain/user/repository"
	voucherRepo "storefront_api/internal/domain/voucher/repository"
	voucherService "storefront_api/internal/domain/voucher/service"
	"storefront_api/internal/pkg/config"
	"storefront_api/internal/pkg/middleware"
	"storefront_api/internal/pkg/notifier"
	"storefront_api/internal/pkg/registry"
	"storefront_api/internal/pkg/sweeper"
	"storefront_api/pkg/database"
	"storefront_api/pkg/logger"
	"storefront_api/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	_ "storefront_api/internal/domain/order"
	_ "storefront_api/internal/domain/payment"
)

func main() {
	config.LoadConfig()
	logger.Init(config.GlobalConfig.App.Debug)
	defer logger.Sync()

	db := database.InitDatabase()
	rdb := database.InitRedis()

	// Notification pool. It is a shared singleton so modules can emit
	// events without owning mail configuration.
	pool := notifier.NewPool(
		notifier.NewSMTPMailer(config.GlobalConfig.SMTP),
		userRepo.NewUserRepository(db),
		config.GlobalConfig.SMTP.AdminEmail,
		4, 256,
	)
	pool.Start()
	notifier.Global = pool

	if config.GlobalConfig.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	moduleCtx := &registry.ModuleContext{
		DB:     db,
		Redis:  rdb,
		Router: r,
	}
	if err := registry.InitModules(moduleCtx); err != nil {
		logger.Log.Fatal("Failed to init modules", zap.Error(err))
	}

	// The sweeper gets its own service instance; it shares nothing with
	// the HTTP path except the database.
	expirer := orderService.NewOrderService(
		orderRepo.NewOrderRepository(db),
		catalogRepo.NewProductRepository(db),
		cartRepo.NewCartRepository(db),
		voucherService.NewVoucherService(voucherRepo.NewVoucherRepository(db)),
		notifier.Global,
		config.GlobalConfig.Shop,
	)
	sw := sweeper.New(expirer, rdb, time.Duration(config.GlobalConfig.Shop.SweepIntervalMinutes)*time.Minute)
	sw.Start()

	srv := &http.Server{
		Addr:    ":" + config.GlobalConfig.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("port", config.GlobalConfig.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	sw.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Forced shutdown", zap.Error(err))
	}
	logger.Log.Info("Server exited")
}
