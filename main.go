package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-backend/cache"
	"shop-backend/controllers"
	"shop-backend/database"
	"shop-backend/kafka"
	"shop-backend/logger"
	"shop-backend/models"
	"shop-backend/repository"
	"shop-backend/routes"
	"shop-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.Initialize(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.ConnectPostgres(database.PostgresConfig{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DB:       cfg.PostgresDB,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		SSLMode:  cfg.PostgresSSLMode,
		TimeZone: cfg.PostgresTimeZone,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("Database connection failed", zap.Error(err))
	}
	defer database.Close(db)

	if err := models.Migrate(db); err != nil {
		zapLogger.Fatal("Migration failed", zap.Error(err))
	}

	// Redis is optional; without it product reads go straight to the DB.
	var productCache *cache.RedisProductCache
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			zapLogger.Warn("Redis unavailable, running without product cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			productCache = cache.NewRedisProductCache(redisClient, cache.DefaultTTL, zapLogger)
		}
	}

	// Kafka is optional; order events are best-effort either way.
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, zapLogger)
		defer producer.Close()
	}

	userRepo := repository.NewGormUserRepository(db)
	storeRepo := repository.NewGormStoreRepository(db)
	productRepo := repository.NewGormProductRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	txManager := repository.NewGormTxManager(db)

	var events services.EventPublisher
	if producer != nil {
		events = producer
	}
	var invalidator services.ProductInvalidator
	var productCacheIface services.ProductCache
	if productCache != nil {
		invalidator = productCache
		productCacheIface = productCache
	}

	userService := services.NewUserService(userRepo, zapLogger)
	storeService := services.NewStoreService(storeRepo)
	productService := services.NewProductService(productRepo, productCacheIface, zapLogger)
	orderService := services.NewOrderService(orderRepo, zapLogger)
	checkoutService := services.NewCheckoutService(txManager, events, invalidator, cfg.CheckoutTimeout, zapLogger)

	userController := controllers.NewUserController(userService, zapLogger)
	storeController := controllers.NewStoreController(storeService, zapLogger)
	productController := controllers.NewProductController(productService, zapLogger)
	orderController := controllers.NewOrderController(checkoutService, orderService, zapLogger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zapLogger))

	routes.Register(r, userController, storeController, productController, orderController)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
}
