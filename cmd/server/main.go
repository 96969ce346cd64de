package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/localmart/gateway"
	"github.com/example/localmart/pkg/config"
	"github.com/example/localmart/pkg/discovery"
	"github.com/example/localmart/pkg/events"
	"github.com/example/localmart/pkg/orders"
	"github.com/example/localmart/pkg/pricing"
	"github.com/example/localmart/pkg/repository"
	"github.com/example/localmart/pkg/shops"
	"go.uber.org/zap"
)

func main() {
	// Load config
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting service",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	ctx := context.Background()

	// MongoDB
	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoRepo.Close(ctx)

	if err := mongoRepo.Ping(ctx); err != nil {
		logger.Fatal("MongoDB ping failed", zap.Error(err))
	}
	logger.Info("MongoDB connected successfully")

	// Redis
	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	defer redisRepo.Close()

	if err := redisRepo.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}

	// Audit actor
	publisher := events.NewPublisher(mongoRepo, logger)
	defer publisher.Stop()

	// Services
	table := pricing.NewTable(repository.NewBandRepo(mongoRepo), redisRepo, &cfg.Pricing, logger)
	directory := shops.NewDirectory(repository.NewShopRepo(mongoRepo), redisRepo, logger)
	orderService := orders.NewService(repository.NewOrderRepo(mongoRepo), directory, table, publisher, &cfg.Pricing, logger)

	// Connect to etcd for service discovery
	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd)
	if err != nil {
		logger.Fatal("Failed to connect to etcd", zap.Error(err))
	}
	defer sd.Close()

	// Register service
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	if err := sd.Register(ctx, instance); err != nil {
		logger.Fatal("Failed to register service", zap.Error(err))
	}
	logger.Info("Service registered in etcd",
		zap.String("name", cfg.Server.Name),
		zap.String("address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)))

	// HTTP gateway
	gw := gateway.NewGateway(cfg, logger, orderService, table)
	gw.SetupRoutes()

	serverErr := make(chan error, 1)
	go func() {
		if err := gw.Start(); err != nil {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	// Deregister service
	if err := sd.Deregister(ctx, instance); err != nil {
		logger.Error("Failed to deregister service", zap.Error(err))
	}

	logger.Info("Service stopped")
}
