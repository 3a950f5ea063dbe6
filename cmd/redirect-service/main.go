// Package main provides the entry point for the redirect service: the
// hot-path resolver, click ingestion, and the owner dashboard.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okhira/mijikai/app/handlers"
	"github.com/okhira/mijikai/app/middleware"
	"github.com/okhira/mijikai/app/router"
	"github.com/okhira/mijikai/app/services"
	businessflow "github.com/okhira/mijikai/business_flow"
	"github.com/okhira/mijikai/config"
	"github.com/okhira/mijikai/database"
	"github.com/okhira/mijikai/repository"
)

const serviceVersion = "1.0.0"

func main() {
	log.Println("Starting redirect service...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appRouter, closers, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	appRouter.SetupRoutes()
	server := appRouter.GetApp()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf(":%d", cfg.App.Port)
		log.Printf("Redirect service listening on %s", address)
		if err := server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during HTTP shutdown: %v", err)
	}

	// Long-lived resources close in reverse order of initialization
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}

	log.Println("Redirect service stopped")
}

// initializeApplication wires every component once at startup: each receives
// its dependencies positionally, no service locator involved.
func initializeApplication(cfg *config.Config) (router.Router, []func(), error) {
	var closers []func()

	mongodb, err := database.NewMongoDB(cfg.MongoDB)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, func() {
		if err := mongodb.Close(); err != nil {
			log.Printf("Error closing mongodb: %v", err)
		}
	})

	indexCtx, cancel := context.WithTimeout(context.Background(), cfg.MongoDB.ConnTimeout)
	defer cancel()
	if err := mongodb.EnsureIndexes(indexCtx); err != nil {
		return nil, nil, err
	}

	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, func() {
		if err := rdb.Close(); err != nil {
			log.Printf("Error closing redis: %v", err)
		}
	})

	rabbitmq, err := database.NewRabbitMQ(cfg.RabbitMQ)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, func() {
		if err := rabbitmq.Close(); err != nil {
			log.Printf("Error closing rabbitmq: %v", err)
		}
	})

	// Repositories
	linkRepo := repository.NewLinkRepository(mongodb)
	clickRepo := repository.NewClickEventRepository(mongodb)

	// Services
	cacheService := services.NewCacheService(rdb)
	cacheKeys := services.NewCacheKeyGenerator(cfg.App.Name)
	geoIPService := services.NewGeoIPService(cacheService, cacheKeys, cfg)
	rpcService := services.NewRPCService(rabbitmq)
	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)

	// Flows
	redirectFlow := businessflow.NewRedirectFlow(linkRepo, cacheService, cacheKeys, cfg)
	clickFlow := businessflow.NewClickEventFlow(clickRepo, redirectFlow, geoIPService, rpcService, cfg)
	dashboardFlow := businessflow.NewDashboardFlow(rpcService, cacheService, cacheKeys, cfg)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.App.Name, serviceVersion)
	redirectHandler := handlers.NewRedirectHandler(redirectFlow, clickFlow, cfg)
	dashboardHandler := handlers.NewDashboardHandler(dashboardFlow)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	appRouter := router.NewRedirectRouter(cfg, healthHandler, redirectHandler, dashboardHandler, authMiddleware)

	return appRouter, closers, nil
}
