// Package main provides the entry point for the authoring service: link
// minting with short-code allocation and the admin collision metrics.
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
	log.Println("Starting authoring service...")

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
		log.Printf("Authoring service listening on %s", address)
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

	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}

	log.Println("Authoring service stopped")
}

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

	linkRepo := repository.NewLinkRepository(mongodb)

	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	allocator := businessflow.NewShortCodeAllocator(linkRepo, cfg.URL.ShortCodeLength, cfg.URL.MaxRetries)
	linkFlow := businessflow.NewLinkFlow(linkRepo, allocator, cfg)

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, serviceVersion)
	urlHandler := handlers.NewURLHandler(linkFlow)

	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	appRouter := router.NewAuthoringRouter(cfg, healthHandler, urlHandler, authMiddleware)

	return appRouter, closers, nil
}
