package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"picklist/internal/api"
	"picklist/internal/app/service"
	"picklist/internal/common/security"
	"picklist/internal/domain/repository"
	"picklist/internal/domain/repository/memory"
	"picklist/internal/platform/cache"
	"picklist/internal/platform/config"
	"picklist/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Repositories
	var (
		userRepo      repository.UserRepository
		productRepo   repository.ProductRepository
		selectionRepo repository.SelectionRepository
		blacklist     repository.TokenBlacklist
	)
	switch config.AppConfig.StoreBackend {
	case "memory":
		users := memory.NewUserRepository()
		products := memory.NewProductRepository()
		userRepo = users
		productRepo = products
		selectionRepo = memory.NewSelectionRepository(users, products)
		blacklist = memory.NewTokenBlacklist()
		fmt.Println("Using in-memory store backend.")
	case "postgres":
		database.Connect()
		defer database.Close()
		cache.ConnectRedis()
		defer cache.CloseRedis()
		userRepo = repository.NewPgUserRepository(database.DB)
		productRepo = repository.NewPgProductRepository(database.DB)
		selectionRepo = repository.NewPgSelectionRepository(database.DB)
		blacklist = repository.NewRedisTokenBlacklist(cache.RDB)
	default:
		log.Fatalf("Unknown STORE_BACKEND %q (want postgres or memory)", config.AppConfig.StoreBackend)
	}

	// 4. Initialize Services
	authService := service.NewAuthService(userRepo, selectionRepo, blacklist)
	productService := service.NewProductService(productRepo, selectionRepo)

	// 5. Initialize Router & HTTP Server
	router := api.NewRouter(authService, productService, blacklist)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
