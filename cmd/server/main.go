package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cardfolio/cardfolio/internal/api"
	"github.com/cardfolio/cardfolio/internal/catalog"
	"github.com/cardfolio/cardfolio/internal/database"
	"github.com/cardfolio/cardfolio/internal/services"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Database path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./cardfolio.db"
	}

	// Initialize database
	if err := database.Initialize(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Seed the reference catalog on first run
	if err := catalog.Seed(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed reference catalog: %v", err)
	}
	catalogRepo := catalog.NewGormRepository(database.GetDB())

	// Initialize insights service (pure analyzer/recommender + memo cache)
	insightsService, err := services.NewInsightsService(database.GetDB(), catalogRepo)
	if err != nil {
		log.Fatalf("Failed to initialize insights service: %v", err)
	}

	// Initialize market client for the external valuation backend
	marketRPS := 2.0
	if rpsStr := os.Getenv("MARKET_API_RPS"); rpsStr != "" {
		if rps, err := strconv.ParseFloat(rpsStr, 64); err == nil {
			marketRPS = rps
		}
	}
	marketClient := services.NewMarketClient(os.Getenv("MARKET_API_URL"), os.Getenv("MARKET_API_KEY"), marketRPS)

	// Initialize price worker for background market price refreshes
	priceWorker := services.NewPriceWorker(database.GetDB(), marketClient)

	// Initialize snapshot service for daily value tracking
	snapshotService := services.NewSnapshotService(database.GetDB())

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start price worker in background with panic recovery
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("PANIC in price worker: %v - restarting in 30 seconds", r)
					}
				}()
				priceWorker.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return // Graceful shutdown
			case <-time.After(30 * time.Second):
				log.Println("Price worker restarting after panic recovery...")
			}
		}
	}()

	// Start snapshot service in background
	go snapshotService.Start(ctx)

	// Setup router
	router := api.SetupRouter(catalogRepo, insightsService, priceWorker, snapshotService)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the background workers
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
