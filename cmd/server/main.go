package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/painelgpt/backend/config"
	httpDelivery "github.com/painelgpt/backend/internal/delivery/http"
	"github.com/painelgpt/backend/internal/domain"
	"github.com/painelgpt/backend/internal/infrastructure/memory"
	"github.com/painelgpt/backend/internal/infrastructure/postgres"
	"github.com/painelgpt/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PainelGPT Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Store Type: %s", cfg.Store.Type)

	// Initialize the catalog and match stores
	var catalogStore domain.CatalogRepository
	var matchStore domain.MatchRepository

	switch cfg.Store.Type {
	case "postgres":
		db, err := postgres.Connect(cfg.Store.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.RunMigrations(context.Background()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		catalogStore = postgres.NewCatalogRepo(db)
		matchStore = postgres.NewMatchRepo(db)
	case "memory":
		// Empty in-memory stores; useful for local frontend work and tests
		catalogStore = memory.NewCatalogStore()
		matchStore = memory.NewMatchStore()
		log.Printf("WARNING: memory store selected - data is not persisted")
	}

	// Initialize usecase layer
	matchService := usecase.NewMatchService(catalogStore, matchStore, usecase.MatchConfig{
		EnableDebugLogging: cfg.Matching.DebugLogging,
	})
	reviewService := usecase.NewReviewService(matchStore)
	auditService := usecase.NewAuditService(catalogStore)

	log.Printf("Matching: debug=%v", cfg.Matching.DebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(matchService, reviewService, auditService, catalogStore)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
