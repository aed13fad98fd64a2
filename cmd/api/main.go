package main

import (
	"fmt"
	"log"
	"os"

	"github.com/22mk294/Tempo-Home/internal/auth"
	"github.com/22mk294/Tempo-Home/internal/cleanup"
	"github.com/22mk294/Tempo-Home/internal/config"
	"github.com/22mk294/Tempo-Home/internal/database"
	"github.com/22mk294/Tempo-Home/internal/handlers"
	"github.com/22mk294/Tempo-Home/internal/scheduler"
	"github.com/22mk294/Tempo-Home/internal/search"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; environment wins over file values either way
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	configPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", configPath, err)
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	if err != nil {
		log.Fatalf("Failed to initialize token manager: %v", err)
	}

	// Search is optional: without a configured host the API runs with the
	// search routes answering 503.
	var searchClient *search.SearchClient
	if cfg.Search.Meilisearch.Host != "" {
		searchClient = search.NewSearchClient(cfg.Search.Meilisearch.Host, cfg.Search.Meilisearch.APIKey)
		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	} else {
		log.Println("Search disabled: no Meilisearch host configured")
	}

	cleanupService := cleanup.NewService(store)
	sched := scheduler.NewScheduler(cleanupService, cfg)
	if err := sched.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	r := handlers.SetupRouter(store, tokens, searchClient, cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server starting on port %d", cfg.Server.Port)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// openStore connects to the configured database backend.
func openStore(cfg *config.Config) (database.Store, error) {
	switch cfg.Database.Type {
	case "postgres":
		log.Println("Using PostgreSQL")
		pg := cfg.Database.Postgres
		return database.NewPostgresDB(pg.Host, fmt.Sprintf("%d", pg.Port), pg.User, pg.Password, pg.Database, pg.SSLMode)
	default:
		log.Println("Using MySQL with GORM")
		my := cfg.Database.MySQL
		return database.NewGormDB(my.Host, fmt.Sprintf("%d", my.Port), my.User, my.Password, my.Database)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
