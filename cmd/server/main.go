package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"github.com/seedslab/seeds-analytics/internal/api"
	"github.com/seedslab/seeds-analytics/internal/auth"
	"github.com/seedslab/seeds-analytics/internal/config"
	"github.com/seedslab/seeds-analytics/internal/source"
	"github.com/seedslab/seeds-analytics/internal/storage"
	"github.com/seedslab/seeds-analytics/internal/topicmap"
)

func main() {
	cfg, err := config.Load(os.Getenv("SEEDS_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.SecretKey = secret
	}
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		cfg.Auth.AdminHash = hash
	}

	var layouts storage.LayoutRepository
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		layouts = storage.NewPostgresLayoutRepository(db)
	}

	authCfg := auth.DefaultConfig()
	if cfg.Auth.SecretKey != "" {
		authCfg.SecretKey = cfg.Auth.SecretKey
	}
	authCfg.AdminHash = cfg.Auth.AdminHash

	store := source.NewStore(source.NewLoader(cfg.Data))
	mapCfg := topicmap.DefaultConfig()
	if cfg.Reducer != "" {
		mapCfg.Method = cfg.Reducer
	}
	if len(cfg.Palette) > 0 {
		mapCfg.Palette = cfg.Palette
	}
	mapService := topicmap.NewService(mapCfg)

	server := api.NewServer(api.ServerConfig{
		Store:       store,
		TopicMap:    mapService,
		AuthService: auth.NewJWTService(authCfg),
		Layouts:     layouts,
	})

	fmt.Printf("Starting seeds-analytics server on port %s\n", cfg.Server.Port)
	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
