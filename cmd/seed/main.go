package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/ggorockee/leadmaps/internal/config"
	"github.com/ggorockee/leadmaps/internal/database"
	"github.com/ggorockee/leadmaps/internal/logger"
	"github.com/ggorockee/leadmaps/internal/seed"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	file := flag.String("file", cfg.SeedFile, "seed YAML file")
	flag.Parse()

	if err := logger.Init(cfg.ServerEnv, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.GetLogger("seed")

	entries, err := seed.Load(*file)
	if err != nil {
		zlog.Fatalw("Failed to load seed file", "file", *file, "error", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		zlog.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		zlog.Fatalw("Failed to run migrations", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := seed.Apply(ctx, db, entries)
	if err != nil {
		zlog.Fatalw("Failed to apply seed", "error", err)
	}
	zlog.Infow("Seed complete", "file", *file, "businesses", n)
}
