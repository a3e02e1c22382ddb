package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/dartsstats/internal/config"
	"github.com/dropDatabas3/dartsstats/internal/seed"
	pgstore "github.com/dropDatabas3/dartsstats/internal/store/pg"
)

func main() {
	configPath := flag.String("config", "configs/config.example.yaml", "Path to YAML config")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	if cfg.Storage.DSN == "" {
		log.Fatal("storage.dsn is empty (set STORAGE_DSN or the config file)")
	}

	ctx := context.Background()
	st, err := pgstore.New(ctx, cfg.Storage.DSN, pgstore.Config{})
	if err != nil {
		log.Fatalf("postgres store: %v", err)
	}
	defer st.Close()

	if err := seed.Apply(ctx, st); err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Println("Seed completed.")
}
