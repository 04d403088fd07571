package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/sdourte/Tripix/internal/cache"
	"github.com/sdourte/Tripix/internal/config"
	"github.com/sdourte/Tripix/internal/db"
	"github.com/sdourte/Tripix/internal/imaging"
	"github.com/sdourte/Tripix/internal/server"
	"github.com/sdourte/Tripix/internal/storage"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	conn, err := db.Open(db.Pool{
		MaxOpenConns:           cfg.DBMaxOpenConns,
		MaxIdleConns:           cfg.DBMaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.DBConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.DBConnMaxIdleTimeSeconds,
	})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	objects, err := storage.NewS3Store(context.Background(), storage.S3Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		AccessKeySecret: cfg.S3AccessKeySecret,
	})
	if err != nil {
		log.Fatalf("object store setup failed: %v", err)
	}

	var players *cache.PlayerCache
	if cfg.RedisURL != "" {
		players, err = cache.New(cfg.RedisURL)
		if err != nil {
			log.Printf("redis unavailable, player lookups stay on the database: %v", err)
		}
	}

	compressor := imaging.JPEGCompressor{
		MaxSide: cfg.MaxImageSide,
		Quality: cfg.JPEGQuality,
	}

	srv := server.New(server.NewGormStore(conn), objects, compressor, players, cfg)
	log.Printf("tripix server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
