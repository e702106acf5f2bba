package main

import (
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/pflag"

	"thermospline/internal/config"
	"thermospline/internal/database"
	"thermospline/internal/server"
)

func main() {
	var (
		configPath string
		addr       string
	)
	pflag.StringVar(&configPath, "config", "./config.yaml", "Path to the yaml config file")
	pflag.StringVar(&addr, "addr", "", "Listen address, overrides the config value")
	pflag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	// Initialize database
	db, err := database.NewDB(config.GetDatabaseDSN())
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis client for response caching
	redisCfg := config.GetRedisConfig()
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	defer redisClient.Close()

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	srv := server.NewServer(db, redisClient, cacheTTL)

	log.Printf("Serving archived temperature series on %s", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
