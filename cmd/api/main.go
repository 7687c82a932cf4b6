package main

import (
	"context"
	"log"

	"github.com/ideaforge/ideaforge-backend/config"
	"github.com/ideaforge/ideaforge-backend/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := bootstrap.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}
	defer rdb.Close()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "ideaforge-api",
		Cfg:         cfg,
		DB:          db,
		Redis:       rdb,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
