package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/ideaforge/ideaforge-backend/config"
	"github.com/ideaforge/ideaforge-backend/internal/bootstrap"
	"github.com/ideaforge/ideaforge-backend/internal/generation"
	"github.com/ideaforge/ideaforge-backend/internal/projects"
)

// The maintenance worker runs nightly housekeeping: archiving projects
// nobody has touched in a long while and pruning generation-log rows
// past the retention window.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	projectRepo := projects.NewRepo(db)
	logRepo := generation.NewLogRepo(db)

	c := cron.New()

	// 03:00 every night
	_, err = c.AddFunc("0 3 * * *", func() {
		runNightlyJobs(projectRepo, logRepo, cfg)
	})
	if err != nil {
		log.Fatalf("schedule nightly jobs: %v", err)
	}

	log.Println("maintenance worker started (nightly at 03:00)")
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("stopping")
	<-c.Stop().Done()
}

func runNightlyJobs(projectRepo *projects.Repo, logRepo *generation.LogRepo, cfg *config.Config) {
	ctx := context.Background()

	archived, err := projectRepo.ArchiveStale(ctx, cfg.Worker.StaleProjectDays)
	if err != nil {
		log.Printf("archive stale projects: %v", err)
	} else {
		log.Printf("archived %d stale projects", archived)
	}

	pruned, err := logRepo.PruneOlderThan(ctx, cfg.Worker.LogRetentionDays)
	if err != nil {
		log.Printf("prune generation logs: %v", err)
	} else {
		log.Printf("pruned %d generation log rows", pruned)
	}
}
