package bootstrap

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ideaforge/ideaforge-backend/config"
	"github.com/ideaforge/ideaforge-backend/internal/admin"
	httpapi "github.com/ideaforge/ideaforge-backend/internal/api/http"
	"github.com/ideaforge/ideaforge-backend/internal/api/http/middleware"
	"github.com/ideaforge/ideaforge-backend/internal/auth"
	"github.com/ideaforge/ideaforge-backend/internal/autosave"
	"github.com/ideaforge/ideaforge-backend/internal/export"
	"github.com/ideaforge/ideaforge-backend/internal/generation"
	"github.com/ideaforge/ideaforge-backend/internal/mockup"
	"github.com/ideaforge/ideaforge-backend/internal/projects"
	"github.com/ideaforge/ideaforge-backend/internal/users"
	"github.com/ideaforge/ideaforge-backend/internal/wizard"
)

type RouterDeps struct {
	ServiceName string
	Cfg         *config.Config
	DB          *pgxpool.Pool
	Redis       *redis.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.Cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Cfg.App.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	userRepo := users.NewRepo(dep.DB)
	projectRepo := projects.NewRepo(dep.DB)
	logRepo := generation.NewLogRepo(dep.DB)
	navStore := wizard.NewNavStore(dep.Redis)
	issuer := auth.NewTokenIssuer(dep.Cfg.Auth.JWTSecret, dep.Cfg.Auth.TokenTTL)

	saver := autosave.New(dep.Cfg.App.AutosaveDelay, func(ctx context.Context, publicID string, patch map[string]any) error {
		// Auto-saves carry no user id; the debounced write targets the
		// project by owner looked up at save time.
		p, err := projectRepo.Get(ctx, publicID)
		if err != nil {
			return err
		}
		if err := projectRepo.ApplyPatch(ctx, p.OwnerID, publicID, patch); err != nil {
			log.Printf("[warn] autosave project=%s error=%v", publicID, err)
			return err
		}
		return nil
	})

	quota := generation.NewQuota(dep.Redis, dep.Cfg.AI.DailyQuota, dep.Cfg.AI.QuotaWindow)
	client := generation.NewCompletionClient(
		dep.Cfg.AI.BaseURL, dep.Cfg.AI.APIKey, dep.Cfg.AI.Model,
		dep.Cfg.AI.RequestTimeout, dep.Cfg.AI.ProviderRPS,
	)
	genService := generation.NewService(projectRepo, logRepo, quota, client)

	api := r.Group("/api/v1")

	auth.Register(api.Group("/auth"), userRepo, issuer)

	authed := api.Group("")
	authed.Use(auth.WithUser(issuer, userRepo))

	projectsGroup := authed.Group("/projects")
	projects.Register(projectsGroup, projectRepo, saver)
	wizard.RegisterProjectSubroutes(projectsGroup, navStore, projectRepo)
	mockup.RegisterProjectSubroutes(projectsGroup, projectRepo)
	export.RegisterProjectSubroutes(projectsGroup, projectRepo)

	generation.Register(authed.Group("/ai"), genService, projectRepo)

	adminGroup := authed.Group("/admin")
	adminGroup.Use(auth.RequireAdmin())
	admin.Register(adminGroup, userRepo, projectRepo, logRepo)

	return r
}
