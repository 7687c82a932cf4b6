package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const probeTimeout = time.Second

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
	Redis     string    `json:"redis,omitempty"`
}

// HealthHandler reports liveness plus the state of the two backing
// stores. The endpoint always answers 200; orchestrators that care
// about dependency state read the per-store fields.
type HealthHandler struct {
	serviceName string
	version     string
	db          *pgxpool.Pool
	redis       *redis.Client
}

func NewHealthHandler(serviceName, version string, db *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		redis:       rdb,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        "disabled",
		Redis:     "disabled",
	}

	if h.db != nil {
		resp.DB = probe(c.Request.Context(), h.db.Ping)
	}
	if h.redis != nil {
		resp.Redis = probe(c.Request.Context(), func(ctx context.Context) error {
			return h.redis.Ping(ctx).Err()
		})
	}

	c.JSON(http.StatusOK, resp)
}

func probe(ctx context.Context, ping func(context.Context) error) string {
	pingCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if err := ping(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
