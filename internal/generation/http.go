package generation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ideaforge/ideaforge-backend/internal/auth"
	"github.com/ideaforge/ideaforge-backend/internal/projects"
	projdomain "github.com/ideaforge/ideaforge-backend/internal/projects/domain"
)

type Handler struct {
	service  *Service
	projects *projects.Repo
}

// Register mounts one generate endpoint per wizard stage.
func Register(rg *gin.RouterGroup, service *Service, projectRepo *projects.Repo) {
	h := &Handler{service: service, projects: projectRepo}

	rg.POST("/generate-empathy", h.generate(projdomain.StageEmpathize))
	rg.POST("/generate-personas", h.generate(projdomain.StagePersonas))
	rg.POST("/generate-problem", h.generate(projdomain.StageDefine))
	rg.POST("/generate-solutions", h.generate(projdomain.StageIdeate))
	rg.POST("/generate-business-model", h.generate(projdomain.StagePrototype))
	rg.POST("/generate-validation", h.generate(projdomain.StageValidate))
	rg.POST("/generate-architecture", h.generate(projdomain.StageArchitecture))
	rg.POST("/generate-mockup", h.generate(projdomain.StageMockup))

	rg.GET("/quota", h.quota)
}

type generateReq struct {
	ProjectID string `json:"project_id"`
}

func (h *Handler) generate(stage projdomain.Stage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateReq
		if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "project_id required"})
			return
		}

		userID := auth.UserID(c)
		p, err := h.projects.Get(c.Request.Context(), req.ProjectID)
		if err != nil {
			if errors.Is(err, projects.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "project not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		if p.OwnerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "not your project"})
			return
		}

		out, err := h.service.Generate(c.Request.Context(), userID, p, stage)
		if err != nil {
			status, msg := mapGenerateErr(err)
			c.JSON(status, gin.H{"success": false, "error": msg})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"data":        out.Project,
			"tokens_used": out.TokensUsed,
			"latency_ms":  out.LatencyMs,
			"model":       out.Model,
		})
	}
}

// mapGenerateErr keeps failure kinds distinguishable by status while
// the user-facing message stays generic for provider-side trouble.
func mapGenerateErr(err error) (int, string) {
	switch {
	case errors.Is(err, ErrStageNotReady):
		return http.StatusBadRequest, "an earlier stage must be completed first"
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusTooManyRequests, "generation quota exceeded, try again later"
	case errors.Is(err, ErrStaleRequest):
		return http.StatusConflict, "a newer generation request took over"
	case errors.Is(err, ErrUnparseable):
		return http.StatusUnprocessableEntity, "the AI response could not be understood, please retry"
	case errors.Is(err, ErrProviderAuth),
		errors.Is(err, ErrProviderRateLimited),
		errors.Is(err, ErrProviderBadResponse):
		return http.StatusBadGateway, "the AI service is unavailable, please retry"
	default:
		return http.StatusInternalServerError, "generation failed, please retry"
	}
}

func (h *Handler) quota(c *gin.Context) {
	left, err := h.service.quota.Remaining(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "remaining": left})
}
