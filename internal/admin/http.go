package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ideaforge/ideaforge-backend/internal/generation"
	"github.com/ideaforge/ideaforge-backend/internal/projects"
	"github.com/ideaforge/ideaforge-backend/internal/users"
)

// Handler serves the oversight views. Routes are mounted behind
// auth.RequireAdmin; project data stays read-only here, the only
// mutation is toggling an account's status.
type Handler struct {
	users    *users.Repo
	projects *projects.Repo
	logs     *generation.LogRepo
}

func Register(rg *gin.RouterGroup, userRepo *users.Repo, projectRepo *projects.Repo, logRepo *generation.LogRepo) {
	h := &Handler{users: userRepo, projects: projectRepo, logs: logRepo}

	rg.GET("/users", h.listUsers)
	rg.PATCH("/users/:user_id/status", h.setUserStatus)
	rg.GET("/projects", h.listProjects)
	rg.GET("/generations/stats", h.generationStats)
}

func limitParam(c *gin.Context) int {
	n, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		return 100
	}
	return n
}

func (h *Handler) listUsers(c *gin.Context) {
	items, err := h.users.List(c.Request.Context(), limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": items})
}

type setStatusReq struct {
	Status users.Status `json:"status"`
}

// setUserStatus disables or re-enables an account. Accounts are never
// hard-deleted; a DISABLED user fails token validation on the next
// request.
func (h *Handler) setUserStatus(c *gin.Context) {
	var req setStatusReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		(req.Status != users.StatusActive && req.Status != users.StatusDisabled) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status must be ACTIVE or DISABLED"})
		return
	}

	err := h.users.SetStatus(c.Request.Context(), c.Param("user_id"), req.Status)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) listProjects(c *gin.Context) {
	items, err := h.projects.ListAll(c.Request.Context(), limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "projects": items})
}

func (h *Handler) generationStats(c *gin.Context) {
	stats, err := h.logs.StatsByStage(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
