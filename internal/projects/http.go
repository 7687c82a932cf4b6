package projects

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ideaforge/ideaforge-backend/internal/auth"
	"github.com/ideaforge/ideaforge-backend/internal/autosave"
	"github.com/ideaforge/ideaforge-backend/internal/projects/domain"
)

type Handler struct {
	repo  *Repo
	saver *autosave.Coordinator
}

func Register(rg *gin.RouterGroup, repo *Repo, saver *autosave.Coordinator) {
	h := &Handler{repo: repo, saver: saver}

	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:public_id", h.get)
	rg.PATCH("/:public_id", h.patch)
	rg.DELETE("/:public_id", h.delete)

	rg.PATCH("/:public_id/draft", h.draftPatch)
	rg.POST("/:public_id/save", h.saveNow)
	rg.GET("/:public_id/save", h.saveState)

	rg.POST("/:public_id/personas/select", h.selectPersonas)
	rg.POST("/:public_id/solutions/select", h.selectSolution)
}

// Authorize loads a project and enforces access: owners get full
// access, admins read-only, everyone else 403. Shared with the wizard,
// generation, mockup and export handlers.
func (h *Handler) Authorize(c *gin.Context, write bool) (*domain.Project, bool) {
	return AuthorizeProject(c, h.repo, write)
}

func AuthorizeProject(c *gin.Context, repo *Repo, write bool) (*domain.Project, bool) {
	publicID := c.Param("public_id")
	p, err := repo.Get(c.Request.Context(), publicID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return nil, false
	}

	userID := auth.UserID(c)
	if p.OwnerID == userID {
		return p, true
	}
	if !write && auth.IsAdmin(c) {
		return p, true
	}

	c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "not your project"})
	return nil, false
}

type createReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "title required"})
		return
	}

	p, err := h.repo.Create(c.Request.Context(), auth.UserID(c), strings.TrimSpace(req.Title), strings.TrimSpace(req.Description))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	p, ok := h.Authorize(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "project": p})
}

// patch edits whitelisted fields immediately, without the debounce.
func (h *Handler) patch(c *gin.Context) {
	p, ok := h.Authorize(c, true)
	if !ok {
		return
	}

	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil || len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body"})
		return
	}

	if err := h.repo.ApplyPatch(c.Request.Context(), auth.UserID(c), p.PublicID, patch); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	updated, err := h.repo.Get(c.Request.Context(), p.PublicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "project": updated})
}

// draftPatch queues a debounced auto-save instead of writing through.
func (h *Handler) draftPatch(c *gin.Context) {
	p, ok := h.Authorize(c, true)
	if !ok {
		return
	}

	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil || len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body"})
		return
	}
	for field := range patch {
		if _, editable := patchColumns[field]; !editable {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "field " + field + " not editable"})
			return
		}
	}

	h.saver.Queue(p.PublicID, patch)
	c.JSON(http.StatusAccepted, gin.H{"success": true, "state": h.saver.State(p.PublicID)})
}

func (h *Handler) saveNow(c *gin.Context) {
	p, ok := h.Authorize(c, true)
	if !ok {
		return
	}

	if err := h.saver.Flush(c.Request.Context(), p.PublicID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error(), "state": h.saver.State(p.PublicID)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "state": h.saver.State(p.PublicID)})
}

func (h *Handler) saveState(c *gin.Context) {
	p, ok := h.Authorize(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "state": h.saver.State(p.PublicID)})
}

func (h *Handler) delete(c *gin.Context) {
	p, ok := h.Authorize(c, true)
	if !ok {
		return
	}

	if err := h.repo.Delete(c.Request.Context(), auth.UserID(c), p.PublicID); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type selectPersonasReq struct {
	PersonaIDs []string `json:"persona_ids"`
}

func (h *Handler) selectPersonas(c *gin.Context) {
	p, ok := h.Authorize(c, true)
	if !ok {
		return
	}

	var req selectPersonasReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.PersonaIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "persona_ids required"})
		return
	}

	known := make(map[string]bool, len(p.Personas))
	for _, persona := range p.Personas {
		known[persona.ID] = true
	}
	for _, id := range req.PersonaIDs {
		if !known[id] {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown persona id " + id})
			return
		}
	}

	if err := h.repo.SetSelectedPersonas(c.Request.Context(), auth.UserID(c), p.PublicID, req.PersonaIDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type selectSolutionReq struct {
	SolutionID string `json:"solution_id"`
}

func (h *Handler) selectSolution(c *gin.Context) {
	p, ok := h.Authorize(c, true)
	if !ok {
		return
	}

	var req selectSolutionReq
	if err := c.ShouldBindJSON(&req); err != nil || req.SolutionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "solution_id required"})
		return
	}

	found := false
	for _, s := range p.Solutions {
		if s.ID == req.SolutionID {
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown solution id " + req.SolutionID})
		return
	}

	if err := h.repo.SetSelectedSolution(c.Request.Context(), auth.UserID(c), p.PublicID, req.SolutionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
