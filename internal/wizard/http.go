package wizard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ideaforge/ideaforge-backend/internal/auth"
	"github.com/ideaforge/ideaforge-backend/internal/projects"
	"github.com/ideaforge/ideaforge-backend/internal/projects/domain"
)

type Handler struct {
	store    *NavStore
	projects *projects.Repo
}

// RegisterProjectSubroutes mounts the navigation slice under the
// project group so ownership is enforced the same way as every other
// project route.
func RegisterProjectSubroutes(rg *gin.RouterGroup, store *NavStore, projectRepo *projects.Repo) {
	h := &Handler{store: store, projects: projectRepo}

	rg.GET("/:public_id/wizard", h.get)
	rg.PUT("/:public_id/wizard", h.put)
}

type navResponse struct {
	Current   domain.Stage   `json:"current"`
	Completed []domain.Stage `json:"completed"`
}

func (h *Handler) get(c *gin.Context) {
	p, ok := projects.AuthorizeProject(c, h.projects, false)
	if !ok {
		return
	}

	seq, err := h.store.Load(c.Request.Context(), auth.UserID(c), p.PublicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "wizard": navResponse{
		Current:   seq.Current,
		Completed: seq.CompletedList(),
	}})
}

type putNavReq struct {
	Current   domain.Stage   `json:"current"`
	Completed []domain.Stage `json:"completed"`
}

// put replaces the persisted slice after re-checking the gating
// predicate: the claimed current stage must be reachable from the
// claimed completed set.
func (h *Handler) put(c *gin.Context) {
	p, ok := projects.AuthorizeProject(c, h.projects, true)
	if !ok {
		return
	}

	var req putNavReq
	if err := c.ShouldBindJSON(&req); err != nil || domain.StageIndex(req.Current) < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid wizard state"})
		return
	}

	seq := NewSequencer()
	for _, st := range req.Completed {
		if domain.StageIndex(st) < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown stage " + string(st)})
			return
		}
		seq.MarkCompleted(st)
	}
	if err := seq.GoTo(req.Current); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if err := h.store.Save(c.Request.Context(), auth.UserID(c), p.PublicID, seq); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "wizard": navResponse{
		Current:   seq.Current,
		Completed: seq.CompletedList(),
	}})
}
