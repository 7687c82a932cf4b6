package mockup

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ideaforge/ideaforge-backend/internal/projects"
)

type Handler struct {
	projects *projects.Repo
}

// RegisterProjectSubroutes mounts the mockup preview and archive
// download under the project group.
func RegisterProjectSubroutes(rg *gin.RouterGroup, projectRepo *projects.Repo) {
	h := &Handler{projects: projectRepo}

	rg.GET("/:public_id/mockup/pages", h.pages)
	rg.GET("/:public_id/mockup/archive", h.archive)
}

// pages lists the generated file names, a cheap preview index.
func (h *Handler) pages(c *gin.Context) {
	p, ok := projects.AuthorizeProject(c, h.projects, false)
	if !ok {
		return
	}

	site, err := Render(p)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	names := make([]string, 0, len(site.Files))
	for name := range site.Files {
		names = append(names, name)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pages": names})
}

func (h *Handler) archive(c *gin.Context) {
	p, ok := projects.AuthorizeProject(c, h.projects, false)
	if !ok {
		return
	}

	site, err := Render(p)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	data, err := Archive(site)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+p.PublicID+`-mockup.zip"`)
	c.Data(http.StatusOK, "application/zip", data)
}
